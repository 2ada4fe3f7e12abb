package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultControllerFramesField(t *testing.T) {
	cc := NewCameraController()
	if !cc.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, 4}, 1e-5) {
		t.Errorf("Position() = %v, want (0, 0, 4)", cc.Position())
	}
}

func TestRayThroughCentreHitsOrigin(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()), WithAspect(16.0/9.0))

	origin, dir, ok := cam.Ray(0, 0)
	if !ok {
		t.Fatal("Ray(0, 0) failed")
	}
	if !origin.ApproxEqualThreshold(mgl32.Vec3{0, 0, 4}, 1e-5) {
		t.Errorf("origin = %v, want eye", origin)
	}
	if !dir.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-3) {
		t.Errorf("dir = %v, want (0, 0, -1)", dir)
	}
}

func TestRayFollowsPointer(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))

	_, right, _ := cam.Ray(1, 0)
	_, up, _ := cam.Ray(0, 1)
	if right.X() <= 0 || math.Abs(float64(right.Y())) > 1e-3 {
		t.Errorf("right ray = %v", right)
	}
	if up.Y() <= 0 || math.Abs(float64(up.X())) > 1e-3 {
		t.Errorf("up ray = %v", up)
	}

	// at the NDC edge the ray leaves at half the vertical FOV
	angle := math.Acos(float64(up.Dot(mgl32.Vec3{0, 0, -1})))
	if math.Abs(angle-math.Pi/8) > 1e-3 {
		t.Errorf("edge angle = %v, want %v", angle, math.Pi/8)
	}
}

func TestWiderFovWidensEdgeRays(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()), WithFovDegrees(90), WithClipRange(0.5, 50))
	if cam.Near() != 0.5 || cam.Far() != 50 {
		t.Errorf("clip range = %v..%v", cam.Near(), cam.Far())
	}

	_, up, ok := cam.Ray(0, 1)
	if !ok {
		t.Fatal("Ray(0, 1) failed")
	}
	angle := math.Acos(float64(up.Dot(mgl32.Vec3{0, 0, -1})))
	if math.Abs(angle-math.Pi/4) > 1e-3 {
		t.Errorf("edge angle = %v, want %v", angle, math.Pi/4)
	}
}

func TestSingularProjectionRejectsRays(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()), WithAspect(0))
	if _, ok := cam.InverseViewProjection(); ok {
		t.Fatal("expected a singular view-projection")
	}
	if _, _, ok := cam.Ray(0, 0); ok {
		t.Error("Ray should fail on a singular camera")
	}
}

func TestControllerClamps(t *testing.T) {
	cc := NewCameraController(WithRadiusBounds(1, 10))

	cc.Zoom(100)
	if cc.Radius() != 1 {
		t.Errorf("Radius() = %v after zooming in, want 1", cc.Radius())
	}
	cc.SetRadius(50)
	if cc.Radius() != 10 {
		t.Errorf("Radius() = %v, want 10", cc.Radius())
	}

	cc.SetElevation(10)
	if cc.Elevation() >= math.Pi/2 {
		t.Errorf("Elevation() = %v, want below the pole", cc.Elevation())
	}
}

func TestUpdateTracksController(t *testing.T) {
	cc := NewCameraController()
	cam := NewCamera(WithController(cc))

	cc.SetAzimuth(math.Pi / 2)
	cam.Update()
	if !cam.Position().ApproxEqualThreshold(mgl32.Vec3{4, 0, 0}, 1e-4) {
		t.Errorf("Position() = %v, want (4, 0, 0)", cam.Position())
	}
}
