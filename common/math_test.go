package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClampAndLerp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d, want 3", got)
	}
	if got := Clamp(-1.5, -1.0, 1.0); got != -1.0 {
		t.Errorf("Clamp(-1.5, -1, 1) = %v, want -1", got)
	}
	if got := Clamp01(0.25); got != 0.25 {
		t.Errorf("Clamp01(0.25) = %v, want 0.25", got)
	}
	if got := Clamp01(math.NaN()); got != 0 {
		t.Errorf("Clamp01(NaN) = %v, want 0", got)
	}
	if got := Lerp(2.0, 4.0, 0.5); got != 3.0 {
		t.Errorf("Lerp(2, 4, 0.5) = %v, want 3", got)
	}
}

func TestFinite(t *testing.T) {
	if !Finite(mgl32.Vec3{1, 2, 3}) {
		t.Error("expected finite vector to be reported finite")
	}
	nan := float32(math.NaN())
	if Finite(mgl32.Vec3{0, nan, 0}) {
		t.Error("expected NaN component to be rejected")
	}
	inf := float32(math.Inf(1))
	if Finite(mgl32.Vec3{inf, 0, 0}) {
		t.Error("expected Inf component to be rejected")
	}
}

func TestModelMatrixRoundTrip(t *testing.T) {
	m := ModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0.7, 0}, mgl32.Vec3{0.35, 0.35, 0.35})
	p := mgl32.Vec3{0.5, -0.25, 0.1}

	world, ok := TransformPoint(m, p)
	if !ok {
		t.Fatal("TransformPoint failed")
	}
	back, ok := TransformPoint(m.Inv(), world)
	if !ok {
		t.Fatal("inverse TransformPoint failed")
	}
	if !back.ApproxEqualThreshold(p, 1e-5) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj := Perspective(float32(math.Pi/4), 1.5, near, far)

	nearPt, _ := TransformPoint(proj, mgl32.Vec3{0, 0, -near})
	farPt, _ := TransformPoint(proj, mgl32.Vec3{0, 0, -far})

	if math.Abs(float64(nearPt.Z())) > 1e-5 {
		t.Errorf("near plane depth = %v, want 0", nearPt.Z())
	}
	if math.Abs(float64(farPt.Z())-1) > 1e-4 {
		t.Errorf("far plane depth = %v, want 1", farPt.Z())
	}
}
