package pointer

import (
	"math"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/Carmen-Shannon/anima/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

type fixedRay struct {
	origin, dir mgl32.Vec3
	ok          bool
}

func (f fixedRay) Ray(float32, float32) (mgl32.Vec3, mgl32.Vec3, bool) {
	return f.origin, f.dir, f.ok
}

func TestScreenToNDC(t *testing.T) {
	cases := []struct {
		px, py, w, h float32
		x, y         float32
	}{
		{0, 0, 800, 600, -1, 1},
		{800, 600, 800, 600, 1, -1},
		{400, 300, 800, 600, 0, 0},
		{200, 450, 800, 600, -0.5, -0.5},
	}
	for _, c := range cases {
		x, y, ok := ScreenToNDC(c.px, c.py, c.w, c.h)
		if !ok || x != c.x || y != c.y {
			t.Errorf("ScreenToNDC(%v, %v) = (%v, %v, %v), want (%v, %v)", c.px, c.py, x, y, ok, c.x, c.y)
		}
	}
	if _, _, ok := ScreenToNDC(1, 1, 0, 600); ok {
		t.Error("expected failure for a zero-width canvas")
	}
}

func TestLatchMoveAndLeave(t *testing.T) {
	l := NewLatch()
	if l.Snapshot().Active {
		t.Fatal("new latch should be inactive")
	}

	l.MoveScreen(400, 300, 800, 600)
	if s := l.Snapshot(); !s.Active || s.X != 0 || s.Y != 0 {
		t.Errorf("Snapshot() = %+v, want active at centre", s)
	}

	l.Leave()
	if s := l.Snapshot(); s.Active || s.X != SentinelCoord {
		t.Errorf("Snapshot() after Leave = %+v", s)
	}

	l.MoveScreen(1, 1, 0, 0)
	if l.Snapshot().Active {
		t.Error("an empty canvas should not activate the pointer")
	}
}

func TestLatchConcurrentWriters(t *testing.T) {
	l := NewLatch()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Move(float32(i)/8, float32(j)/100)
				_ = l.Snapshot()
			}
		}(i)
	}
	wg.Wait()
	if !l.Snapshot().Active {
		t.Error("pointer should be active after moves")
	}
}

func TestProjectIdentity(t *testing.T) {
	p := NewProjector()
	ray := fixedRay{origin: mgl32.Vec3{0.5, -0.25, 4}, dir: mgl32.Vec3{0, 0, -1}, ok: true}

	s := p.Project(Sample{Active: true}, ray, mgl32.Ident4())
	if !s.Active || !s.Local.ApproxEqualThreshold(mgl32.Vec3{0.5, -0.25, 0}, 1e-6) {
		t.Errorf("Project() = %+v, want (0.5, -0.25, 0)", s)
	}
}

func TestProjectUndoesFieldTransform(t *testing.T) {
	p := NewProjector()
	ray := fixedRay{origin: mgl32.Vec3{0.35, 0, 4}, dir: mgl32.Vec3{0, 0, -1}, ok: true}

	scaled := common.ModelMatrix(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{0.35, 0.35, 0.35})
	s := p.Project(Sample{Active: true}, ray, scaled)
	if !s.Local.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("scaled Local = %v, want (1, 0, 0)", s.Local)
	}

	// a quarter turn about Y maps local +Z onto world +X
	turned := common.ModelMatrix(mgl32.Vec3{}, mgl32.Vec3{0, math.Pi / 2, 0}, mgl32.Vec3{1, 1, 1})
	s = p.Project(Sample{Active: true}, ray, turned)
	if !s.Local.ApproxEqualThreshold(mgl32.Vec3{0, 0, 0.35}, 1e-5) {
		t.Errorf("rotated Local = %v, want (0, 0, 0.35)", s.Local)
	}
}

func TestProjectSentinelCases(t *testing.T) {
	p := NewProjector()
	down := fixedRay{origin: mgl32.Vec3{0, 0, 4}, dir: mgl32.Vec3{0, 0, -1}, ok: true}

	cases := map[string]struct {
		sample Sample
		cam    RayCaster
		world  mgl32.Mat4
	}{
		"inactive":  {Sample{}, down, mgl32.Ident4()},
		"no ray":    {Sample{Active: true}, fixedRay{}, mgl32.Ident4()},
		"parallel":  {Sample{Active: true}, fixedRay{origin: mgl32.Vec3{0, 0, 4}, dir: mgl32.Vec3{1, 0, 0}, ok: true}, mgl32.Ident4()},
		"behind":    {Sample{Active: true}, fixedRay{origin: mgl32.Vec3{0, 0, 4}, dir: mgl32.Vec3{0, 0, 1}, ok: true}, mgl32.Ident4()},
		"singular":  {Sample{Active: true}, down, mgl32.Mat4{}},
		"no camera": {Sample{Active: true}, nil, mgl32.Ident4()},
	}
	for name, c := range cases {
		s := p.Project(c.sample, c.cam, c.world)
		if s.Active || s.Local != Sentinel {
			t.Errorf("%s: Project() = %+v, want sentinel", name, s)
		}
	}
}

func TestProjectCustomPlane(t *testing.T) {
	p := NewProjector(WithPlaneZ(1))
	ray := fixedRay{origin: mgl32.Vec3{0, 0, 4}, dir: mgl32.Vec3{0, 0, -1}, ok: true}
	if s := p.Project(Sample{Active: true}, ray, mgl32.Ident4()); s.Local.Z() != 1 {
		t.Errorf("Local.Z = %v, want 1", s.Local.Z())
	}
}

func TestProjectWithCamera(t *testing.T) {
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	p := NewProjector()

	s := p.Project(Sample{Active: true}, cam, mgl32.Ident4())
	if !s.Active || s.Local.Len() > 1e-3 {
		t.Errorf("centre pick = %+v, want the origin", s)
	}
}
