package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeBackend struct {
	calls    []string
	uniforms GPUPointUniforms
	points   int
	clear    [4]float64
	beginErr error
}

func (f *fakeBackend) ConfigureSurface(width, height int) { f.calls = append(f.calls, "configure") }
func (f *fakeBackend) SetPresentMode(PresentMode)         { f.calls = append(f.calls, "present-mode") }
func (f *fakeBackend) SetClearColor(c [4]float64)         { f.clear = c }
func (f *fakeBackend) RegisterPointPipeline(string, BlendMode) error {
	f.calls = append(f.calls, "pipeline")
	return nil
}

func (f *fakeBackend) WritePoints(positions, sizes []float32) error {
	n, err := pointCount(positions, sizes)
	if err != nil {
		return err
	}
	f.points = n
	f.calls = append(f.calls, "points")
	return nil
}

func (f *fakeBackend) WriteUniforms(u *GPUPointUniforms) {
	f.uniforms = *u
	f.calls = append(f.calls, "uniforms")
}

func (f *fakeBackend) BeginFrame() error {
	f.calls = append(f.calls, "begin")
	return f.beginErr
}

func (f *fakeBackend) DrawPoints() error {
	f.calls = append(f.calls, "draw")
	return nil
}

func (f *fakeBackend) EndFrame() { f.calls = append(f.calls, "end") }
func (f *fakeBackend) Present()  { f.calls = append(f.calls, "present") }
func (f *fakeBackend) Release()  { f.calls = append(f.calls, "release") }

func newTestRenderer(b *fakeBackend) *renderer {
	return &renderer{
		mu:      &sync.Mutex{},
		backend: b,
		width:   1600,
		height:  900,
		color:   [4]float32{1, 1, 1, 1},
	}
}

func TestUniformLayout(t *testing.T) {
	u := GPUPointUniforms{
		View:   mgl32.Translate3D(1, 2, 3),
		Color:  [4]float32{0.25, 0.5, 0.75, 1},
		Params: [4]float32{0.95, 0.5625, 0, 0},
	}
	if u.Size() != 224 {
		t.Fatalf("Size() = %d, want 224", u.Size())
	}
	buf := u.Marshal()
	if len(buf) != u.Size() {
		t.Fatalf("Marshal() len = %d", len(buf))
	}
	at := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }

	// translation lives in the fourth column of a column-major matrix
	if at(48) != 1 || at(52) != 2 || at(56) != 3 {
		t.Errorf("view translation = %v %v %v", at(48), at(52), at(56))
	}
	if at(192) != 0.25 || at(204) != 1 {
		t.Errorf("colour = %v..%v", at(192), at(204))
	}
	if at(208) != 0.95 || at(212) != 0.5625 {
		t.Errorf("params = %v %v", at(208), at(212))
	}
}

func TestNewPointUniformsClampsOpacity(t *testing.T) {
	u := newPointUniforms(PointFrame{Opacity: 3}, [4]float32{1, 1, 1, 1}, 200, 100)
	if u.Params[0] != 1 || u.Params[1] != 0.5 {
		t.Errorf("Params = %v", u.Params)
	}
	u = newPointUniforms(PointFrame{Opacity: -1}, [4]float32{}, 0, 0)
	if u.Params[0] != 0 || u.Params[1] != 1 {
		t.Errorf("Params with no surface = %v", u.Params)
	}
}

func TestPointCountRejectsMismatch(t *testing.T) {
	if n, err := pointCount(make([]float32, 9), make([]float32, 3)); err != nil || n != 3 {
		t.Errorf("pointCount() = %d, %v", n, err)
	}
	if _, err := pointCount(make([]float32, 8), make([]float32, 3)); !errors.Is(err, errPointBufferShape) {
		t.Errorf("mismatch err = %v", err)
	}
}

func TestGrowCapacity(t *testing.T) {
	cases := []struct{ current, n, want int }{
		{0, 10, 1024},
		{1024, 1024, 1024},
		{1024, 1025, 2048},
		{0, 300000, 524288},
		{4096, 10, 4096},
	}
	for _, c := range cases {
		if got := growCapacity(c.current, c.n); got != c.want {
			t.Errorf("growCapacity(%d, %d) = %d, want %d", c.current, c.n, got, c.want)
		}
	}
}

func TestRenderSequence(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(b)

	if err := r.UploadPoints([]float32{0, 0, 0, 1, 1, 1}, []float32{0.1, 0.2}); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(PointFrame{World: mgl32.Ident4(), Opacity: 0.5}); err != nil {
		t.Fatal(err)
	}
	want := "points uniforms begin draw end present"
	if got := strings.Join(b.calls, " "); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
	if b.points != 2 || b.uniforms.Params[0] != 0.5 || b.uniforms.Params[1] != 0.5625 {
		t.Errorf("points = %d, params = %v", b.points, b.uniforms.Params)
	}
}

func TestRenderStopsWhenFrameUnavailable(t *testing.T) {
	b := &fakeBackend{beginErr: errors.New("surface lost")}
	r := newTestRenderer(b)
	if err := r.Render(PointFrame{}); err == nil {
		t.Fatal("expected the BeginFrame error")
	}
	if got := strings.Join(b.calls, " "); got != "uniforms begin" {
		t.Errorf("calls = %q", got)
	}
}

func TestColors(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(b)

	if err := r.SetPointColor("rgba(255, 0, 0, 0.5)"); err != nil {
		t.Fatal(err)
	}
	if r.color[0] != 1 || r.color[1] != 0 || math.Abs(float64(r.color[3])-0.5) > 1e-6 {
		t.Errorf("point colour = %v", r.color)
	}
	if err := r.SetClearColor("#000"); err != nil || b.clear != [4]float64{0, 0, 0, 1} {
		t.Errorf("clear = %v, %v", b.clear, err)
	}
	if err := r.SetClearColor("not-a-colour"); err == nil {
		t.Error("expected a parse error")
	}

	WithPointColor("bogus")(r)
	if r.color[0] != 1 {
		t.Error("a bad option colour must keep the previous one")
	}
	WithBlendMode(BlendAlpha)(r)
	if r.blend != BlendAlpha {
		t.Error("blend mode not applied")
	}
}

func TestResizeIgnoresEmptySize(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(b)
	r.Resize(0, 0)
	if r.width != 1600 || r.height != 900 {
		t.Errorf("size = %dx%d", r.width, r.height)
	}
	r.Resize(800, 800)
	if r.width != 800 {
		t.Errorf("width = %d", r.width)
	}
}
