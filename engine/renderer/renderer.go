// Package renderer draws the particle field as depth-attenuated, round point sprites through WebGPU.
package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/anima/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	css "github.com/mazznoer/csscolorparser"
)

// PointFrame holds the per-frame transforms and fade of the point field.
type PointFrame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	World      mgl32.Mat4

	// Opacity multiplies the point colour's alpha, clamped to [0, 1].
	Opacity float32
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width  int
	height int
	color  [4]float32

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *[4]float64
	blend                BlendMode
	shaderSource         string
}

// Renderer draws one point field per frame.
//
// Point data and per-frame uniforms are uploaded separately: UploadPoints copies the simulator's
// buffers once per tick, and Render draws whatever was last uploaded with the given transforms.
type Renderer interface {
	// Resize reconfigures the surface and its attachments for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background colour from a CSS colour string.
	//
	// Parameters:
	//   - color: CSS colour such as "#0a0a0a" or "rgb(10, 10, 10)"
	//
	// Returns:
	//   - error: error if the colour cannot be parsed
	SetClearColor(color string) error

	// SetPointColor sets the point colour from a CSS colour string.
	//
	// Parameters:
	//   - color: CSS colour
	//
	// Returns:
	//   - error: error if the colour cannot be parsed
	SetPointColor(color string) error

	// UploadPoints copies point positions and sizes to the GPU.
	// The slices are read during the call only.
	//
	// Parameters:
	//   - positions: xyz per point, len = 3 × len(sizes)
	//   - sizes: one size per point
	//
	// Returns:
	//   - error: error if the buffer shapes disagree or the GPU buffers could not be grown
	UploadPoints(positions, sizes []float32) error

	// Render draws the uploaded points with the frame's transforms and presents the result.
	//
	// Parameters:
	//   - frame: view, projection and field transforms plus opacity
	//
	// Returns:
	//   - error: error if the swapchain texture could not be acquired
	Render(frame PointFrame) error

	// Close releases every GPU object. The Renderer must not be used afterwards.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing into the window's surface.
// GPU initialisation failures panic; there is nothing to draw without a device.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:           &sync.Mutex{},
		backendType:  backendType,
		color:        [4]float32{1, 1, 1, 1},
		blend:        BlendAdditive,
		shaderSource: GPUPointShaderSource,
		width:        window.Width(),
		height:       window.Height(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	r.backend.ConfigureSurface(r.width, r.height)
	if err := r.backend.RegisterPointPipeline(r.shaderSource, r.blend); err != nil {
		panic(err)
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	if width > 0 && height > 0 {
		r.width, r.height = width, height
	}
	r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color string) error {
	c, err := parseColor(color)
	if err != nil {
		return err
	}
	r.backend.SetClearColor(c)
	return nil
}

func (r *renderer) SetPointColor(color string) error {
	c, err := parseColor(color)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.color = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
	return nil
}

func (r *renderer) UploadPoints(positions, sizes []float32) error {
	return r.backend.WritePoints(positions, sizes)
}

func (r *renderer) Render(frame PointFrame) error {
	r.mu.Lock()
	uniforms := newPointUniforms(frame, r.color, r.width, r.height)
	r.mu.Unlock()

	r.backend.WriteUniforms(&uniforms)
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	drawErr := r.backend.DrawPoints()
	r.backend.EndFrame()
	r.backend.Present()
	return drawErr
}

func (r *renderer) Close() {
	r.backend.Release()
}

// parseColor parses a CSS colour string into RGBA in [0, 1].
func parseColor(str string) ([4]float64, error) {
	c, err := css.Parse(str)
	if err != nil {
		return [4]float64{}, fmt.Errorf("colour %q: %w", str, err)
	}
	return [4]float64{c.R, c.G, c.B, c.A}, nil
}
