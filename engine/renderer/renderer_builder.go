package renderer

import "log"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
// Higher values (MSAA8x, MSAA16x) are adapter-dependent and may not be supported
// by all hardware.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff, MSAA4x, MSAA8x, or MSAA16x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the background colour from a CSS colour string.
// An unparsable colour is logged and the default black is kept.
//
// Parameters:
//   - color: CSS colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear colour to a renderer
func WithClearColor(color string) RendererBuilderOption {
	return func(r *renderer) {
		c, err := parseColor(color)
		if err != nil {
			log.Printf("[Renderer] ignoring clear colour: %v", err)
			return
		}
		r.pendingClearColor = &c
	}
}

// WithPointColor sets the point colour from a CSS colour string. Defaults to white.
// An unparsable colour is logged and the default is kept.
//
// Parameters:
//   - color: CSS colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the point colour to a renderer
func WithPointColor(color string) RendererBuilderOption {
	return func(r *renderer) {
		c, err := parseColor(color)
		if err != nil {
			log.Printf("[Renderer] ignoring point colour: %v", err)
			return
		}
		r.color = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
	}
}

// WithBlendMode selects how points combine with the background. Defaults to BlendAdditive.
//
// Parameters:
//   - mode: the BlendMode
//
// Returns:
//   - RendererBuilderOption: a function that applies the blend mode to a renderer
func WithBlendMode(mode BlendMode) RendererBuilderOption {
	return func(r *renderer) {
		r.blend = mode
	}
}

// WithShaderSource replaces the point shader. The source must declare the same uniform block
// and instance attributes as GPUPointShaderSource.
//
// Parameters:
//   - source: WGSL source
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader source to a renderer
func WithShaderSource(source string) RendererBuilderOption {
	return func(r *renderer) {
		if source != "" {
			r.shaderSource = source
		}
	}
}
