package engine

import (
	"github.com/Carmen-Shannon/anima/engine/camera"
	"github.com/Carmen-Shannon/anima/engine/clock"
	"github.com/Carmen-Shannon/anima/engine/loader"
	"github.com/Carmen-Shannon/anima/engine/particle"
	"github.com/Carmen-Shannon/anima/engine/profiler"
)

// GlobeBuilderOption is a functional option for configuring a Globe.
type GlobeBuilderOption func(*globe)

// WithConfig sets the field and swarm tunables. Zero fields take their defaults.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithConfig(cfg particle.Config) GlobeBuilderOption {
	return func(g *globe) {
		g.config = cfg
	}
}

// WithSeed seeds the field factories so repeated runs build identical fields. Defaults to 1.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithSeed(seed uint64) GlobeBuilderOption {
	return func(g *globe) {
		g.seed = seed
	}
}

// WithWorkers sets how many workers the simulator may split a step across.
//
// Parameters:
//   - n: worker count (1 keeps the step on the ticking goroutine)
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithWorkers(n int) GlobeBuilderOption {
	return func(g *globe) {
		g.workers = max(n, 1)
	}
}

// WithLoader sets the loader used to read the source point cloud.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithLoader(l loader.Loader) GlobeBuilderOption {
	return func(g *globe) {
		g.loader = l
	}
}

// WithCamera sets the camera used for picking and viewing.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithCamera(c camera.Camera) GlobeBuilderOption {
	return func(g *globe) {
		g.camera = c
	}
}

// WithGlobeProfiler times every simulation step and reports frame statistics.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithGlobeProfiler(p *profiler.Profiler) GlobeBuilderOption {
	return func(g *globe) {
		g.profiler = p
	}
}

// WithClockOptions passes options through to the globe's frame clock.
//
// Parameters:
//   - options: frame clock options
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithClockOptions(options ...clock.FrameClockBuilderOption) GlobeBuilderOption {
	return func(g *globe) {
		g.clockOptions = append(g.clockOptions, options...)
	}
}
