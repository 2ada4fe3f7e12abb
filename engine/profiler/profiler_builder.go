package profiler

import (
	"time"

	"github.com/Carmen-Shannon/anima/engine/clock"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often stats are reported.
//
// Parameters:
//   - d: reporting interval (ignored if <= 0)
//
// Returns:
//   - ProfilerBuilderOption: functional option to set the interval
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithTimeProvider sets the clock used for frame and step timing.
//
// Parameters:
//   - tp: the time provider
//
// Returns:
//   - ProfilerBuilderOption: functional option to set the time provider
func WithTimeProvider(tp clock.TimeProvider) ProfilerBuilderOption {
	return func(p *Profiler) {
		if tp != nil {
			p.timeProvider = tp
		}
	}
}

// WithoutMemory skips runtime.ReadMemStats, which stops the world briefly.
func WithoutMemory() ProfilerBuilderOption {
	return func(p *Profiler) {
		p.readMemory = false
	}
}

// WithQuiet records stats without logging them.
func WithQuiet() ProfilerBuilderOption {
	return func(p *Profiler) {
		p.quiet = true
	}
}
