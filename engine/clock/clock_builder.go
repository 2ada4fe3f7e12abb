package clock

import "time"

// FrameClockBuilderOption is a functional option for configuring a FrameClock.
type FrameClockBuilderOption func(*frameClockImpl)

// WithTimeProvider sets the time source used to measure frame deltas.
//
// Parameters:
//   - tp: the time provider
//
// Returns:
//   - FrameClockBuilderOption: functional option to set the time provider
func WithTimeProvider(tp TimeProvider) FrameClockBuilderOption {
	return func(c *frameClockImpl) {
		if tp != nil {
			c.timeProvider = tp
		}
	}
}

// WithTickRate sets the loop rate in frames per second.
//
// Parameters:
//   - fps: target frames per second (ignored if <= 0)
//
// Returns:
//   - FrameClockBuilderOption: functional option to set the tick rate
func WithTickRate(fps float64) FrameClockBuilderOption {
	return func(c *frameClockImpl) {
		if fps > 0 {
			c.tickRate = time.Duration(float64(time.Second) / fps)
		}
	}
}

// WithMaxDelta sets the largest delta a single tick may report. Zero disables the clamp.
//
// Parameters:
//   - seconds: the clamp in seconds
//
// Returns:
//   - FrameClockBuilderOption: functional option to set the clamp
func WithMaxDelta(seconds float64) FrameClockBuilderOption {
	return func(c *frameClockImpl) {
		c.maxDelta = max(seconds, 0)
	}
}

// WithManualTicks disables the loop goroutine; the host drives the clock by calling Tick.
//
// Returns:
//   - FrameClockBuilderOption: functional option to enable manual ticking
func WithManualTicks() FrameClockBuilderOption {
	return func(c *frameClockImpl) {
		c.manual = true
	}
}

// WithTickCallback registers the function called each tick.
//
// Parameters:
//   - callback: receives the frame delta in seconds
//
// Returns:
//   - FrameClockBuilderOption: functional option to set the tick callback
func WithTickCallback(callback func(deltaTime float64)) FrameClockBuilderOption {
	return func(c *frameClockImpl) {
		c.tickCallback = callback
	}
}
