package progress

import "github.com/Carmen-Shannon/anima/common"

// SmoothScrollerBuilderOption is a functional option for configuring a SmoothScroller.
type SmoothScrollerBuilderOption func(*smoothScrollerImpl)

// WithTimeConstant sets the exponential-decay time constant.
// Larger values make the virtual position trail further behind. Values <= 0 are ignored.
//
// Parameters:
//   - seconds: time constant in seconds (default 0.12)
//
// Returns:
//   - SmoothScrollerBuilderOption: option function to apply
func WithTimeConstant(seconds float64) SmoothScrollerBuilderOption {
	return func(s *smoothScrollerImpl) {
		if seconds > 0 {
			s.timeConstant = seconds
		}
	}
}

// WithLimit sets the maximum scroll offset.
//
// Parameters:
//   - limit: scrollable height in pixels
//
// Returns:
//   - SmoothScrollerBuilderOption: option function to apply
func WithLimit(limit float64) SmoothScrollerBuilderOption {
	return func(s *smoothScrollerImpl) {
		s.limit = max(limit, 0)
	}
}

// WithWheelMultiplier scales mouse-wheel deltas.
//
// Parameters:
//   - m: wheel multiplier (default 1)
//
// Returns:
//   - SmoothScrollerBuilderOption: option function to apply
func WithWheelMultiplier(m float64) SmoothScrollerBuilderOption {
	return func(s *smoothScrollerImpl) {
		s.wheelMultiplier = m
	}
}

// WithTouchMultiplier scales touch drag deltas.
//
// Parameters:
//   - m: touch multiplier (default 2)
//
// Returns:
//   - SmoothScrollerBuilderOption: option function to apply
func WithTouchMultiplier(m float64) SmoothScrollerBuilderOption {
	return func(s *smoothScrollerImpl) {
		s.touchMultiplier = m
	}
}

// WithReadySignal enables the scroller when sig fires, e.g. once the intro sequence completes.
//
// Parameters:
//   - sig: the readiness signal
//
// Returns:
//   - SmoothScrollerBuilderOption: option function to apply
func WithReadySignal(sig *common.Signal) SmoothScrollerBuilderOption {
	return func(s *smoothScrollerImpl) {
		s.ready = sig
	}
}

// WithEnabled starts the scroller enabled instead of pinned.
//
// Returns:
//   - SmoothScrollerBuilderOption: option function to apply
func WithEnabled() SmoothScrollerBuilderOption {
	return func(s *smoothScrollerImpl) {
		s.enabled = true
	}
}
