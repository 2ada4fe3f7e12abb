package progress

import "math"

// Scrubber smooths a region's progress so the animated subject trails the scrollbar.
// A zero lag passes progress through unchanged.
type Scrubber struct {
	lag     float64
	value   float64
	primed  bool
	settled float64
}

// NewScrubber creates a Scrubber with the given lag in seconds.
//
// Parameters:
//   - lag: time constant of the exponential filter (0 disables smoothing)
//
// Returns:
//   - *Scrubber: the new scrubber
func NewScrubber(lag float64) *Scrubber {
	return &Scrubber{lag: max(lag, 0), settled: 1e-4}
}

// Update moves the smoothed value toward raw over dt seconds and returns it.
// The first call snaps to raw.
//
// Parameters:
//   - raw: the instantaneous progress
//   - dt: elapsed seconds since the previous call
//
// Returns:
//   - float64: the smoothed progress
func (s *Scrubber) Update(raw, dt float64) float64 {
	if !s.primed || s.lag == 0 {
		s.value = raw
		s.primed = true
		return s.value
	}
	if dt > 0 {
		s.value += (raw - s.value) * (1 - math.Exp(-dt/s.lag))
	}
	if math.Abs(raw-s.value) < s.settled {
		s.value = raw
	}
	return s.value
}

// Value returns the last smoothed progress.
func (s *Scrubber) Value() float64 {
	return s.value
}

// Reset forgets the filter state so the next Update snaps.
func (s *Scrubber) Reset() {
	s.primed = false
	s.value = 0
}
