package common

import "sync"

// Signal is a one-shot readiness flag. Create it with NewSignal.
// Dependents either wait on Done or register a callback with Then;
// Fire releases both exactly once.
type Signal struct {
	mu        sync.Mutex
	done      chan struct{}
	fired     bool
	callbacks []func()
}

// NewSignal creates an unfired Signal.
//
// Returns:
//   - *Signal: the new signal
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire marks the signal as ready and runs registered callbacks in registration order.
// Safe to call multiple times; only the first call has any effect.
func (s *Signal) Fire() {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return
	}
	s.fired = true
	cbs := s.callbacks
	s.callbacks = nil
	close(s.done)
	s.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

// Fired reports whether Fire has been called.
func (s *Signal) Fired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

// Done returns a channel that is closed once the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Then registers fn to run when the signal fires.
// If the signal already fired, fn runs immediately on the caller's goroutine.
//
// Parameters:
//   - fn: the callback to run
func (s *Signal) Then(fn func()) {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		fn()
		return
	}
	s.callbacks = append(s.callbacks, fn)
	s.mu.Unlock()
}
