package carousel

import (
	"errors"
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var errNoValues = errors.New("alternator needs at least two values")

// Alternator cycles a counter through a fixed list of values on an interval, cross-fading
// between them. Progress reports how far the current cross-fade has run.
type Alternator struct {
	mu *sync.Mutex

	count int
	index int

	interval   time.Duration
	transition time.Duration
	easing     ease.TweenFunc

	running   bool
	remaining float64
	tween     *gween.Tween
	progress  float32

	listeners []func(from, to int)
}

// AlternatorBuilderOption is a functional option for configuring an Alternator.
type AlternatorBuilderOption func(*Alternator)

// WithEasing sets the cross-fade curve.
//
// Parameters:
//   - easing: the easing curve
//
// Returns:
//   - AlternatorBuilderOption: functional option to set the curve
func WithEasing(easing ease.TweenFunc) AlternatorBuilderOption {
	return func(a *Alternator) {
		if easing != nil {
			a.easing = easing
		}
	}
}

// NewAlternator creates a stopped Alternator on value 0.
//
// Parameters:
//   - values: number of values to cycle through
//   - interval: time between changes
//   - transition: cross-fade duration
//   - options: functional options
//
// Returns:
//   - *Alternator: the alternator
//   - error: error if fewer than two values are given
func NewAlternator(values int, interval, transition time.Duration, options ...AlternatorBuilderOption) (*Alternator, error) {
	if values < 2 {
		return nil, errNoValues
	}
	a := &Alternator{
		mu:         &sync.Mutex{},
		count:      values,
		interval:   interval,
		transition: max(transition, 0),
		easing:     ease.InOutCubic,
		progress:   1,
	}
	for _, option := range options {
		option(a)
	}
	return a, nil
}

// SpeciesCounter toggles between a count and a percentage every 3 s with a 0.8 s cross-fade.
func SpeciesCounter() *Alternator {
	a, _ := NewAlternator(2, 3*time.Second, 800*time.Millisecond)
	return a
}

// ProportionsCounter steps through nine category proportions every 2.5 s with a 0.6 s cross-fade.
func ProportionsCounter() *Alternator {
	a, _ := NewAlternator(9, 2500*time.Millisecond, 600*time.Millisecond)
	return a
}

// Start schedules the next change one interval from now, replacing any pending one.
func (a *Alternator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = true
	a.remaining = a.interval.Seconds()
}

// Stop cancels the pending change. Stopping a stopped alternator does nothing.
func (a *Alternator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = false
}

// Running reports whether a change is scheduled.
func (a *Alternator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Index returns the value currently shown (or fading in).
func (a *Alternator) Index() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// Progress returns the eased cross-fade progress in [0, 1]; 1 when no fade is running.
func (a *Alternator) Progress() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progress
}

// OnChange registers an observer notified when the value changes.
func (a *Alternator) OnChange(fn func(from, to int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Update advances the cross-fade and the countdown. A running fade keeps animating after Stop.
//
// Parameters:
//   - dt: elapsed seconds
func (a *Alternator) Update(dt float64) {
	if dt <= 0 {
		return
	}

	a.mu.Lock()
	if a.tween != nil {
		v, done := a.tween.Update(float32(dt))
		a.progress = v
		if done {
			a.tween = nil
			a.progress = 1
		}
	}

	if !a.running {
		a.mu.Unlock()
		return
	}
	a.remaining -= dt
	if a.remaining > 0 {
		a.mu.Unlock()
		return
	}

	from := a.index
	a.index = (a.index + 1) % a.count
	a.remaining = a.interval.Seconds()
	a.tween = gween.New(0, 1, float32(a.transition.Seconds()), a.easing)
	a.progress = 0
	to := a.index
	listeners := make([]func(from, to int), len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(from, to)
	}
}
