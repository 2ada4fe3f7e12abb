package stage

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/anima/engine/progress"
)

// CompactThreshold is the scroll offset in pixels past which the header compacts and the
// scroll hint hides.
const CompactThreshold = 50

// Flag is a boolean that turns on once the scroll offset passes a threshold. A toggling flag
// turns off again when scrolled back; a latching flag stays on.
type Flag struct {
	mu *sync.Mutex

	name      string
	threshold float64
	latch     bool

	on        bool
	listeners []func(on bool)
}

// NewFlag creates a flag that is on while scroll > threshold.
//
// Parameters:
//   - name: flag name for logs and observers
//   - threshold: scroll offset in pixels
//   - latch: keep the flag on once it has turned on
//
// Returns:
//   - *Flag: the flag, initially off
func NewFlag(name string, threshold float64, latch bool) *Flag {
	return &Flag{
		mu:        &sync.Mutex{},
		name:      name,
		threshold: threshold,
		latch:     latch,
	}
}

// HeaderCompact is on while the page is scrolled more than 50 px.
func HeaderCompact() *Flag {
	return NewFlag("header-compact", CompactThreshold, false)
}

// ScrollHintHidden turns on the first time the page is scrolled more than 50 px and stays on.
func ScrollHintHidden() *Flag {
	return NewFlag("scroll-hint-hidden", CompactThreshold, true)
}

// RevealFlag is on once an element's anchor point has scrolled into place, e.g. "top 85%"
// for a block that fades in as its top crosses 85 % of the viewport. Scrolling back above the
// anchor turns it off again.
//
// Parameters:
//   - name: flag name
//   - g: element and viewport geometry
//   - anchor: "<element> <viewport>" anchor
//
// Returns:
//   - *Flag: the flag
//   - error: error if the anchor cannot be parsed
func RevealFlag(name string, g progress.Geometry, anchor string) (*Flag, error) {
	region, err := progress.RegionFromTrigger(g, anchor, "+=0")
	if err != nil {
		return nil, fmt.Errorf("reveal %q: %w", name, err)
	}
	return NewFlag(name, region.Start, false), nil
}

// Name returns the flag name.
func (f *Flag) Name() string {
	return f.name
}

// On reports the flag state.
func (f *Flag) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on
}

// OnChange registers an observer called with the new state whenever it flips.
func (f *Flag) OnChange(fn func(on bool)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Update re-evaluates the flag at a scroll offset.
//
// Parameters:
//   - scroll: document scroll offset in pixels
//
// Returns:
//   - bool: true if the state changed
func (f *Flag) Update(scroll float64) bool {
	f.mu.Lock()
	next := scroll > f.threshold
	if f.latch && f.on {
		next = true
	}
	if next == f.on {
		f.mu.Unlock()
		return false
	}
	f.on = next
	listeners := make([]func(bool), len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return true
}
