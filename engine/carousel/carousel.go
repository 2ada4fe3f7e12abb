// Package carousel implements the auto-advancing slide carousel and the alternating stat counters.
//
// Both are driven by Update(dt) from the frame clock instead of wall-clock timers, so a
// countdown can never fire twice and pausing the clock pauses them too.
package carousel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SwipeThreshold is the horizontal travel in pixels a swipe needs to change slides.
const SwipeThreshold = 50

var (
	errNoSlides     = errors.New("carousel needs at least one slide")
	errSlideInRange = errors.New("slide index out of range")
)

// State is the carousel's coarse state.
type State int

const (
	// Idle shows a settled slide with the auto-advance countdown running.
	Idle State = iota

	// Transitioning animates the track toward a new slide; the countdown is cancelled.
	Transitioning

	// PausedOnHover shows a settled slide with auto-advance suspended by the pointer.
	PausedOnHover
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Transitioning:
		return "transitioning"
	case PausedOnHover:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Direction tells observers which way the track moves.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Event describes a slide change at the moment its transition starts.
type Event struct {
	From      int
	To        int
	Direction Direction
}

type carouselImpl struct {
	mu *sync.Mutex

	count int
	index int

	offset float32
	tween  *gween.Tween

	transition time.Duration
	easing     ease.TweenFunc

	autoAdvance time.Duration
	remaining   float64
	armed       bool

	hovered bool
	inView  bool

	listeners []func(Event)
}

// Carousel is a slide track that advances on a timer, on navigation input and on swipes.
// Starting a transition cancels the pending auto-advance and finishing it schedules a fresh one,
// so at most one countdown exists at any time.
type Carousel interface {
	// Len returns the number of slides.
	//
	// Returns:
	//   - int: slide count
	Len() int

	// Index returns the current (or destination, while transitioning) slide.
	//
	// Returns:
	//   - int: slide index
	Index() int

	// State returns the coarse carousel state.
	//
	// Returns:
	//   - State: idle, transitioning or paused on hover
	State() State

	// Offset returns the track's horizontal offset as a percentage of the slide width.
	// A settled track on slide i sits at -100*i.
	//
	// Returns:
	//   - float32: offset in percent
	Offset() float32

	// Next moves to the following slide, wrapping to the first.
	Next()

	// Prev moves to the preceding slide, wrapping to the last.
	Prev()

	// GoTo moves to slide i. Moving to the current slide does nothing.
	//
	// Parameters:
	//   - i: destination slide
	//
	// Returns:
	//   - error: error if i is out of range
	GoTo(i int) error

	// Swipe interprets a horizontal swipe. Travelling left by more than SwipeThreshold pixels
	// advances, travelling right by more than SwipeThreshold goes back.
	//
	// Parameters:
	//   - startX: touch start x in pixels
	//   - endX: touch end x in pixels
	//
	// Returns:
	//   - bool: true if the swipe changed slides
	Swipe(startX, endX float64) bool

	// Key handles left/right arrow keys while the carousel is in view.
	//
	// Parameters:
	//   - key: key code (common.KeyLeft or common.KeyRight)
	//
	// Returns:
	//   - bool: true if the key changed slides
	Key(key int) bool

	// SetInView records whether the carousel is on screen; keys are ignored otherwise.
	//
	// Parameters:
	//   - inView: whether any part of the carousel is visible
	SetInView(inView bool)

	// HoverEnter suspends auto-advance.
	HoverEnter()

	// HoverLeave resumes auto-advance with a fresh countdown.
	HoverLeave()

	// Update advances the transition and the auto-advance countdown.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float64)

	// OnChange registers an observer notified when a transition starts.
	//
	// Parameters:
	//   - fn: the observer
	OnChange(fn func(Event))
}

var _ Carousel = &carouselImpl{}

// NewCarousel creates a carousel on slide 0 with auto-advance armed: 5 s per slide and 1 s
// transitions on an in-out quartic curve.
//
// Parameters:
//   - slides: number of slides
//   - options: functional options to configure the carousel
//
// Returns:
//   - Carousel: the newly created carousel
//   - error: error if slides < 1
func NewCarousel(slides int, options ...CarouselBuilderOption) (Carousel, error) {
	if slides < 1 {
		return nil, errNoSlides
	}
	c := &carouselImpl{
		mu:          &sync.Mutex{},
		count:       slides,
		transition:  1 * time.Second,
		easing:      ease.InOutQuart,
		autoAdvance: 5 * time.Second,
	}
	for _, option := range options {
		option(c)
	}
	c.index = common.Clamp(c.index, 0, c.count-1)
	c.offset = slideOffset(c.index)
	c.arm()
	return c, nil
}

func (c *carouselImpl) Len() int {
	return c.count
}

func (c *carouselImpl) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *carouselImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.tween != nil:
		return Transitioning
	case c.hovered:
		return PausedOnHover
	default:
		return Idle
	}
}

func (c *carouselImpl) Offset() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

func (c *carouselImpl) Next() {
	c.mu.Lock()
	ev, ok := c.goTo((c.index+1)%c.count, Forward)
	c.mu.Unlock()
	c.emit(ev, ok)
}

func (c *carouselImpl) Prev() {
	c.mu.Lock()
	ev, ok := c.goTo((c.index-1+c.count)%c.count, Backward)
	c.mu.Unlock()
	c.emit(ev, ok)
}

func (c *carouselImpl) GoTo(i int) error {
	if i < 0 || i >= c.count {
		return fmt.Errorf("%w: %d of %d", errSlideInRange, i, c.count)
	}
	c.mu.Lock()
	dir := Forward
	if i < c.index {
		dir = Backward
	}
	ev, ok := c.goTo(i, dir)
	c.mu.Unlock()
	c.emit(ev, ok)
	return nil
}

func (c *carouselImpl) Swipe(startX, endX float64) bool {
	diff := startX - endX
	switch {
	case diff > SwipeThreshold:
		c.Next()
		return true
	case diff < -SwipeThreshold:
		c.Prev()
		return true
	}
	return false
}

func (c *carouselImpl) Key(key int) bool {
	c.mu.Lock()
	inView := c.inView
	c.mu.Unlock()
	if !inView {
		return false
	}
	switch key {
	case common.KeyLeft:
		c.Prev()
		return true
	case common.KeyRight:
		c.Next()
		return true
	}
	return false
}

func (c *carouselImpl) SetInView(inView bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inView = inView
}

func (c *carouselImpl) HoverEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = true
	c.armed = false
}

func (c *carouselImpl) HoverLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hovered {
		return
	}
	c.hovered = false
	if c.tween == nil {
		c.arm()
	}
}

func (c *carouselImpl) Update(dt float64) {
	if dt <= 0 {
		return
	}

	c.mu.Lock()
	if c.tween != nil {
		v, done := c.tween.Update(float32(dt))
		c.offset = v
		if done {
			c.tween = nil
			c.offset = slideOffset(c.index)
			if !c.hovered {
				c.arm()
			}
		}
		c.mu.Unlock()
		return
	}

	if !c.armed || c.hovered {
		c.mu.Unlock()
		return
	}
	c.remaining -= dt
	if c.remaining > 0 {
		c.mu.Unlock()
		return
	}
	ev, ok := c.goTo((c.index+1)%c.count, Forward)
	c.mu.Unlock()
	c.emit(ev, ok)
}

func (c *carouselImpl) OnChange(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// goTo starts a transition from the current offset to slide i and cancels the countdown.
// Moving to the slide already shown or already targeted does nothing.
// Caller must hold the mutex.
func (c *carouselImpl) goTo(i int, dir Direction) (Event, bool) {
	if i == c.index {
		return Event{}, false
	}
	ev := Event{From: c.index, To: i, Direction: dir}
	c.index = i
	c.armed = false
	c.tween = gween.New(c.offset, slideOffset(i), float32(c.transition.Seconds()), c.easing)
	return ev, true
}

// arm schedules a fresh auto-advance countdown.
// Caller must hold the mutex.
func (c *carouselImpl) arm() {
	if c.autoAdvance <= 0 || c.count < 2 {
		c.armed = false
		return
	}
	c.armed = true
	c.remaining = c.autoAdvance.Seconds()
}

func (c *carouselImpl) emit(ev Event, ok bool) {
	if !ok {
		return
	}
	c.mu.Lock()
	listeners := make([]func(Event), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

func slideOffset(i int) float32 {
	return -100 * float32(i)
}
