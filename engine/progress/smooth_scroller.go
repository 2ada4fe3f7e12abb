package progress

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/anima/common"
)

type smoothScrollerImpl struct {
	mu *sync.Mutex

	enabled bool

	position float64
	target   float64
	limit    float64

	timeConstant    float64
	snapDistance    float64
	wheelMultiplier float64
	touchMultiplier float64

	ready    *common.Signal
	onScroll []func(position float64)
}

// SmoothScroller exposes a virtual page scroll position that trails the real one.
// The scroller starts disabled and pinned at the top; it only follows input once Enable
// is called or the readiness signal supplied with WithReadySignal fires.
type SmoothScroller interface {
	// Enabled reports whether the scroller currently follows input.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Enable lets the virtual position follow the target. Idempotent.
	Enable()

	// Disable pins the virtual position and target back to the top. Idempotent.
	Disable()

	// Position returns the smoothed virtual scroll offset.
	//
	// Returns:
	//   - float64: virtual scroll offset in pixels
	Position() float64

	// Target returns the offset the virtual position is converging on.
	//
	// Returns:
	//   - float64: target scroll offset in pixels
	Target() float64

	// Limit returns the maximum scroll offset.
	//
	// Returns:
	//   - float64: scrollable height in pixels
	Limit() float64

	// SetLimit sets the maximum scroll offset and clamps the current target into range.
	//
	// Parameters:
	//   - limit: scrollable height in pixels (document height minus viewport height)
	SetLimit(limit float64)

	// ScrollTo sets the target offset. Ignored while disabled.
	//
	// Parameters:
	//   - y: target offset in pixels, clamped to [0, Limit]
	//   - immediate: if true the virtual position jumps to the target without easing
	ScrollTo(y float64, immediate bool)

	// Wheel applies a mouse-wheel delta scaled by the wheel multiplier. Ignored while disabled.
	//
	// Parameters:
	//   - delta: wheel delta in pixels (positive scrolls down)
	Wheel(delta float64)

	// Touch applies a touch drag delta scaled by the touch multiplier. Ignored while disabled.
	//
	// Parameters:
	//   - delta: drag delta in pixels (positive scrolls down)
	Touch(delta float64)

	// IsScrolling reports whether the virtual position has not yet reached the target.
	//
	// Returns:
	//   - bool: true while easing is in progress
	IsScrolling() bool

	// Update advances the exponential-decay filter by dt seconds and notifies scroll listeners
	// when the virtual position changed.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous update
	//
	// Returns:
	//   - float64: the new virtual scroll offset
	Update(dt float64) float64

	// OnScroll registers a listener that receives the virtual position after every change.
	//
	// Parameters:
	//   - fn: the listener
	OnScroll(fn func(position float64))
}

var _ SmoothScroller = &smoothScrollerImpl{}

// NewSmoothScroller creates a disabled SmoothScroller pinned at the top of the page.
//
// Parameters:
//   - options: functional options to configure the scroller
//
// Returns:
//   - SmoothScroller: the newly created scroller
func NewSmoothScroller(options ...SmoothScrollerBuilderOption) SmoothScroller {
	s := &smoothScrollerImpl{
		mu:              &sync.Mutex{},
		limit:           math.MaxFloat64,
		timeConstant:    0.12,
		snapDistance:    0.01,
		wheelMultiplier: 1,
		touchMultiplier: 2,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.ready != nil {
		s.ready.Then(s.Enable)
	}
	return s
}

func (s *smoothScrollerImpl) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *smoothScrollerImpl) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
}

func (s *smoothScrollerImpl) Disable() {
	s.mu.Lock()
	s.enabled = false
	changed := s.position != 0
	s.position = 0
	s.target = 0
	s.mu.Unlock()

	if changed {
		s.notify(0)
	}
}

func (s *smoothScrollerImpl) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *smoothScrollerImpl) Target() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

func (s *smoothScrollerImpl) Limit() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limit
}

func (s *smoothScrollerImpl) SetLimit(limit float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = max(limit, 0)
	s.target = common.Clamp(s.target, 0, s.limit)
}

func (s *smoothScrollerImpl) ScrollTo(y float64, immediate bool) {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return
	}
	s.target = common.Clamp(y, 0, s.limit)
	jumped := immediate && s.position != s.target
	if immediate {
		s.position = s.target
	}
	pos := s.position
	s.mu.Unlock()

	if jumped {
		s.notify(pos)
	}
}

func (s *smoothScrollerImpl) Wheel(delta float64) {
	s.scrollBy(delta * s.wheelMultiplier)
}

func (s *smoothScrollerImpl) Touch(delta float64) {
	s.scrollBy(delta * s.touchMultiplier)
}

func (s *smoothScrollerImpl) IsScrolling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position != s.target
}

func (s *smoothScrollerImpl) Update(dt float64) float64 {
	s.mu.Lock()
	if !s.enabled {
		s.position = 0
		s.target = 0
		s.mu.Unlock()
		return 0
	}

	prev := s.position
	if dt > 0 && s.position != s.target {
		s.position += (s.target - s.position) * (1 - math.Exp(-dt/s.timeConstant))
	}
	if math.Abs(s.target-s.position) < s.snapDistance {
		s.position = s.target
	}
	pos := s.position
	s.mu.Unlock()

	if pos != prev {
		s.notify(pos)
	}
	return pos
}

func (s *smoothScrollerImpl) OnScroll(fn func(position float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onScroll = append(s.onScroll, fn)
}

// scrollBy shifts the target by delta when enabled.
func (s *smoothScrollerImpl) scrollBy(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.target = common.Clamp(s.target+delta, 0, s.limit)
}

// notify calls scroll listeners outside the lock so they may query the scroller.
func (s *smoothScrollerImpl) notify(pos float64) {
	s.mu.Lock()
	listeners := make([]func(float64), len(s.onScroll))
	copy(listeners, s.onScroll)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(pos)
	}
}
