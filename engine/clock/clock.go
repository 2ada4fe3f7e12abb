// Package clock drives per-frame simulation with measured delta time.
//
// A FrameClock ticks at a fixed rate on its own goroutine, or on demand through Tick for
// hosts that own their loop. Delta time comes from an injectable TimeProvider. The first tick
// after Start or after becoming visible again reports zero, so a pause never turns into a
// catch-up burst.
package clock

import (
	"sync"
	"time"
)

type frameClockImpl struct {
	mu     *sync.Mutex
	tickMu *sync.Mutex

	timeProvider TimeProvider

	started bool
	visible bool
	manual  bool

	quitChannel     chan struct{}
	quitOnce        *sync.Once
	tickRateChannel chan time.Duration
	tickRate        time.Duration
	maxDelta        float64

	primed  bool
	last    time.Time
	elapsed float64
	frames  uint64

	tickCallback func(deltaTime float64)
}

// FrameClock delivers one callback per frame with the seconds elapsed since the previous one.
type FrameClock interface {
	// Start begins ticking. Calling Start on a running clock does nothing.
	// The first tick after Start reports a delta of zero.
	Start()

	// Stop halts ticking and keeps the accumulated state, so a later Start resumes from it.
	// Calling Stop on a stopped clock does nothing. A tick already in progress is allowed to finish.
	Stop()

	// Running reports whether the clock is started and visible.
	//
	// Returns:
	//   - bool: true if ticks are being delivered
	Running() bool

	// Tick performs one frame synchronously: it measures the delta, clamps it and invokes the
	// tick callback. Ticks never overlap. On a stopped or hidden clock Tick does nothing.
	//
	// Returns:
	//   - float64: the delta in seconds passed to the callback
	//   - bool: false if the clock was not running and no frame was produced
	Tick() (float64, bool)

	// SetVisible gates ticking on visibility of the animated surface. Hiding a running clock
	// suspends it; showing it again resumes with a zero delta.
	//
	// Parameters:
	//   - visible: whether the surface is on screen
	SetVisible(visible bool)

	// Visible reports the last value passed to SetVisible (true initially).
	//
	// Returns:
	//   - bool: the visibility flag
	Visible() bool

	// SetTickRate sets the loop rate in frames per second.
	// If the clock is running, the change takes effect immediately.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each tick.
	//
	// Parameters:
	//   - callback: receives the frame delta in seconds
	SetTickCallback(callback func(deltaTime float64))

	// Elapsed returns the sum of every delta delivered so far.
	//
	// Returns:
	//   - float64: seconds of simulated time
	Elapsed() float64

	// Frames returns the number of ticks delivered so far.
	//
	// Returns:
	//   - uint64: tick count
	Frames() uint64
}

var _ FrameClock = &frameClockImpl{}

// NewFrameClock creates a stopped FrameClock ticking at 60 Hz on the system clock, with
// deltas clamped to 0.25 s.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - FrameClock: the newly created clock
func NewFrameClock(options ...FrameClockBuilderOption) FrameClock {
	c := &frameClockImpl{
		mu:              &sync.Mutex{},
		tickMu:          &sync.Mutex{},
		timeProvider:    NewMonotonicTimeProvider(),
		visible:         true,
		tickRateChannel: make(chan time.Duration, 1),
		tickRate:        time.Second / 60,
		maxDelta:        0.25,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *frameClockImpl) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.reconcile()
}

func (c *frameClockImpl) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.started = false
	c.reconcile()
}

func (c *frameClockImpl) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started && c.visible
}

func (c *frameClockImpl) SetVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visible == visible {
		return
	}
	c.visible = visible
	c.reconcile()
}

func (c *frameClockImpl) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

func (c *frameClockImpl) Tick() (float64, bool) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	c.mu.Lock()
	if !c.started || !c.visible {
		c.mu.Unlock()
		return 0, false
	}
	now := c.timeProvider.Now()
	dt := 0.0
	if c.primed {
		dt = max(now.Sub(c.last).Seconds(), 0)
		if c.maxDelta > 0 && dt > c.maxDelta {
			dt = c.maxDelta
		}
	}
	c.last = now
	c.primed = true
	c.elapsed += dt
	c.frames++
	callback := c.tickCallback
	c.mu.Unlock()

	if callback != nil {
		callback(dt)
	}
	return dt, true
}

func (c *frameClockImpl) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickRate = newRate
	if c.quitChannel == nil {
		return
	}

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case c.tickRateChannel <- newRate:
	default:
		select {
		case <-c.tickRateChannel:
		default:
		}
		c.tickRateChannel <- newRate
	}
}

func (c *frameClockImpl) SetTickCallback(callback func(deltaTime float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickCallback = callback
}

func (c *frameClockImpl) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *frameClockImpl) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// reconcile starts or stops the loop goroutine to match the started and visible flags, and
// unprimes the delta whenever ticking is suspended.
// Caller must hold the mutex.
func (c *frameClockImpl) reconcile() {
	active := c.started && c.visible
	if !active {
		c.primed = false
		if c.quitChannel != nil {
			quit, once := c.quitChannel, c.quitOnce
			once.Do(func() { close(quit) })
			c.quitChannel = nil
		}
		return
	}
	if c.manual || c.quitChannel != nil {
		return
	}
	c.quitChannel = make(chan struct{})
	c.quitOnce = &sync.Once{}
	go c.handleTicks(c.quitChannel, c.tickRate)
}

// handleTicks runs the fixed-rate tick loop until quit is closed, listening for rate changes
// via tickRateChannel.
func (c *frameClockImpl) handleTicks(quit <-chan struct{}, rate time.Duration) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			c.Tick()
		case newRate := <-c.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}
