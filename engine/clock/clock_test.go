package clock

import (
	"math"
	"sync/atomic"
	"testing"
	"time"
)

func newManualClock(start time.Time) (FrameClock, *MockTimeProvider) {
	mock := NewMockTimeProvider(start)
	return NewFrameClock(WithTimeProvider(mock), WithManualTicks()), mock
}

func TestFirstTickAfterStartIsZero(t *testing.T) {
	c, mock := newManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	if _, ok := c.Tick(); ok {
		t.Fatal("a stopped clock should not tick")
	}

	c.Start()
	if dt, ok := c.Tick(); !ok || dt != 0 {
		t.Fatalf("first Tick() = (%v, %v), want (0, true)", dt, ok)
	}

	mock.Advance(16 * time.Millisecond)
	if dt, _ := c.Tick(); math.Abs(dt-0.016) > 1e-9 {
		t.Errorf("Tick() = %v, want 0.016", dt)
	}
	if c.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", c.Frames())
	}
}

func TestDeltaIsClamped(t *testing.T) {
	c, mock := newManualClock(time.Now())
	c.Start()
	c.Tick()

	mock.Advance(3 * time.Second)
	if dt, _ := c.Tick(); dt != 0.25 {
		t.Errorf("Tick() = %v, want clamp at 0.25", dt)
	}

	unclamped := NewFrameClock(WithTimeProvider(mock), WithManualTicks(), WithMaxDelta(0))
	unclamped.Start()
	unclamped.Tick()
	mock.Advance(3 * time.Second)
	if dt, _ := unclamped.Tick(); dt != 3 {
		t.Errorf("Tick() = %v, want 3 without a clamp", dt)
	}
}

func TestStopResumeDoesNotBurst(t *testing.T) {
	c, mock := newManualClock(time.Now())
	var calls atomic.Int32
	c.SetTickCallback(func(float64) { calls.Add(1) })

	c.Start()
	c.Start()
	c.Tick()
	mock.Advance(100 * time.Millisecond)
	c.Tick()

	c.Stop()
	c.Stop()
	mock.Advance(10 * time.Second)
	if _, ok := c.Tick(); ok {
		t.Error("Tick() on a stopped clock should do nothing")
	}

	c.Start()
	if dt, _ := c.Tick(); dt != 0 {
		t.Errorf("first Tick() after resume = %v, want 0", dt)
	}
	if calls.Load() != 3 {
		t.Errorf("callback ran %d times, want 3", calls.Load())
	}
	if math.Abs(c.Elapsed()-0.1) > 1e-9 {
		t.Errorf("Elapsed() = %v, want 0.1", c.Elapsed())
	}
}

func TestVisibilityGatesTicks(t *testing.T) {
	c, mock := newManualClock(time.Now())
	c.Start()
	c.Tick()

	c.SetVisible(false)
	if c.Running() || c.Visible() {
		t.Fatal("hidden clock should not be running")
	}
	mock.Advance(time.Second)
	if _, ok := c.Tick(); ok {
		t.Error("hidden clock should not tick")
	}

	c.SetVisible(true)
	if dt, ok := c.Tick(); !ok || dt != 0 {
		t.Errorf("Tick() after becoming visible = (%v, %v), want (0, true)", dt, ok)
	}
}

func TestLoopDeliversTicks(t *testing.T) {
	ticks := make(chan float64, 64)
	c := NewFrameClock(WithTickRate(200), WithTickCallback(func(dt float64) {
		select {
		case ticks <- dt:
		default:
		}
	}))

	c.Start()
	deadline := time.After(2 * time.Second)
	for i := 0; i < 3; i++ {
		select {
		case dt := <-ticks:
			if dt < 0 || dt > 0.25 {
				t.Fatalf("tick %d delta %v out of range", i, dt)
			}
		case <-deadline:
			t.Fatal("loop did not tick")
		}
	}
	c.SetTickRate(100)
	c.Stop()

	time.Sleep(20 * time.Millisecond)
	settled := c.Frames()
	time.Sleep(50 * time.Millisecond)
	if c.Frames() != settled {
		t.Errorf("clock kept ticking after Stop: %d -> %d", settled, c.Frames())
	}
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	mock.Advance(time.Minute)
	if got := mock.Now().Sub(start); got != time.Minute {
		t.Errorf("Advance: got %v, want 1m", got)
	}
	mock.SetTime(start)
	if !mock.Now().Equal(start) {
		t.Errorf("SetTime: got %v", mock.Now())
	}
}
