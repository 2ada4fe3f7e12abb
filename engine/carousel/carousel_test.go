package carousel

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/anima/common"
)

func advance(c Carousel, seconds float64) {
	const step = 1.0 / 60
	for t := 0.0; t < seconds; t += step {
		c.Update(step)
	}
}

func TestAutoAdvanceAfterDelay(t *testing.T) {
	c, err := NewCarousel(3)
	if err != nil {
		t.Fatal(err)
	}
	var events []Event
	c.OnChange(func(e Event) { events = append(events, e) })

	advance(c, 4.9)
	if c.Index() != 0 || len(events) != 0 {
		t.Fatalf("advanced early: index %d, %d events", c.Index(), len(events))
	}

	advance(c, 0.2)
	if c.Index() != 1 || c.State() != Transitioning {
		t.Fatalf("Index() = %d, State() = %v after 5.1s", c.Index(), c.State())
	}
	if events[0] != (Event{From: 0, To: 1, Direction: Forward}) {
		t.Errorf("event = %+v", events[0])
	}

	advance(c, 1.1)
	if c.State() != Idle || c.Offset() != -100 {
		t.Errorf("after transition: State() = %v, Offset() = %v", c.State(), c.Offset())
	}
}

func TestTransitionCancelsAndReschedulesTimer(t *testing.T) {
	c, _ := NewCarousel(4)
	count := 0
	c.OnChange(func(Event) { count++ })

	// manual navigation just before the countdown expires must not double-advance
	advance(c, 4.5)
	c.Next()
	advance(c, 1.0+4.9)
	if count != 1 || c.Index() != 1 {
		t.Fatalf("count = %d, index = %d; want one change", count, c.Index())
	}

	advance(c, 0.2)
	if count != 2 || c.Index() != 2 {
		t.Errorf("count = %d, index = %d; want the rescheduled advance", count, c.Index())
	}
}

func TestHoverPausesAutoAdvance(t *testing.T) {
	c, _ := NewCarousel(2)

	c.HoverEnter()
	if c.State() != PausedOnHover {
		t.Fatalf("State() = %v, want paused", c.State())
	}
	advance(c, 20)
	if c.Index() != 0 {
		t.Fatal("advanced while hovered")
	}

	c.HoverLeave()
	c.HoverLeave()
	advance(c, 4.9)
	if c.Index() != 0 {
		t.Fatal("leave should start a fresh 5s countdown")
	}
	advance(c, 0.2)
	if c.Index() != 1 {
		t.Error("did not advance after hover ended")
	}
}

func TestSwipeThreshold(t *testing.T) {
	c, _ := NewCarousel(3)
	var last Event
	c.OnChange(func(e Event) { last = e })

	if c.Swipe(100, 60) {
		t.Error("a 40px swipe should be ignored")
	}
	if !c.Swipe(200, 100) || c.Index() != 1 {
		t.Errorf("left swipe: index %d", c.Index())
	}
	if !c.Swipe(100, 200) || c.Index() != 0 || last.Direction != Backward {
		t.Errorf("right swipe: index %d, event %+v", c.Index(), last)
	}
}

func TestKeysOnlyWhenInView(t *testing.T) {
	c, _ := NewCarousel(3)

	if c.Key(common.KeyRight) {
		t.Error("keys should be ignored off screen")
	}
	c.SetInView(true)
	if !c.Key(common.KeyLeft) || c.Index() != 2 {
		t.Errorf("left arrow should wrap to the last slide, got %d", c.Index())
	}
	if c.Key(common.KeySpace) {
		t.Error("space should not navigate")
	}
}

func TestGoTo(t *testing.T) {
	c, _ := NewCarousel(5, WithStartIndex(3), WithTransition(500*time.Millisecond, nil), WithAutoAdvance(0))

	if err := c.GoTo(7); !errors.Is(err, errSlideInRange) {
		t.Errorf("GoTo(7) = %v", err)
	}
	calls := 0
	c.OnChange(func(Event) { calls++ })
	if err := c.GoTo(3); err != nil || calls != 0 {
		t.Errorf("GoTo(current) should be a no-op, got err %v and %d events", err, calls)
	}

	_ = c.GoTo(1)
	advance(c, 0.25)
	mid := c.Offset()
	if mid >= -100 || mid <= -300 {
		t.Errorf("mid-transition offset = %v, want between -300 and -100", mid)
	}
	advance(c, 0.3)
	if c.Offset() != -100 {
		t.Errorf("Offset() = %v, want -100", c.Offset())
	}

	advance(c, 30)
	if c.Index() != 1 {
		t.Error("auto-advance should be disabled")
	}
}

func TestNewCarouselRejectsEmpty(t *testing.T) {
	if _, err := NewCarousel(0); err == nil {
		t.Error("expected an error for zero slides")
	}
}

func TestAlternatorCycles(t *testing.T) {
	a := ProportionsCounter()
	var seen []int
	a.OnChange(func(_, to int) { seen = append(seen, to) })

	const step = 1.0 / 60
	for i := 0; i < 60*10; i++ {
		a.Update(step)
	}
	if len(seen) != 0 {
		t.Fatal("stopped alternator should not change")
	}

	a.Start()
	a.Start()
	for t := 0.0; t < 2.5*9+1; t += step {
		a.Update(step)
	}
	if len(seen) != 9 || a.Index() != 0 {
		t.Fatalf("saw %d changes ending on %d, want 9 ending on 0", len(seen), a.Index())
	}

	a.Stop()
	a.Stop()
	if a.Running() {
		t.Error("Running() after Stop")
	}
}

func TestAlternatorProgress(t *testing.T) {
	a := SpeciesCounter()
	a.Start()

	a.Update(3)
	if a.Index() != 1 || a.Progress() != 0 {
		t.Fatalf("Index() = %d, Progress() = %v at the toggle", a.Index(), a.Progress())
	}
	a.Update(0.4)
	if p := a.Progress(); p <= 0 || p >= 1 {
		t.Errorf("mid-fade Progress() = %v", p)
	}
	a.Update(0.5)
	if a.Progress() != 1 {
		t.Errorf("Progress() = %v after the fade", a.Progress())
	}

	if _, err := NewAlternator(1, time.Second, 0); err == nil {
		t.Error("expected an error for a single value")
	}
}
