package profiler

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/anima/engine/clock"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	tp := clock.NewMockTimeProvider(time.Unix(0, 0))
	p := NewProfiler(WithTimeProvider(tp), WithQuiet(), WithoutMemory())

	for i := 0; i < 59; i++ {
		tp.Advance(time.Second / 60)
		if p.Tick() {
			t.Fatalf("reported after %d frames", i+1)
		}
	}
	tp.Advance(time.Second/60 + time.Millisecond)
	if !p.Tick() {
		t.Fatal("no report after one second")
	}
	if fps := p.Last().FPS; math.Abs(fps-60) > 0.1 {
		t.Errorf("FPS = %v, want 60", fps)
	}
}

func TestStepTiming(t *testing.T) {
	tp := clock.NewMockTimeProvider(time.Unix(0, 0))
	p := NewProfiler(WithTimeProvider(tp), WithInterval(500*time.Millisecond), WithQuiet(), WithoutMemory())

	p.TimeStep(func() { tp.Advance(2 * time.Millisecond) })
	p.TimeStep(func() { tp.Advance(4 * time.Millisecond) })
	p.RecordStep(6 * time.Millisecond)

	tp.Advance(time.Second)
	if !p.Tick() {
		t.Fatal("expected a report")
	}
	s := p.Last()
	if s.Steps != 3 || s.StepAvg != 4*time.Millisecond || s.StepMax != 6*time.Millisecond {
		t.Errorf("Stats = %+v", s)
	}

	tp.Advance(time.Second)
	p.Tick()
	if s := p.Last(); s.Steps != 0 || s.StepMax != 0 {
		t.Errorf("step window not reset: %+v", s)
	}
}

func TestMemorySampling(t *testing.T) {
	tp := clock.NewMockTimeProvider(time.Unix(0, 0))
	p := NewProfiler(WithTimeProvider(tp), WithQuiet())

	tp.Advance(2 * time.Second)
	if !p.Tick() {
		t.Fatal("expected a report")
	}
	if s := p.Last(); s.HeapMB <= 0 || s.SysMB <= 0 {
		t.Errorf("memory not sampled: %+v", s)
	}
}
