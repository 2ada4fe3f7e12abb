// Package profiler logs frame rate, simulation step cost and memory statistics at an interval.
package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/anima/engine/clock"
)

// Stats is one reporting window's summary.
type Stats struct {
	FPS float64

	// Steps is the number of timed simulation steps in the window.
	Steps int
	// StepAvg and StepMax are wall time spent inside timed steps.
	StepAvg time.Duration
	StepMax time.Duration

	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate, step timing and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	timeProvider   clock.TimeProvider
	updateInterval time.Duration
	readMemory     bool
	quiet          bool

	frameCount int
	lastTime   time.Time

	stepCount int
	stepTotal time.Duration
	stepMax   time.Duration

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	last Stats
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		timeProvider:   clock.NewMonotonicTimeProvider(),
		updateInterval: time.Second,
		readMemory:     true,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.timeProvider.Now()
	return p
}

// TimeStep runs fn and records its wall time as one simulation step.
//
// Parameters:
//   - fn: the step to time
func (p *Profiler) TimeStep(fn func()) {
	start := p.timeProvider.Now()
	fn()
	p.RecordStep(p.timeProvider.Now().Sub(start))
}

// RecordStep adds an externally measured step duration to the current window.
//
// Parameters:
//   - d: step duration
func (p *Profiler) RecordStep(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stepCount++
	p.stepTotal += d
	p.stepMax = max(p.stepMax, d)
}

// Last returns the most recently reported window.
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.timeProvider.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	s := Stats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		Steps:   p.stepCount,
		StepMax: p.stepMax,
	}
	if p.stepCount > 0 {
		s.StepAvg = p.stepTotal / time.Duration(p.stepCount)
	}
	if p.readMemory {
		p.sampleMemory(&s, elapsed)
	}

	if !p.quiet {
		log.Printf("[Profiler] FPS: %.2f | Step: %d (avg: %s, max: %s) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			s.FPS, s.Steps, s.StepAvg, s.StepMax, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
	}

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.stepCount = 0
	p.stepTotal = 0
	p.stepMax = 0
	return true
}

func (p *Profiler) sampleMemory(s *Stats, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.SysMB = float64(p.memStats.Sys) / 1024 / 1024

	// TotalAlloc only grows, so the delta is the window's churn
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	s.GCCount = gcCount
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
