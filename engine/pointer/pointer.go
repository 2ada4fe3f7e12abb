// Package pointer turns a 2-D screen pointer into a point in the particle field's local space.
//
// Input handlers write the latest pointer into a Latch from the window goroutine. Once per
// frame the simulation takes a Snapshot and hands it to a Projector, which casts a camera
// ray through it, intersects the picking plane and undoes the field's world transform.
// Whenever no meaningful point exists the result is the Sentinel, far outside any repel radius.
package pointer

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// SentinelCoord is the coordinate used on every axis of the inactive pointer.
const SentinelCoord = 9999

// Sentinel is the local-space point reported when the pointer is inactive or unprojectable.
var Sentinel = mgl32.Vec3{SentinelCoord, SentinelCoord, SentinelCoord}

// State is the projected pointer for one simulation step.
type State struct {
	// Active is false when the pointer is outside the canvas or could not be projected.
	Active bool

	// Local is the pointer in field-local space, or Sentinel when inactive.
	Local mgl32.Vec3
}

// Inactive returns the inactive pointer state.
func Inactive() State {
	return State{Local: Sentinel}
}

// At returns an active pointer state at a field-local point. Mostly useful to tests and hosts
// that already know the local point.
func At(local mgl32.Vec3) State {
	return State{Active: true, Local: local}
}

// Sample is one pointer reading in normalised device coordinates.
type Sample struct {
	X, Y   float32
	Active bool
}

// Latch stores the most recent pointer reading. It is safe for concurrent use: input callbacks
// write while the frame loop reads one consistent Snapshot per tick.
type Latch struct {
	mu     *sync.Mutex
	sample Sample
}

// NewLatch creates a latch holding an inactive pointer.
func NewLatch() *Latch {
	return &Latch{
		mu:     &sync.Mutex{},
		sample: Sample{X: SentinelCoord, Y: SentinelCoord},
	}
}

// Move records an active pointer at the given NDC position.
//
// Parameters:
//   - ndcX, ndcY: pointer in NDC, x right and y up
func (l *Latch) Move(ndcX, ndcY float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sample = Sample{X: ndcX, Y: ndcY, Active: true}
}

// MoveScreen records an active pointer from window pixel coordinates. Readings against an
// empty canvas leave the pointer inactive.
//
// Parameters:
//   - px, py: pointer position relative to the canvas's top-left corner, in pixels
//   - width, height: canvas size in pixels
func (l *Latch) MoveScreen(px, py, width, height float32) {
	x, y, ok := ScreenToNDC(px, py, width, height)
	if !ok {
		l.Leave()
		return
	}
	l.Move(x, y)
}

// Leave marks the pointer inactive, as when it exits the canvas.
func (l *Latch) Leave() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sample = Sample{X: SentinelCoord, Y: SentinelCoord}
}

// Snapshot returns the latest reading.
func (l *Latch) Snapshot() Sample {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sample
}

// ScreenToNDC maps canvas pixel coordinates (origin top-left, y down) to NDC (origin centre, y up).
//
// Parameters:
//   - px, py: pointer position relative to the canvas's top-left corner, in pixels
//   - width, height: canvas size in pixels
//
// Returns:
//   - x, y: the NDC position
//   - ok: false if the canvas has no area
func ScreenToNDC(px, py, width, height float32) (x, y float32, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return px/width*2 - 1, -(py/height)*2 + 1, true
}
