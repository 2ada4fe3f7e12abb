// Package progress converts scroll offsets into normalised progress values.
// It covers per-region sampling, ScrollTrigger-style anchor parsing, scrub lag
// and the page-level smoothed virtual scroll position.
package progress

import (
	"math"

	"github.com/Carmen-Shannon/anima/common"
)

// ScrollRegion is a pair of document-space scroll offsets bounding a trigger.
// Progress is 0 at Start and 1 at End. Regions are immutable once built.
type ScrollRegion struct {
	Start float64
	End   float64
}

// Length returns the scroll distance covered by the region.
func (r ScrollRegion) Length() float64 {
	return r.End - r.Start
}

// Contains reports whether scroll lies inside the closed region.
func (r ScrollRegion) Contains(scroll float64) bool {
	return scroll >= r.Start && scroll <= r.End
}

// Sample converts a scroll offset into progress through region.
// Offsets before the region return exactly 0 and offsets past it return exactly 1.
// A degenerate region (End <= Start) acts as a step at Start. A NaN offset returns 0.
//
// Parameters:
//   - scroll: current document scroll offset in pixels
//   - region: the trigger boundaries
//
// Returns:
//   - float64: progress in [0, 1]
func Sample(scroll float64, region ScrollRegion) float64 {
	if math.IsNaN(scroll) {
		return 0
	}
	if scroll <= region.Start {
		if region.End <= region.Start && scroll == region.Start {
			return 1
		}
		return 0
	}
	if scroll >= region.End {
		return 1
	}
	return common.Clamp01((scroll - region.Start) / (region.End - region.Start))
}
