// Package phase maps scalar progress onto piecewise visual parameter sets.
//
// A subject's animation is a Timeline: an ordered table of Phases covering [0, 1]. Each
// phase owns a closed-form interpolation of its local progress. Tables are validated when
// they are built, so gaps, overlaps and value jumps at phase boundaries surface as
// configuration errors instead of visible popping.
package phase

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/anima/common"
)

// Well-known parameter names consumed by the styling layer.
const (
	Scale             = "scale"
	Opacity           = "opacity"
	WrapperOpacity    = "wrapperOpacity"
	OverlayAlpha      = "overlayAlpha"
	TextOpacity       = "textOpacity"
	TextOffsetPx      = "textOffsetPx"
	TextOffsetPercent = "textOffsetPercent"
	OffsetX           = "offsetX"
	OffsetY           = "offsetY"
	Gap               = "gap"
	NeighborOpacity   = "neighborOpacity"
	NeighborScale     = "neighborScale"
	Brightness        = "brightness"
	RotateX           = "rotateX"
)

// ParameterSet maps a parameter name to its value for one progress sample.
type ParameterSet map[string]float64

// Keys returns the parameter names in sorted order.
func (p ParameterSet) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Get returns the named value, or fallback when it is absent.
func (p ParameterSet) Get(name string, fallback float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return fallback
}

// InterpolateFunc computes a ParameterSet from local progress in [0, 1].
// It must be pure: the same input always yields the same output.
type InterpolateFunc func(local float64) ParameterSet

// Phase is one sub-range of progress with its own interpolation.
// The range is half-open [Start, End) except for the final phase of a table, which is closed at 1.
type Phase struct {
	Name        string
	Start       float64
	End         float64
	Interpolate InterpolateFunc
}

// Local converts global progress into this phase's local progress, clamped to [0, 1].
//
// Parameters:
//   - progress: global progress
//
// Returns:
//   - float64: local progress in [0, 1]
func (p Phase) Local(progress float64) float64 {
	span := p.End - p.Start
	if span <= 0 {
		return 1
	}
	return common.Clamp01((progress - p.Start) / span)
}

// Resolve finds the phase containing progress and evaluates it.
// Progress outside [0, 1] is clamped first and NaN is treated as 0; progress == 1 resolves to
// the last phase at local 1.
// A linear scan is used since phase tables are short.
//
// Parameters:
//   - progress: global progress
//   - phases: ordered, contiguous phase table
//
// Returns:
//   - ParameterSet: the interpolated parameters, or nil if phases is empty
func Resolve(progress float64, phases []Phase) ParameterSet {
	idx := Locate(progress, phases)
	if idx < 0 {
		return nil
	}
	p := phases[idx]
	return p.Interpolate(p.Local(common.Clamp01(progress)))
}

// Locate returns the index of the phase containing progress, or -1 for an empty table.
//
// Parameters:
//   - progress: global progress (clamped to [0, 1])
//   - phases: ordered, contiguous phase table
//
// Returns:
//   - int: index into phases
func Locate(progress float64, phases []Phase) int {
	if len(phases) == 0 {
		return -1
	}
	progress = common.Clamp01(progress) // NaN lands on the first phase
	for i, p := range phases {
		if progress >= p.Start && progress < p.End {
			return i
		}
	}
	if progress < phases[0].Start {
		return 0
	}
	return len(phases) - 1
}
