package phase

import (
	"github.com/Carmen-Shannon/anima/common"
	"github.com/tanema/gween/ease"
)

// Curve reshapes local progress. Every Curve maps 0 to 0 and 1 to 1 exactly.
type Curve func(t float64) float64

// FromEase adapts a gween easing function to the unit interval.
// The endpoints are pinned so boundary values never drift with float32 rounding.
//
// Parameters:
//   - fn: a gween easing function
//
// Returns:
//   - Curve: the unit-interval curve
func FromEase(fn ease.TweenFunc) Curve {
	return func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		}
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// Linear returns its input unchanged on [0, 1].
func Linear(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	return t
}

// Standard curves.
var (
	InQuad     = FromEase(ease.InQuad)
	OutQuad    = FromEase(ease.OutQuad)
	InOutQuad  = FromEase(ease.InOutQuad)
	OutCubic   = FromEase(ease.OutCubic)
	InOutCubic = FromEase(ease.InOutCubic)
	InOutQuart = FromEase(ease.InOutQuart)
	OutExpo    = FromEase(ease.OutExpo)
)

// Track animates a single parameter from one value to another within a phase.
type Track struct {
	Key   string
	From  float64
	To    float64
	Curve Curve
}

// At evaluates the track at local progress.
func (t Track) At(local float64) float64 {
	c := t.Curve
	if c == nil {
		c = Linear
	}
	k := c(local)
	switch k {
	case 0:
		return t.From
	case 1:
		return t.To
	}
	return common.Lerp(t.From, t.To, k)
}

// Ramp creates a track moving key from one value to another along curve (Linear if nil).
func Ramp(key string, from, to float64, curve Curve) Track {
	return Track{Key: key, From: from, To: to, Curve: curve}
}

// Hold creates a track that keeps key constant.
func Hold(key string, value float64) Track {
	return Track{Key: key, From: value, To: value, Curve: Linear}
}

// Tracks combines tracks into an InterpolateFunc producing one entry per track.
//
// Parameters:
//   - tracks: the parameter tracks of one phase
//
// Returns:
//   - InterpolateFunc: the phase interpolation
func Tracks(tracks ...Track) InterpolateFunc {
	ts := make([]Track, len(tracks))
	copy(ts, tracks)
	return func(local float64) ParameterSet {
		out := make(ParameterSet, len(ts))
		for _, tr := range ts {
			out[tr.Key] = tr.At(local)
		}
		return out
	}
}
