package phase

import (
	"fmt"

	css "github.com/mazznoer/csscolorparser"
)

// Overlay colour channel parameter names. OverlayAlpha doubles as the channel alpha.
const (
	OverlayRed   = "overlayRed"
	OverlayGreen = "overlayGreen"
	OverlayBlue  = "overlayBlue"
)

// OverlayColor parses a CSS colour string ("transparent", "#000", "rgba(0,0,0,0.4)").
//
// Parameters:
//   - str: CSS colour
//
// Returns:
//   - [4]float64: red, green, blue and alpha in [0, 1]
//   - error: error if the colour cannot be parsed
func OverlayColor(str string) ([4]float64, error) {
	c, err := css.Parse(str)
	if err != nil {
		return [4]float64{}, fmt.Errorf("overlay colour %q: %w", str, err)
	}
	return [4]float64{c.R, c.G, c.B, c.A}, nil
}

// OverlayTracks builds the four overlay channel tracks blending between two CSS colours.
// A fully transparent endpoint inherits the other endpoint's RGB so the blend only fades alpha.
//
// Parameters:
//   - from: CSS colour at local 0
//   - to: CSS colour at local 1
//   - curve: blend curve (Linear if nil)
//
// Returns:
//   - []Track: red, green, blue and alpha tracks
//   - error: error if either colour cannot be parsed
func OverlayTracks(from, to string, curve Curve) ([]Track, error) {
	a, err := OverlayColor(from)
	if err != nil {
		return nil, err
	}
	b, err := OverlayColor(to)
	if err != nil {
		return nil, err
	}
	if a[3] == 0 {
		a[0], a[1], a[2] = b[0], b[1], b[2]
	}
	if b[3] == 0 {
		b[0], b[1], b[2] = a[0], a[1], a[2]
	}
	return []Track{
		Ramp(OverlayRed, a[0], b[0], curve),
		Ramp(OverlayGreen, a[1], b[1], curve),
		Ramp(OverlayBlue, a[2], b[2], curve),
		Ramp(OverlayAlpha, a[3], b[3], curve),
	}, nil
}
