package phase

import (
	"errors"
	"fmt"
)

// Overlay colours used by the narrative presets.
const (
	overlayClear  = "transparent"
	overlayDim    = "rgba(0,0,0,0.4)"
	overlayDeeper = "rgba(0,0,0,0.6)"
	overlayDark   = "rgba(0,0,0,0.9)"
	overlayBlack  = "rgba(0,0,0,1)"
)

var (
	errBadViewport = errors.New("viewport and tile sizes must be positive")
	errNoWords     = errors.New("footer phrase needs at least one word")
)

// tableBuilder accumulates phases and the first error raised while building their tracks.
type tableBuilder struct {
	phases []Phase
	err    error
}

func (b *tableBuilder) add(name string, start, end float64, overlayFrom, overlayTo string, tracks ...Track) {
	if b.err != nil {
		return
	}
	ov, err := OverlayTracks(overlayFrom, overlayTo, nil)
	if err != nil {
		b.err = err
		return
	}
	b.phases = append(b.phases, Phase{
		Name:        name,
		Start:       start,
		End:         end,
		Interpolate: Tracks(append(tracks, ov...)...),
	})
}

func (b *tableBuilder) build(name string) (*Timeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewTimeline(name, b.phases...)
}

// FullscreenScale returns the scale that makes a tile of size (w, h) overfill a viewport of size
// (vw, vh) by 15%.
//
// Parameters:
//   - vw, vh: viewport width and height
//   - w, h: untransformed tile width and height
//
// Returns:
//   - float64: the fullscreen scale
//   - error: error if any dimension is not positive
func FullscreenScale(vw, vh, w, h float64) (float64, error) {
	if vw <= 0 || vh <= 0 || w <= 0 || h <= 0 {
		return 0, errBadViewport
	}
	return max(vw/w, vh/h) * 1.15, nil
}

// MosaicZoom builds the mosaic reveal: the centre tile zooms to fill the screen while its
// neighbours shrink away, the caption fades in over a dimming overlay, holds, then fades out.
//
// Parameters:
//   - fullScale: the centre tile's fullscreen scale (see FullscreenScale)
//
// Returns:
//   - *Timeline: the validated timeline
//   - error: error if the table is invalid
func MosaicZoom(fullScale float64) (*Timeline, error) {
	textScale := fullScale * 1.05
	holdScale := fullScale * 1.08
	fadeScale := holdScale * 1.07

	b := &tableBuilder{}
	b.add("zoom", 0, 0.3, overlayClear, overlayClear,
		Ramp(Scale, 1, fullScale, nil),
		Ramp(NeighborOpacity, 1, 0, nil),
		Ramp(NeighborScale, 1, 0.8, nil),
		Ramp(Gap, 10, 0, nil),
		Hold(TextOpacity, 0),
		Hold(TextOffsetPx, 30),
	)
	b.add("caption", 0.3, 0.55, overlayClear, overlayDim,
		Ramp(Scale, fullScale, textScale, nil),
		Hold(NeighborOpacity, 0),
		Hold(NeighborScale, 0.8),
		Hold(Gap, 0),
		Ramp(TextOpacity, 0, 1, nil),
		Ramp(TextOffsetPx, 30, 0, nil),
	)
	b.add("hold", 0.55, 0.75, overlayDim, overlayDim,
		Ramp(Scale, textScale, holdScale, nil),
		Hold(NeighborOpacity, 0),
		Hold(NeighborScale, 0.8),
		Hold(Gap, 0),
		Hold(TextOpacity, 1),
		Hold(TextOffsetPx, 0),
	)
	b.add("fade", 0.75, 1, overlayDim, overlayDark,
		Ramp(Scale, holdScale, fadeScale, nil),
		Hold(NeighborOpacity, 0),
		Hold(NeighborScale, 0.8),
		Hold(Gap, 0),
		Ramp(TextOpacity, 1, 0, nil),
		Ramp(TextOffsetPx, 0, -30, nil),
	)
	return b.build("mosaic")
}

// storyPhases adds the shared enter/caption/hold/fade phases of a story slide.
func storyPhases(b *tableBuilder, bounds [6]float64) {
	b.add("enter", bounds[0], bounds[1], overlayClear, overlayClear,
		Hold(Scale, 1),
		Hold(Opacity, 1),
		Hold(WrapperOpacity, 1),
		Hold(TextOpacity, 0),
		Hold(TextOffsetPx, 30),
	)
	b.add("caption", bounds[1], bounds[2], overlayClear, overlayDim,
		Ramp(Scale, 1, 1.08, nil),
		Hold(Opacity, 1),
		Hold(WrapperOpacity, 1),
		Ramp(TextOpacity, 0, 1, nil),
		Ramp(TextOffsetPx, 30, 0, nil),
	)
	b.add("hold", bounds[2], bounds[3], overlayDim, overlayDim,
		Ramp(Scale, 1.08, 1.12, nil),
		Hold(Opacity, 1),
		Hold(WrapperOpacity, 1),
		Hold(TextOpacity, 1),
		Hold(TextOffsetPx, 0),
	)
	b.add("fade", bounds[3], bounds[4], overlayDim, overlayDeeper,
		Ramp(Scale, 1.12, 1.18, nil),
		Hold(Opacity, 1),
		Hold(WrapperOpacity, 1),
		Ramp(TextOpacity, 1, 0, nil),
		Ramp(TextOffsetPx, 0, -30, nil),
	)
}

// StorySlide builds a full-bleed story slide: caption in, hold, caption out, then the image keeps
// zooming and darkens while the next slide covers it.
//
// Returns:
//   - *Timeline: the validated timeline
//   - error: error if the table is invalid
func StorySlide() (*Timeline, error) {
	b := &tableBuilder{}
	storyPhases(b, [6]float64{0, 0.25, 0.4, 0.55, 0.7, 1})
	b.add("darken", 0.7, 1, overlayDeeper, overlayBlack,
		Ramp(Scale, 1.18, 1.30, nil),
		Hold(Opacity, 1),
		Hold(WrapperOpacity, 1),
		Hold(TextOpacity, 0),
		Hold(TextOffsetPx, -30),
	)
	return b.build("story")
}

// FinalStorySlide builds the last story slide, which fades its image out to reveal the next section.
//
// Returns:
//   - *Timeline: the validated timeline
//   - error: error if the table is invalid
func FinalStorySlide() (*Timeline, error) {
	b := &tableBuilder{}
	storyPhases(b, [6]float64{0, 0.2, 0.35, 0.5, 0.65, 1})
	b.add("exit", 0.65, 1, overlayDeeper, overlayBlack,
		Ramp(Scale, 1.18, 1.30, nil),
		Ramp(Opacity, 1, 0, nil),
		Ramp(WrapperOpacity, 1, 0, nil),
		Hold(TextOpacity, 0),
		Hold(TextOffsetPx, -30),
	)
	return b.build("story-final")
}

// HeroParallax builds the hero exit: the hero drifts up at a third of the scroll speed while its
// headline slides out and fades at twice the rate, finishing halfway through the region.
//
// Parameters:
//   - viewportHeight: viewport height in pixels
//
// Returns:
//   - *Timeline: the validated timeline
//   - error: error if the table is invalid
func HeroParallax(viewportHeight float64) (*Timeline, error) {
	travel := -viewportHeight * 0.33
	mid := travel * 0.5

	b := &tableBuilder{}
	b.add("headline-exit", 0, 0.5, overlayClear, overlayClear,
		Ramp(OffsetY, 0, mid, nil),
		Ramp(TextOffsetPercent, 0, -100, nil),
		Ramp(TextOpacity, 1, 0, nil),
	)
	b.add("drift", 0.5, 1, overlayClear, overlayClear,
		Ramp(OffsetY, mid, travel, nil),
		Hold(TextOffsetPercent, -100),
		Hold(TextOpacity, 0),
	)
	return b.build("hero")
}

// CarouselExit shrinks, lowers and fades the carousel as the footer scrolls in.
//
// Returns:
//   - *Timeline: the validated timeline
//   - error: error if the table is invalid
func CarouselExit() (*Timeline, error) {
	b := &tableBuilder{}
	b.add("exit", 0, 1, overlayClear, overlayClear,
		Ramp(Scale, 1, 0.85, nil),
		Ramp(Opacity, 1, 0, nil),
		Ramp(OffsetY, 0, 30, nil),
	)
	return b.build("carousel-exit")
}

// CallToAction slides a headline horizontally from the right edge until it has fully left on the
// left, with a 10vw margin. OffsetX is expressed in viewport-width units.
//
// Parameters:
//   - textWidthVw: headline width in viewport-width units
//
// Returns:
//   - *Timeline: the validated timeline
//   - error: error if the table is invalid
func CallToAction(textWidthVw float64) (*Timeline, error) {
	travel := 100 + max(textWidthVw, 0) + 10

	b := &tableBuilder{}
	b.add("travel", 0, 1, overlayClear, overlayClear,
		Ramp(OffsetX, 100, 100-travel, nil),
		Hold(Opacity, 1),
	)
	return b.build("cta")
}

// footerStep is a tween placed on the footer's shared scrubbed timeline, in timeline seconds.
type footerStep struct {
	name     string
	at, span float64
	from, to []Track
}

// FooterReveal builds one timeline per footer element, all driven by the footer's trigger.
// Each phrase word turns up into place 0.1 s after the previous one (opacity, RotateX 90 to 0,
// OffsetY 20 px to 0 over 0.3 s), the brand rises at 0.3 s, the socials slide in from 30 px
// at 0.5 s and the copyright fades in at 0.7 s. Times are normalised by the length of the whole
// sequence, so every element shares one progress value.
//
// Timelines are named "footer-word-<i>", "footer-brand", "footer-socials" and "footer-copyright".
//
// Parameters:
//   - words: number of words in the footer phrase
//
// Returns:
//   - []*Timeline: word timelines in order, then brand, socials and copyright
//   - error: error if words < 1 or a table is invalid
func FooterReveal(words int) ([]*Timeline, error) {
	if words < 1 {
		return nil, errNoWords
	}

	steps := make([]footerStep, 0, words+3)
	for i := range words {
		steps = append(steps, footerStep{
			name: fmt.Sprintf("footer-word-%d", i),
			at:   float64(i) * 0.1,
			span: 0.3,
			from: []Track{Hold(Opacity, 0), Hold(RotateX, 90), Hold(OffsetY, 20)},
			to:   []Track{Hold(Opacity, 1), Hold(RotateX, 0), Hold(OffsetY, 0)},
		})
	}
	steps = append(steps,
		footerStep{
			name: "footer-brand", at: 0.3, span: 0.4,
			from: []Track{Hold(Opacity, 0), Hold(OffsetY, 20)},
			to:   []Track{Hold(Opacity, 1), Hold(OffsetY, 0)},
		},
		footerStep{
			name: "footer-socials", at: 0.5, span: 0.4,
			from: []Track{Hold(Opacity, 0), Hold(OffsetX, 30)},
			to:   []Track{Hold(Opacity, 1), Hold(OffsetX, 0)},
		},
		footerStep{
			name: "footer-copyright", at: 0.7, span: 0.3,
			from: []Track{Hold(Opacity, 0)},
			to:   []Track{Hold(Opacity, 1)},
		},
	)

	var total float64
	for _, st := range steps {
		total = max(total, st.at+st.span)
	}

	out := make([]*Timeline, 0, len(steps))
	for _, st := range steps {
		tl, err := footerTimeline(st, st.at/total, (st.at+st.span)/total)
		if err != nil {
			return nil, err
		}
		out = append(out, tl)
	}
	return out, nil
}

// footerTimeline holds an element hidden until start, eases it in until end, then holds it.
func footerTimeline(st footerStep, start, end float64) (*Timeline, error) {
	ramps := make([]Track, len(st.from))
	for i := range st.from {
		ramps[i] = Ramp(st.from[i].Key, st.from[i].From, st.to[i].To, OutCubic)
	}

	b := &tableBuilder{}
	if start > 0 {
		b.add("hidden", 0, start, overlayClear, overlayClear, st.from...)
	}
	b.add("reveal", start, end, overlayClear, overlayClear, ramps...)
	if end < 1 {
		b.add("shown", end, 1, overlayClear, overlayClear, st.to...)
	}
	return b.build(st.name)
}
