package phase

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func linearTable() []Phase {
	return []Phase{
		{Name: "a", Start: 0, End: 0.5, Interpolate: Tracks(Ramp(Scale, 1, 2, nil))},
		{Name: "b", Start: 0.5, End: 1, Interpolate: Tracks(Ramp(Scale, 2, 3, OutQuad))},
	}
}

func TestResolveLocatesPhase(t *testing.T) {
	phases := linearTable()

	if got := Resolve(0.25, phases)[Scale]; math.Abs(got-1.5) > 1e-12 {
		t.Errorf("Resolve(0.25) scale = %v, want 1.5", got)
	}
	if got := Resolve(0.5, phases)[Scale]; got != 2 {
		t.Errorf("Resolve(0.5) scale = %v, want 2 (start of second phase)", got)
	}
}

func TestResolveEndpoints(t *testing.T) {
	phases := linearTable()

	if got := Resolve(1, phases)[Scale]; got != 3 {
		t.Errorf("Resolve(1) scale = %v, want 3", got)
	}
	if got := Resolve(1.7, phases)[Scale]; got != 3 {
		t.Errorf("Resolve(1.7) scale = %v, want 3", got)
	}
	if got := Resolve(-0.2, phases)[Scale]; got != 1 {
		t.Errorf("Resolve(-0.2) scale = %v, want 1", got)
	}
	if Resolve(0.5, nil) != nil {
		t.Error("Resolve on an empty table should return nil")
	}
}

func TestResolveNaNProgressStartsAtZero(t *testing.T) {
	if got := Locate(math.NaN(), linearTable()); got != 0 {
		t.Errorf("Locate(NaN) = %d, want 0", got)
	}

	story, err := StorySlide()
	if err != nil {
		t.Fatal(err)
	}
	got, want := story.Resolve(math.NaN()), story.Resolve(0)
	for k, v := range got {
		if math.IsNaN(v) || v != want[k] {
			t.Errorf("Resolve(NaN)[%s] = %v, want %v", k, v, want[k])
		}
	}
	if a := story.Active(math.NaN()); a != story.Phases()[0].Name {
		t.Errorf("Active(NaN) = %q", a)
	}
}

func TestCurvesPinEndpoints(t *testing.T) {
	curves := map[string]Curve{
		"Linear":     Linear,
		"InQuad":     InQuad,
		"OutQuad":    OutQuad,
		"InOutQuad":  InOutQuad,
		"OutCubic":   OutCubic,
		"InOutCubic": InOutCubic,
		"InOutQuart": InOutQuart,
		"OutExpo":    OutExpo,
	}
	for name, c := range curves {
		if c(0) != 0 || c(1) != 1 {
			t.Errorf("%s endpoints = (%v, %v), want (0, 1)", name, c(0), c(1))
		}
		if v := c(0.5); v <= 0 || v >= 1 {
			t.Errorf("%s(0.5) = %v, want strictly inside (0, 1)", name, v)
		}
	}
}

func TestValidateReportsEveryDefect(t *testing.T) {
	phases := []Phase{
		{Name: "a", Start: 0.1, End: 0.4, Interpolate: Tracks(Ramp(Scale, 1, 2, nil))},
		{Name: "b", Start: 0.5, End: 0.8, Interpolate: Tracks(Ramp(Scale, 2.5, 3, nil))},
		{Name: "c", Start: 0.7, End: 0.9, Interpolate: Tracks(Ramp(Opacity, 1, 0, nil))},
	}
	err := Validate(phases)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	for _, want := range []error{ErrCoverage, ErrGap, ErrOverlap, ErrDiscontinuity, ErrMissingKey} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
}

func TestValidateEmptyAndInverted(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrEmptyTimeline) {
		t.Errorf("expected ErrEmptyTimeline, got %v", err)
	}

	phases := []Phase{{Name: "x", Start: 0, End: 0, Interpolate: Tracks(Hold(Scale, 1))}, {Name: "y", Start: 0, End: 1}}
	err := Validate(phases)
	if !errors.Is(err, ErrInvertedPhase) || !errors.Is(err, ErrMissingFunc) {
		t.Errorf("expected inverted and missing-func errors, got %v", err)
	}
}

func TestValidateRejectsNonFinite(t *testing.T) {
	phases := []Phase{{Name: "nan", Start: 0, End: 1, Interpolate: func(float64) ParameterSet {
		return ParameterSet{Scale: math.NaN()}
	}}}
	if err := Validate(phases); !errors.Is(err, ErrNonFiniteOutput) {
		t.Errorf("expected ErrNonFiniteOutput, got %v", err)
	}
}

func TestNewTimelineWrapsName(t *testing.T) {
	_, err := NewTimeline("broken", Phase{Name: "a", Start: 0, End: 0.5, Interpolate: Tracks(Hold(Scale, 1))})
	if !errors.Is(err, ErrCoverage) {
		t.Fatalf("expected ErrCoverage, got %v", err)
	}

	tl := MustTimeline("ok", linearTable()...)
	if tl.Name() != "ok" || len(tl.Phases()) != 2 {
		t.Errorf("unexpected timeline %q with %d phases", tl.Name(), len(tl.Phases()))
	}
	if tl.Active(0.75) != "b" {
		t.Errorf("Active(0.75) = %q, want b", tl.Active(0.75))
	}
}

func TestOverlayTracks(t *testing.T) {
	tracks, err := OverlayTracks("transparent", "rgba(0,0,0,0.4)", nil)
	if err != nil {
		t.Fatal(err)
	}
	set := Tracks(tracks...)(0.5)
	if math.Abs(set[OverlayAlpha]-0.2) > 1e-9 {
		t.Errorf("overlay alpha at 0.5 = %v, want 0.2", set[OverlayAlpha])
	}
	if set[OverlayRed] != 0 {
		t.Errorf("overlay red = %v, want 0", set[OverlayRed])
	}

	if _, err := OverlayTracks("not-a-colour", "#000", nil); err == nil {
		t.Error("expected a parse error")
	}
}

func TestPresetsAreContinuous(t *testing.T) {
	full, err := FullscreenScale(1920, 1080, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(full-1920.0/400*1.15) > 1e-9 {
		t.Fatalf("FullscreenScale = %v", full)
	}

	builders := map[string]func() (*Timeline, error){
		"mosaic":        func() (*Timeline, error) { return MosaicZoom(full) },
		"story":         StorySlide,
		"story-final":   FinalStorySlide,
		"hero":          func() (*Timeline, error) { return HeroParallax(900) },
		"carousel-exit": CarouselExit,
		"cta":           func() (*Timeline, error) { return CallToAction(42) },
	}

	timelines := map[string]*Timeline{}
	for name, build := range builders {
		tl, err := build()
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		timelines[name] = tl
	}
	for _, words := range []int{1, 4, 12} {
		footer, err := FooterReveal(words)
		if err != nil {
			t.Errorf("footer(%d): %v", words, err)
			continue
		}
		for _, tl := range footer {
			timelines[fmt.Sprintf("%s/%d", tl.Name(), words)] = tl
		}
	}

	for name, tl := range timelines {
		phases := tl.Phases()
		for i := 1; i < len(phases); i++ {
			left := phases[i-1].Interpolate(1)
			right := phases[i].Interpolate(0)
			for k, v := range left {
				if math.Abs(v-right[k]) > 1e-9 {
					t.Errorf("%s: %s jumps from %v to %v at %v", name, k, v, right[k], phases[i].Start)
				}
			}
		}
	}
}

func TestPresetValues(t *testing.T) {
	mosaic, _ := MosaicZoom(4)
	if got := mosaic.Resolve(0)[Scale]; got != 1 {
		t.Errorf("mosaic start scale = %v, want 1", got)
	}
	if got := mosaic.Resolve(0.3)[Scale]; got != 4 {
		t.Errorf("mosaic scale at zoom end = %v, want 4", got)
	}
	if got := mosaic.Resolve(1)[OverlayAlpha]; math.Abs(got-0.9) > 1e-9 {
		t.Errorf("mosaic final overlay = %v, want 0.9", got)
	}

	final, _ := FinalStorySlide()
	end := final.Resolve(1)
	if end[Opacity] != 0 || end[WrapperOpacity] != 0 {
		t.Errorf("final slide should fade out, got %v", end)
	}

	hero, _ := HeroParallax(1000)
	if got := hero.Resolve(1)[OffsetY]; math.Abs(got+330) > 1e-9 {
		t.Errorf("hero travel = %v, want -330", got)
	}
	if got := hero.Resolve(0.5)[TextOpacity]; got != 0 {
		t.Errorf("hero text should be gone halfway, got %v", got)
	}

	cta, _ := CallToAction(50)
	if got := cta.Resolve(1)[OffsetX]; math.Abs(got+60) > 1e-9 {
		t.Errorf("cta end = %v vw, want -60", got)
	}

	footer, err := FooterReveal(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(footer) != 6 || footer[0].Name() != "footer-word-0" || footer[5].Name() != "footer-copyright" {
		t.Fatalf("footer timelines = %d, first %q", len(footer), footer[0].Name())
	}
	for _, tl := range footer {
		start, end := tl.Resolve(0), tl.Resolve(1)
		if start[Opacity] != 0 || end[Opacity] != 1 {
			t.Errorf("%s opacity %v -> %v, want 0 -> 1", tl.Name(), start[Opacity], end[Opacity])
		}
	}
	word := footer[1].Resolve(0.05)
	if word[Opacity] != 0 || word[RotateX] != 90 || word[OffsetY] != 20 {
		t.Errorf("second word before its turn = %v", word)
	}
	word = footer[1].Resolve(0.25)
	if word[Opacity] <= 0 || word[Opacity] >= 1 || word[RotateX] <= 0 || word[RotateX] >= 90 {
		t.Errorf("second word mid-reveal = %v", word)
	}
	if got := footer[3].Resolve(0.75)[OffsetY]; got != 0 {
		t.Errorf("brand settled offset = %v, want 0", got)
	}
	if got := footer[4].Resolve(0.5)[OffsetX]; got != 30 {
		t.Errorf("socials start offset = %v, want 30", got)
	}
	if got := footer[5].Resolve(0.69)[Opacity]; got != 0 {
		t.Errorf("copyright before 0.7 = %v, want 0", got)
	}
	if _, err := FooterReveal(0); err == nil {
		t.Error("expected an error for an empty phrase")
	}

	if _, err := FullscreenScale(0, 1, 1, 1); err == nil {
		t.Error("expected an error for a zero viewport")
	}
}
