package window

import "testing"

func TestCursorScale(t *testing.T) {
	if sx, sy := cursorScale(1280, 720, 2560, 1440); sx != 2 || sy != 2 {
		t.Errorf("retina scale = %v, %v", sx, sy)
	}
	if sx, sy := cursorScale(0, 0, 0, 0); sx != 1 || sy != 1 {
		t.Errorf("minimised scale = %v, %v", sx, sy)
	}
}

func TestClampSizeLimits(t *testing.T) {
	w := &engineWindow{minWidth: 800, minHeight: 600, maxWidth: 400, maxHeight: 0, width: 100, height: 5000}
	w.clampSizeLimits()
	if w.maxWidth != 800 || w.maxHeight != 600 {
		t.Errorf("max = %dx%d", w.maxWidth, w.maxHeight)
	}
	if w.width != 800 || w.height != 600 {
		t.Errorf("size = %dx%d", w.width, w.height)
	}

	w = &engineWindow{width: 1280, height: 720, maxWidth: 3840, maxHeight: 2160}
	w.clampSizeLimits()
	if w.minWidth != 1 || w.width != 1280 || w.height != 720 {
		t.Errorf("window = %+v", w)
	}
}

func TestSizeOptionsAreClamped(t *testing.T) {
	w := &engineWindow{}
	for _, opt := range []WindowBuilderOption{
		WithTitle("t"),
		WithSize(5000, 100),
		WithMinSize(640, 480),
		WithMaxSize(1920, 1080),
	} {
		opt(w)
	}
	w.clampSizeLimits()
	if w.title != "t" || w.width != 1920 || w.height != 480 {
		t.Errorf("window = %q %dx%d, want t 1920x480", w.title, w.width, w.height)
	}
}
