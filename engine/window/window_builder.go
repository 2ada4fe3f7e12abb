package window

// WindowBuilderOption configures a window before the platform window is created.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial framebuffer size. It is clamped into the size limits.
//
// Parameters:
//   - width, height: initial size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize sets the smallest size the user can resize the window to.
// The scroll layout assumes a usable viewport, so the default is 480x320.
//
// Parameters:
//   - width, height: minimum size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithMaxSize sets the largest size the user can resize the window to. Defaults to 3840x2160.
//
// Parameters:
//   - width, height: maximum size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = width
		w.maxHeight = height
	}
}
