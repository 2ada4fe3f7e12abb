// Package window opens the demo surface and turns its input into the events the scroll scene
// consumes: wheel scrolling, pointer movement and presses, keys, resizes and visibility changes.
package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical wheel offset in lines (positive = up)
	SetScrollCallback(callback func(delta float64))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetPointerDownCallback sets the callback for primary button presses.
	//
	// Parameters:
	//   - callback: function receiving the pointer position in framebuffer pixels
	SetPointerDownCallback(callback func(x, y float64))

	// SetPointerUpCallback sets the callback for primary button releases.
	//
	// Parameters:
	//   - callback: function receiving the pointer position in framebuffer pixels
	SetPointerUpCallback(callback func(x, y float64))

	// SetPointerMoveCallback sets the callback for pointer movement inside the window.
	//
	// Parameters:
	//   - callback: function receiving the pointer position in framebuffer pixels
	SetPointerMoveCallback(callback func(x, y float64))

	// SetPointerLeaveCallback sets the callback invoked when the pointer leaves the window.
	//
	// Parameters:
	//   - callback: function to call
	SetPointerLeaveCallback(callback func())

	// SetVisibilityCallback sets the callback invoked when the window is minimised or restored.
	//
	// Parameters:
	//   - callback: function receiving false when minimised and true when restored
	SetVisibilityCallback(callback func(visible bool))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate       func()
	onResize       func(width, height int)
	onScroll       func(delta float64)
	onKeyDown      func(keyCode uint32)
	onKeyUp        func(keyCode uint32)
	onPointerDown  func(x, y float64)
	onPointerUp    func(x, y float64)
	onPointerMove  func(x, y float64)
	onPointerLeave func()
	onVisibility   func(visible bool)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured and spawned window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "anima",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  480,
		minHeight: 320,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float64)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(x, y float64)) {
	w.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func(x, y float64)) {
	w.onPointerUp = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float64)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SetPointerLeaveCallback(callback func()) {
	w.onPointerLeave = callback
}

func (w *engineWindow) SetVisibilityCallback(callback func(visible bool)) {
	w.onVisibility = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// clampSizeLimits keeps the configured limits consistent with each other and the initial size.
func (w *engineWindow) clampSizeLimits() {
	w.minWidth = max(w.minWidth, 1)
	w.minHeight = max(w.minHeight, 1)
	w.maxWidth = max(w.maxWidth, w.minWidth)
	w.maxHeight = max(w.maxHeight, w.minHeight)
	w.width = min(max(w.width, w.minWidth), w.maxWidth)
	w.height = min(max(w.height, w.minHeight), w.maxHeight)
}

// cursorScale converts window coordinates to framebuffer pixels.
// On high-DPI displays the cursor is reported in screen units while the surface is in pixels.
func cursorScale(windowW, windowH, fbW, fbH int) (sx, sy float64) {
	sx, sy = 1, 1
	if windowW > 0 && fbW > 0 {
		sx = float64(fbW) / float64(windowW)
	}
	if windowH > 0 && fbH > 0 {
		sy = float64(fbH) / float64(windowH)
	}
	return sx, sy
}
