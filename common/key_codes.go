package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace    = 32  // Spacebar (ASCII)
	KeyEsc      = 256 // Escape key (GLFW)
	KeyRight    = 262 // Right arrow (GLFW)
	KeyLeft     = 263 // Left arrow (GLFW)
	KeyDown     = 264 // Down arrow (GLFW)
	KeyUp       = 265 // Up arrow (GLFW)
	KeyPageUp   = 266 // Page Up (GLFW)
	KeyPageDown = 267 // Page Down (GLFW)
	KeyHome     = 268 // Home (GLFW)
	KeyEnd      = 269 // End (GLFW)
)
