package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the camera's positional state. The camera reads the eye and target
// from its controller each Update and derives its matrices from them.
// The controller orbits a target on a sphere described by radius, azimuth and elevation,
// so the field can be framed from any side without moving the field itself.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)
}
