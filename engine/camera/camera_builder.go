package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption configures a camera before its matrices are first computed.
type CameraBuilderOption func(*cameraImpl)

// WithFovDegrees sets the vertical field of view. Defaults to 45°.
//
// Parameters:
//   - degrees: vertical field of view in degrees
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFovDegrees(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = mgl32.DegToRad(degrees)
	}
}

// WithAspect sets the initial aspect ratio (width / height). The globe updates it on resize.
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipRange sets the near and far plane distances. Defaults to 0.1 and 1000.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithClipRange(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithController attaches the controller that places the eye and target.
//
// Parameters:
//   - ctrl: the controller
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
