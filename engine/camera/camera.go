package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	position             mgl32.Vec3
	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
	inverseViewProj      mgl32.Mat4
	invertible           bool

	controller CameraController
}

// Camera defines the interface for the perspective camera looking at the particle field.
// The camera holds perspective settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Position returns the eye position used for the current matrices.
	//
	// Returns:
	//   - mgl32.Vec3: world-space eye position
	Position() mgl32.Vec3

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix (WebGPU depth range).
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the combined projection * view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// InverseViewProjection returns the inverse of the combined view-projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse matrix
	//   - bool: false if the view-projection matrix is singular
	InverseViewProjection() (mgl32.Mat4, bool)

	// Ray casts a world-space ray from the eye through a point in normalised device coordinates.
	//
	// Parameters:
	//   - ndcX, ndcY: pointer position in NDC, x right and y up, both in [-1, 1]
	//
	// Returns:
	//   - origin: the eye position
	//   - dir: the normalised ray direction
	//   - ok: false if the matrices are singular or the direction is degenerate
	Ray(ndcX, ndcY float32) (origin, dir mgl32.Vec3, ok bool)

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update reads position/target from the controller and recomputes matrices.
	// Should be called once per frame before the pointer is projected.
	// If no controller is attached, this method does nothing.
	Update()

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetController attaches a CameraController to the camera and recomputes matrices.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the field's default perspective: 45° vertical FOV,
// near 0.1, far 1000. Without a controller the eye sits at the origin; attach one with
// WithController or SetController.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     mgl32.Vec3{0, 1, 0},
		fov:    45.0 * (math.Pi / 180.0),
		aspect: 1.0,
		near:   0.1,
		far:    1000.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewProjection() (mgl32.Mat4, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewProj, c.invertible
}

func (c *cameraImpl) Ray(ndcX, ndcY float32) (origin, dir mgl32.Vec3, ok bool) {
	c.mu.Lock()
	inv, invertible, eye := c.inverseViewProj, c.invertible, c.position
	c.mu.Unlock()

	if !invertible {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	far, ok := common.TransformPoint(inv, mgl32.Vec3{ndcX, ndcY, 1})
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	d := far.Sub(eye)
	l := d.Len()
	if l < 1e-6 || !common.Finite(d) {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return eye, d.Mul(1 / l), true
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, view-projection and inverse matrices.
// The eye and target come from the controller; without one the camera looks down -Z from the origin.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	eye := mgl32.Vec3{}
	target := mgl32.Vec3{0, 0, -1}
	if c.controller != nil {
		eye = c.controller.Position()
		target = c.controller.Target()
	}

	c.position = eye
	c.viewMatrix = mgl32.LookAtV(eye, target, c.up)
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)

	det := float64(c.viewProjectionMatrix.Det())
	c.invertible = !math.IsNaN(det) && !math.IsInf(det, 0) && math.Abs(det) > 1e-12
	if c.invertible {
		c.inverseViewProj = c.viewProjectionMatrix.Inv()
	} else {
		c.inverseViewProj = mgl32.Ident4()
	}
}
