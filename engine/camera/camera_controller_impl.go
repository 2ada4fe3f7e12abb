package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the orbit implementation of CameraController.
// Orbit setters modify spherical coordinates and recompute position.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position mgl32.Vec3
	target   mgl32.Vec3

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	zoomSpeed float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new orbit controller. The defaults frame the particle field:
// the eye sits 4 units down +Z from the origin, level with it.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius:    4.0,
		azimuth:   0.0,
		elevation: 0.0,

		minRadius:    0.5,
		maxRadius:    100.0,
		minElevation: float32(-math.Pi/2 + 0.1),
		maxElevation: float32(math.Pi/2 - 0.1),

		zoomSpeed: 0.5,
	}

	for _, option := range options {
		option(cc)
	}

	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = common.Clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}
