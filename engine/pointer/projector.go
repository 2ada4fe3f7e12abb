package pointer

import (
	"math"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/go-gl/mathgl/mgl32"
)

// rayEpsilon is the smallest |dir.z| treated as non-parallel to the picking plane.
const rayEpsilon = 1e-6

// RayCaster casts world-space rays through NDC points. The camera package's Camera satisfies it.
type RayCaster interface {
	// Ray casts a world-space ray through a point in NDC.
	//
	// Parameters:
	//   - ndcX, ndcY: the point in NDC
	//
	// Returns:
	//   - origin: ray origin in world space
	//   - dir: normalised ray direction
	//   - ok: false if no ray can be cast
	Ray(ndcX, ndcY float32) (origin, dir mgl32.Vec3, ok bool)
}

type projectorImpl struct {
	planeZ float32
}

// Projector maps a pointer sample onto the world plane z = PlaneZ and into field-local space.
type Projector interface {
	// Project converts a pointer sample to a field-local point.
	// The field's world matrix is inverted once per call, so callers project once per frame
	// and reuse the State for every particle.
	//
	// Parameters:
	//   - sample: the pointer reading for this frame
	//   - cam: casts the pick ray
	//   - fieldWorld: the field's model-to-world matrix (scale and rotation)
	//
	// Returns:
	//   - State: the local-space pointer, or the inactive state when the sample is inactive,
	//     the ray is parallel to the plane, the hit is behind the ray origin, or either
	//     matrix is singular
	Project(sample Sample, cam RayCaster, fieldWorld mgl32.Mat4) State

	// PlaneZ returns the world-space z of the picking plane.
	//
	// Returns:
	//   - float32: the plane's z coordinate
	PlaneZ() float32
}

var _ Projector = &projectorImpl{}

// NewProjector creates a Projector picking against the plane z = 0 unless configured otherwise.
//
// Parameters:
//   - options: functional options to configure the projector
//
// Returns:
//   - Projector: the newly created projector
func NewProjector(options ...ProjectorBuilderOption) Projector {
	p := &projectorImpl{}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *projectorImpl) PlaneZ() float32 {
	return p.planeZ
}

func (p *projectorImpl) Project(sample Sample, cam RayCaster, fieldWorld mgl32.Mat4) State {
	if !sample.Active || cam == nil {
		return Inactive()
	}

	origin, dir, ok := cam.Ray(sample.X, sample.Y)
	if !ok || math.Abs(float64(dir.Z())) < rayEpsilon {
		return Inactive()
	}
	t := (p.planeZ - origin.Z()) / dir.Z()
	if t < 0 {
		return Inactive()
	}
	hit := origin.Add(dir.Mul(t))

	det := float64(fieldWorld.Det())
	if math.IsNaN(det) || math.Abs(det) < 1e-12 {
		return Inactive()
	}
	local, ok := common.TransformPoint(fieldWorld.Inv(), hit)
	if !ok || !common.Finite(local) {
		return Inactive()
	}
	return At(local)
}
