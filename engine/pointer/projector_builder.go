package pointer

// ProjectorBuilderOption is a functional option for configuring a Projector.
type ProjectorBuilderOption func(*projectorImpl)

// WithPlaneZ sets the world-space z of the picking plane.
//
// Parameters:
//   - z: plane position along the world Z axis
//
// Returns:
//   - ProjectorBuilderOption: functional option to set the plane
func WithPlaneZ(z float32) ProjectorBuilderOption {
	return func(p *projectorImpl) {
		p.planeZ = z
	}
}
