// Package particle holds the per-particle state of the swarm field and the flat buffers handed to
// the renderer. Fields are built once, from a source point cloud or as a generated fallback sphere,
// and live for the session; the swarm simulator mutates them in place every frame.
package particle

import "github.com/go-gl/mathgl/mgl32"

// Particle is one point of the field.
type Particle struct {
	// Original is the rest position on the source surface. Never changes.
	Original mgl32.Vec3

	// Current is the simulated position, kept at distance Radius from the origin.
	Current mgl32.Vec3

	// PhaseTheta and PhasePhi are per-particle phase offsets for the ambient drift, in [0, 2π).
	PhaseTheta float32
	PhasePhi   float32

	// AngularSpeed scales how fast the particle drifts.
	AngularSpeed float32

	// Size is the rendered point size.
	Size float32

	// Radius is |Original|, cached at construction.
	Radius float32
}

// Field owns the particles and the position and size buffers derived from them.
// It is not safe for concurrent use; the simulator partitions writes by index.
type Field struct {
	particles []Particle
	positions []float32
	sizes     []float32
	config    Config
}

// newField allocates the buffers for particles and fills them from each particle's current state.
func newField(particles []Particle, cfg Config) *Field {
	f := &Field{
		particles: particles,
		positions: make([]float32, len(particles)*3),
		sizes:     make([]float32, len(particles)),
		config:    cfg,
	}
	for i := range particles {
		f.writePosition(i, particles[i].Current)
		f.sizes[i] = particles[i].Size
	}
	return f
}

// Len returns the number of particles.
func (f *Field) Len() int {
	return len(f.particles)
}

// Config returns the normalised configuration the field was built with.
func (f *Field) Config() Config {
	return f.config
}

// Particle returns a copy of particle i.
func (f *Field) Particle(i int) Particle {
	return f.particles[i]
}

// Particles returns the backing particle slice. Callers must not change Original or Radius.
func (f *Field) Particles() []Particle {
	return f.particles
}

// Positions returns the flat position buffer (x, y, z per particle), refreshed by every simulation step.
// The slice is owned by the field; copy it before handing it to another goroutine.
func (f *Field) Positions() []float32 {
	return f.positions
}

// Sizes returns the per-particle point sizes.
func (f *Field) Sizes() []float32 {
	return f.sizes
}

// SetCurrent updates the simulated position of particle i and its slot in the position buffer.
//
// Parameters:
//   - i: particle index
//   - pos: the new position
func (f *Field) SetCurrent(i int, pos mgl32.Vec3) {
	f.particles[i].Current = pos
	f.writePosition(i, pos)
}

// Reset moves every particle back to its rest position.
func (f *Field) Reset() {
	for i := range f.particles {
		f.SetCurrent(i, f.particles[i].Original)
	}
}

func (f *Field) writePosition(i int, pos mgl32.Vec3) {
	o := i * 3
	f.positions[o] = pos[0]
	f.positions[o+1] = pos[1]
	f.positions[o+2] = pos[2]
}
