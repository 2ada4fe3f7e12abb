package particle

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/go-gl/mathgl/mgl32"
)

var errEmptySource = errors.New("particle source has no points")

// NewRand returns a deterministic random source for the field factories.
//
// Parameters:
//   - seed: the seed; equal seeds yield identical fields
//
// Returns:
//   - *rand.Rand: the random source
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// FromSource builds a field from a source point cloud. Every source point yields itself plus
// ParticlesPerSourceVertex-1 copies scattered in a Jitter-sized box around it. Non-finite
// points are dropped.
//
// Parameters:
//   - points: source positions in field-local space
//   - cfg: field configuration; zero fields take their defaults
//   - rng: random source for jitter and per-particle attributes (a time-seeded source if nil)
//
// Returns:
//   - *Field: the field
//   - error: error if no finite point remains
func FromSource(points []mgl32.Vec3, cfg Config, rng *rand.Rand) (*Field, error) {
	cfg = cfg.Normalize()
	rng = ensureRand(rng)

	particles := make([]Particle, 0, len(points)*cfg.ParticlesPerSourceVertex)
	for _, p := range points {
		if !common.Finite(p) {
			continue
		}
		for j := 0; j < cfg.ParticlesPerSourceVertex; j++ {
			pos := p
			if j > 0 {
				pos = mgl32.Vec3{
					p[0] + (rng.Float32()-0.5)*cfg.Jitter,
					p[1] + (rng.Float32()-0.5)*cfg.Jitter,
					p[2] + (rng.Float32()-0.5)*cfg.Jitter,
				}
			}
			particles = append(particles, newParticle(pos, cfg, rng))
		}
	}
	if len(particles) == 0 {
		return nil, errEmptySource
	}
	return newField(particles, cfg), nil
}

// Fallback builds a field of FallbackCount points uniformly distributed on a sphere of
// FallbackRadius. It is used when the source asset cannot be loaded.
//
// Parameters:
//   - cfg: field configuration; zero fields take their defaults
//   - rng: random source (a time-seeded source if nil)
//
// Returns:
//   - *Field: the field
func Fallback(cfg Config, rng *rand.Rand) *Field {
	cfg = cfg.Normalize()
	rng = ensureRand(rng)

	particles := make([]Particle, cfg.FallbackCount)
	r := cfg.FallbackRadius
	for i := range particles {
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)
		pos := mgl32.Vec3{
			r * float32(math.Sin(phi)*math.Cos(theta)),
			r * float32(math.Sin(phi)*math.Sin(theta)),
			r * float32(math.Cos(phi)),
		}
		particles[i] = newParticle(pos, cfg, rng)
	}
	return newField(particles, cfg)
}

func newParticle(pos mgl32.Vec3, cfg Config, rng *rand.Rand) Particle {
	spread := 1 - cfg.SizeVariance + rng.Float32()*2*cfg.SizeVariance
	return Particle{
		Original:     pos,
		Current:      pos,
		AngularSpeed: (0.5 + rng.Float32()*1.5) * 3,
		PhaseTheta:   rng.Float32() * 2 * math.Pi,
		PhasePhi:     rng.Float32() * 2 * math.Pi,
		Size:         cfg.BaseParticleSize * spread,
		Radius:       pos.Len(),
	}
}

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
