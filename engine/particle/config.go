package particle

import "github.com/Carmen-Shannon/anima/common"

// Feature is a bit set of field behaviours that can be switched off.
type Feature uint8

const (
	// DisableRepulsion zeroes RepelStrength, so the pointer never moves particles.
	DisableRepulsion Feature = 1 << iota

	// DisableDrift zeroes SwarmAmplitude, so particles rest on their source positions.
	DisableDrift

	// DisableSpin zeroes SpinRate, so the field does not rotate.
	DisableSpin
)

// Config holds the tunables shared by the particle field and the swarm simulator.
// Zero fields are replaced with the documented defaults by Normalize, so a behaviour is switched
// off through Disable rather than by zeroing its field.
type Config struct {
	// ParticlesPerSourceVertex is the density multiplier: each source vertex yields itself plus
	// ParticlesPerSourceVertex-1 jittered copies. Default 10.
	ParticlesPerSourceVertex int

	// Jitter is the edge length of the box copies are scattered in around their vertex. Default 0.02.
	Jitter float32

	// RepelRadius is the distance within which an active pointer pushes particles away. Default 4.
	RepelRadius float32

	// RepelStrength scales the push at zero distance; it falls off quadratically to 0 at RepelRadius.
	// Default 1.5; 0 means default, use DisableRepulsion to turn it off.
	RepelStrength float32

	// ReturnRate is the fraction of the gap to the ambient target closed each step, in (0, 1].
	// Default 0.08.
	ReturnRate float32

	// SwarmAmplitude is the peak angular drift in radians. Default 0.12; 0 means default, use
	// DisableDrift to turn it off.
	SwarmAmplitude float32

	// BaseParticleSize is the mean point size. Default 0.0167.
	BaseParticleSize float32

	// SizeVariance is the relative spread of point sizes around the base (0.3 means ±30%). Default 0.3.
	SizeVariance float32

	// FallbackCount is the number of points generated when no source asset is available. Default 30000.
	FallbackCount int

	// FallbackRadius is the sphere radius of the generated fallback field. Default 0.6.
	FallbackRadius float32

	// FieldScale is the uniform world scale applied to the whole field. Default 0.35.
	FieldScale float32

	// SpinRate is the field's rotation about Y in radians per second. Default 0.12 (0.002 per 60 Hz
	// frame); 0 means default, use DisableSpin to turn it off.
	SpinRate float32

	// Disable lists behaviours Normalize switches off after defaults are applied.
	Disable Feature
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ParticlesPerSourceVertex: 10,
		Jitter:                   0.02,
		RepelRadius:              4.0,
		RepelStrength:            1.5,
		ReturnRate:               0.08,
		SwarmAmplitude:           0.12,
		BaseParticleSize:         0.0167,
		SizeVariance:             0.3,
		FallbackCount:            30000,
		FallbackRadius:           0.6,
		FieldScale:               0.35,
		SpinRate:                 0.12,
	}
}

// Normalize fills zero fields from DefaultConfig, clamps ReturnRate into (0, 1] and zeroes the
// fields of disabled features. It is idempotent.
//
// Returns:
//   - Config: the normalised config
func (c Config) Normalize() Config {
	d := DefaultConfig()
	c.ParticlesPerSourceVertex = max(common.Coalesce(c.ParticlesPerSourceVertex, d.ParticlesPerSourceVertex), 1)
	c.Jitter = common.Coalesce(c.Jitter, d.Jitter)
	c.RepelRadius = common.Positive(c.RepelRadius, d.RepelRadius)
	c.RepelStrength = common.Coalesce(c.RepelStrength, d.RepelStrength)
	c.ReturnRate = common.Clamp(common.Positive(c.ReturnRate, d.ReturnRate), 1e-6, 1)
	c.SwarmAmplitude = common.Coalesce(c.SwarmAmplitude, d.SwarmAmplitude)
	c.BaseParticleSize = common.Positive(c.BaseParticleSize, d.BaseParticleSize)
	c.SizeVariance = common.Clamp(common.Coalesce(c.SizeVariance, d.SizeVariance), 0, 1)
	c.FallbackCount = max(common.Coalesce(c.FallbackCount, d.FallbackCount), 1)
	c.FallbackRadius = common.Positive(c.FallbackRadius, d.FallbackRadius)
	c.FieldScale = common.Positive(c.FieldScale, d.FieldScale)
	c.SpinRate = common.Coalesce(c.SpinRate, d.SpinRate)

	if c.Disable&DisableRepulsion != 0 {
		c.RepelStrength = 0
	}
	if c.Disable&DisableDrift != 0 {
		c.SwarmAmplitude = 0
	}
	if c.Disable&DisableSpin != 0 {
		c.SpinRate = 0
	}
	return c
}
