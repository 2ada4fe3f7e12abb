// Package swarm advances the particle field one frame at a time.
//
// Every particle drifts around its rest point on the sphere through which it was sampled,
// is pushed away from an active pointer, and eases back when the pointer leaves. Positions are
// re-projected onto each particle's radius after every update, so the field keeps its shape
// no matter how the pointer moves. Step has no randomness: the same field, time and pointer
// always produce the same buffer.
package swarm

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/Carmen-Shannon/anima/engine/particle"
	"github.com/Carmen-Shannon/anima/engine/pointer"
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
)

// Drift shaping constants for the ambient motion.
const (
	thetaRate  = 0.3
	phiRate    = 0.25
	phiDamping = 0.5
	phiMargin  = 0.1
	zeroLength = 0.001
)

// minChunk is the smallest particle count worth handing to a worker.
const minChunk = 2048

// SimulationState is the simulator's clock. Time only moves forward.
type SimulationState struct {
	// Time is the accumulated simulation time in seconds.
	Time float64

	// Steps counts calls to Step.
	Steps uint64
}

type simulatorImpl struct {
	mu *sync.Mutex

	field  *particle.Field
	config particle.Config
	state  SimulationState

	workers int
	pool    worker.DynamicWorkerPool
}

// Simulator owns a particle field and its SimulationState and applies the swarm rule to it.
type Simulator interface {
	// Step advances simulation time by dt and updates every particle.
	// Negative, NaN or infinite dt is treated as 0: the drift target is recomputed for the
	// current time and particles keep easing toward it.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous step
	//   - p: the pointer projected into field-local space for this frame
	Step(dt float64, p pointer.State)

	// State returns a copy of the simulation clock.
	//
	// Returns:
	//   - SimulationState: the current state
	State() SimulationState

	// Field returns the simulated field. Its position buffer is only stable between steps.
	//
	// Returns:
	//   - *particle.Field: the field
	Field() *particle.Field

	// Config returns the normalised tunables in effect.
	//
	// Returns:
	//   - particle.Config: the configuration
	Config() particle.Config

	// Reset rewinds the clock to zero and returns every particle to its rest position.
	Reset()

	// Close releases the worker pool, if any. The simulator must not be stepped afterwards.
	Close()
}

var _ Simulator = &simulatorImpl{}

// NewSimulator creates a Simulator over field. By default the pass is single-threaded and
// uses the field's own configuration.
//
// Parameters:
//   - field: the particle field to animate
//   - options: functional options to configure the simulator
//
// Returns:
//   - Simulator: the newly created simulator
func NewSimulator(field *particle.Field, options ...SimulatorBuilderOption) Simulator {
	s := &simulatorImpl{
		mu:      &sync.Mutex{},
		field:   field,
		config:  field.Config(),
		workers: 1,
	}
	for _, option := range options {
		option(s)
	}
	s.config = s.config.Normalize()

	if s.workers > 1 {
		s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	}
	return s
}

func (s *simulatorImpl) State() SimulationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *simulatorImpl) Field() *particle.Field {
	return s.field
}

func (s *simulatorImpl) Config() particle.Config {
	return s.config
}

func (s *simulatorImpl) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SimulationState{}
	s.field.Reset()
}

func (s *simulatorImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		s.pool.Stop()
		s.pool = nil
	}
}

func (s *simulatorImpl) Step(dt float64, p pointer.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		dt = 0
	}
	s.state.Time += dt
	s.state.Steps++

	n := s.field.Len()
	t := s.state.Time
	if !p.Active || !common.Finite(p.Local) {
		p = pointer.Inactive()
	}

	if s.pool == nil || n < minChunk*2 {
		s.updateRange(0, n, t, p)
		return
	}

	// Particles are independent, so contiguous chunks can run on the pool in any order.
	// A WaitGroup gives the per-frame barrier.
	chunk := max((n+s.workers-1)/s.workers, minChunk)
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		lo, hi, id := start, end, taskID
		taskID++
		s.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				s.updateRange(lo, hi, t, p)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// updateRange applies the swarm rule to particles [lo, hi).
func (s *simulatorImpl) updateRange(lo, hi int, t float64, p pointer.State) {
	particles := s.field.Particles()
	for i := lo; i < hi; i++ {
		next, ok := s.advance(&particles[i], t, p)
		if ok {
			s.field.SetCurrent(i, next)
		}
	}
}

// advance computes the next position of one particle. It reports false when the particle
// must keep its current position: degenerate radius or a non-finite result.
func (s *simulatorImpl) advance(pt *particle.Particle, t float64, p pointer.State) (mgl32.Vec3, bool) {
	r := pt.Radius
	if r < zeroLength {
		return mgl32.Vec3{}, false
	}

	target := s.target(pt, t)
	cur := pt.Current

	var next mgl32.Vec3
	away := cur.Sub(p.Local)
	dist := away.Len()

	if p.Active && dist < s.config.RepelRadius {
		falloff := 1 - dist/s.config.RepelRadius
		force := falloff * falloff * s.config.RepelStrength
		l := dist
		if l == 0 {
			l = zeroLength
		}
		pushed := cur.Add(away.Mul(force / l))
		pr := pushed.Len()
		if pr <= zeroLength {
			return mgl32.Vec3{}, false
		}
		next = pushed.Mul(r / pr)
	} else {
		eased := cur.Add(target.Sub(cur).Mul(s.config.ReturnRate))
		if er := eased.Len(); er > zeroLength {
			next = eased.Mul(r / er)
		} else {
			next = target
		}
	}

	if !common.Finite(next) {
		return mgl32.Vec3{}, false
	}
	return next, true
}

// target returns the particle's ambient drift position on its sphere at time t.
func (s *simulatorImpl) target(pt *particle.Particle, t float64) mgl32.Vec3 {
	o := pt.Original
	r := float64(pt.Radius)
	amp := float64(s.config.SwarmAmplitude)
	speed := float64(pt.AngularSpeed)

	theta := math.Atan2(float64(o.Z()), float64(o.X()))
	phi := math.Acos(common.Clamp(float64(o.Y())/r, -1, 1))

	theta += math.Sin(t*speed*thetaRate+float64(pt.PhaseTheta)) * amp
	phi += math.Cos(t*speed*phiRate+float64(pt.PhasePhi)) * amp * phiDamping
	phi = common.Clamp(phi, phiMargin, math.Pi-phiMargin)

	sinPhi := math.Sin(phi)
	return mgl32.Vec3{
		float32(r * sinPhi * math.Cos(theta)),
		float32(r * math.Cos(phi)),
		float32(r * sinPhi * math.Sin(theta)),
	}
}
