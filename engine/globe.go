package engine

import (
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/Carmen-Shannon/anima/engine/camera"
	"github.com/Carmen-Shannon/anima/engine/clock"
	"github.com/Carmen-Shannon/anima/engine/loader"
	"github.com/Carmen-Shannon/anima/engine/particle"
	"github.com/Carmen-Shannon/anima/engine/pointer"
	"github.com/Carmen-Shannon/anima/engine/profiler"
	"github.com/Carmen-Shannon/anima/engine/swarm"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Fade-in of the field once it is ready.
const (
	fadeDelay    = 0.5
	fadeDuration = 1.5
	fadeOpacity  = 0.95
)

// GlobeFrame is a copy of the field's render state after a tick.
type GlobeFrame struct {
	Positions []float32
	Sizes     []float32

	// World is the field's model matrix (uniform scale and spin about Y).
	World mgl32.Mat4

	Opacity float32

	// Time is the simulation time the positions belong to.
	Time float64
}

type globe struct {
	mu *sync.Mutex

	config   particle.Config
	seed     uint64
	workers  int
	loader   loader.Loader
	camera   camera.Camera
	latch    *pointer.Latch
	proj     pointer.Projector
	clock    clock.FrameClock
	profiler *profiler.Profiler
	ready    *common.Signal

	sim      swarm.Simulator
	rotation float32
	delay    float64
	fade     *gween.Tween
	opacity  float32
	world    mgl32.Mat4

	// front is the copy handed to readers on other goroutines
	front    GlobeFrame
	hasFront bool

	clockOptions []clock.FrameClockBuilderOption
	onFrame      func(frame *GlobeFrame)
}

// Globe drives the interactive particle field: it owns the frame clock, the pointer latch,
// the projector and the swarm simulator, and spins and fades the field in.
//
// The field is created by Load. Until then ticks do nothing.
type Globe interface {
	// Load builds the field from the point cloud at path. If the asset cannot be loaded the
	// failure is logged and a generated sphere is used instead, so Load always produces a
	// field. Ready fires once the field exists. Calling Load again replaces the field.
	//
	// Parameters:
	//   - path: .gltf or .glb asset path, or "" to use the generated sphere
	Load(path string)

	// Ready is fired after the first successful Load.
	//
	// Returns:
	//   - *common.Signal: the readiness signal
	Ready() *common.Signal

	// Tick advances the field by dt seconds: spin, fade, pointer projection and one
	// simulation step. The frame clock calls this; hosts running their own loop may call it
	// directly.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	Tick(dt float64)

	// Snapshot copies the state of the latest tick into dst, reusing its slices.
	// Safe to call from a render goroutine while the clock ticks.
	//
	// Parameters:
	//   - dst: destination frame
	//
	// Returns:
	//   - bool: false if no tick has completed since the field was loaded
	Snapshot(dst *GlobeFrame) bool

	// SetFrameCallback registers a function called after every tick with the new state.
	// The frame's slices alias the field's buffers and are only valid during the call.
	//
	// Parameters:
	//   - callback: receives the frame (or nil to disable)
	SetFrameCallback(callback func(frame *GlobeFrame))

	// Resize updates the camera aspect for a new viewport.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	Resize(width, height int)

	// Latch returns the pointer latch input handlers write into.
	//
	// Returns:
	//   - *pointer.Latch: the latch
	Latch() *pointer.Latch

	// Camera returns the camera the field is viewed and picked through.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Clock returns the frame clock driving Tick.
	//
	// Returns:
	//   - clock.FrameClock: the clock
	Clock() clock.FrameClock

	// Simulator returns the current simulator, or nil before Load.
	//
	// Returns:
	//   - swarm.Simulator: the simulator
	Simulator() swarm.Simulator

	// Start starts the frame clock.
	Start()

	// Stop stops the frame clock. The field keeps its state.
	Stop()

	// SetVisible suspends or resumes ticking with the visibility of the surface.
	//
	// Parameters:
	//   - visible: whether the field is on screen
	SetVisible(visible bool)

	// Close stops the clock and releases the simulator's workers.
	Close()
}

var _ Globe = &globe{}

// NewGlobe creates a Globe with the default field configuration, a camera four units back on
// +Z and a 60 Hz frame clock.
//
// Parameters:
//   - options: functional options to configure the globe
//
// Returns:
//   - Globe: the newly created globe
func NewGlobe(options ...GlobeBuilderOption) Globe {
	g := &globe{
		mu:      &sync.Mutex{},
		config:  particle.DefaultConfig(),
		seed:    1,
		workers: 1,
		latch:   pointer.NewLatch(),
		proj:    pointer.NewProjector(),
		ready:   common.NewSignal(),
		world:   mgl32.Ident4(),
	}
	for _, option := range options {
		option(g)
	}
	g.config = g.config.Normalize()

	if g.camera == nil {
		g.camera = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	if g.loader == nil {
		g.loader = loader.NewLoader(loader.BackendTypeGLTF)
	}
	g.clock = clock.NewFrameClock(append(g.clockOptions, clock.WithTickCallback(g.Tick))...)
	g.world = g.fieldWorld()
	return g
}

func (g *globe) Load(path string) {
	field := g.buildField(path)
	sim := swarm.NewSimulator(field, swarm.WithConfig(g.config), swarm.WithWorkers(g.workers))

	g.mu.Lock()
	old := g.sim
	g.sim = sim
	g.delay = fadeDelay
	g.opacity = 0
	g.fade = gween.New(0, fadeOpacity, fadeDuration, ease.OutCubic)
	g.hasFront = false
	g.mu.Unlock()

	if old != nil {
		old.Close()
	}
	g.ready.Fire()
}

// buildField loads the source point cloud, falling back to the generated sphere.
func (g *globe) buildField(path string) *particle.Field {
	rng := particle.NewRand(g.seed)
	if path == "" {
		return particle.Fallback(g.config, rng)
	}

	cloud, err := g.loader.LoadPointCloud(path)
	if err != nil {
		log.Printf("[Globe] could not load %s, using the generated sphere: %v", path, err)
		return particle.Fallback(g.config, rng)
	}
	field, err := particle.FromSource(cloud.Points, g.config, rng)
	if err != nil {
		log.Printf("[Globe] %s has no usable points, using the generated sphere: %v", path, err)
		return particle.Fallback(g.config, rng)
	}
	log.Printf("[Globe] %s: %d source points, %d particles", path, cloud.Len(), field.Len())
	return field
}

func (g *globe) Ready() *common.Signal {
	return g.ready
}

func (g *globe) Tick(dt float64) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		dt = 0
	}

	g.mu.Lock()
	sim := g.sim
	if sim == nil {
		g.mu.Unlock()
		return
	}
	g.rotation += g.config.SpinRate * float32(dt)
	g.advanceFade(dt)
	g.world = g.fieldWorld()
	world := g.world
	g.mu.Unlock()

	// one pointer reading per frame, shared by every particle
	p := g.proj.Project(g.latch.Snapshot(), g.camera, world)

	step := func() { sim.Step(dt, p) }
	if g.profiler != nil {
		g.profiler.TimeStep(step)
		g.profiler.Tick()
	} else {
		step()
	}

	field := sim.Field()
	frame := GlobeFrame{
		Positions: field.Positions(),
		Sizes:     field.Sizes(),
		World:     world,
		Time:      sim.State().Time,
	}

	g.mu.Lock()
	frame.Opacity = g.opacity
	g.front.Positions = append(g.front.Positions[:0], frame.Positions...)
	g.front.Sizes = append(g.front.Sizes[:0], frame.Sizes...)
	g.front.World = frame.World
	g.front.Opacity = frame.Opacity
	g.front.Time = frame.Time
	g.hasFront = true
	callback := g.onFrame
	g.mu.Unlock()

	if callback != nil {
		callback(&frame)
	}
}

// advanceFade runs the opacity tween after its delay. Caller must hold the mutex.
func (g *globe) advanceFade(dt float64) {
	if g.fade == nil || dt <= 0 {
		return
	}
	if g.delay > 0 {
		g.delay -= dt
		if g.delay > 0 {
			return
		}
		// spend the overshoot on the tween
		dt = -g.delay
		g.delay = 0
	}
	v, done := g.fade.Update(float32(dt))
	g.opacity = v
	if done {
		g.fade = nil
	}
}

// fieldWorld composes the field's model matrix. Caller must hold the mutex.
func (g *globe) fieldWorld() mgl32.Mat4 {
	s := g.config.FieldScale
	return common.ModelMatrix(mgl32.Vec3{}, mgl32.Vec3{0, g.rotation, 0}, mgl32.Vec3{s, s, s})
}

func (g *globe) Snapshot(dst *GlobeFrame) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hasFront {
		return false
	}
	dst.Positions = append(dst.Positions[:0], g.front.Positions...)
	dst.Sizes = append(dst.Sizes[:0], g.front.Sizes...)
	dst.World = g.front.World
	dst.Opacity = g.front.Opacity
	dst.Time = g.front.Time
	return true
}

func (g *globe) SetFrameCallback(callback func(frame *GlobeFrame)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFrame = callback
}

func (g *globe) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.camera.SetAspect(float32(width) / float32(height))
}

func (g *globe) Latch() *pointer.Latch {
	return g.latch
}

func (g *globe) Camera() camera.Camera {
	return g.camera
}

func (g *globe) Clock() clock.FrameClock {
	return g.clock
}

func (g *globe) Simulator() swarm.Simulator {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sim
}

func (g *globe) Start() {
	g.clock.Start()
}

func (g *globe) Stop() {
	g.clock.Stop()
}

func (g *globe) SetVisible(visible bool) {
	g.clock.SetVisible(visible)
}

func (g *globe) Close() {
	g.clock.Stop()
	g.mu.Lock()
	sim := g.sim
	g.mu.Unlock()
	if sim != nil {
		sim.Close()
	}
}
