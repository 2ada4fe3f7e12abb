// Package engine ties the scroll scene's pieces to a window: the Globe owns the particle field
// and its frame clock, and the Engine runs the render loop that draws the globe's latest state
// and forwards window input to it.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/anima/engine/profiler"
	"github.com/Carmen-Shannon/anima/engine/renderer"
	"github.com/Carmen-Shannon/anima/engine/window"
)

// engine implements the Engine interface.
// Coordinates the globe's clock, the render goroutine and the window thread.
type engine struct {
	mu *sync.Mutex

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	globe    Globe

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate       float64
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point of the demo surface.
// It orchestrates the globe's frame clock, the render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the point renderer, or nil when the engine has no window.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Globe returns the particle globe driven by the engine.
	//
	// Returns:
	//   - Globe: the globe
	Globe() Globe

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the globe's simulation rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRenderCallback registers the function called each render frame after the globe is drawn.
	// Use this for scroll-driven updates of the page layer.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the globe's clock once it is ready and the render loop, then runs the window
	// message loop. Blocks until the window closes, or until Quit when there is no window.
	Run()

	// Quit signals all engine goroutines to stop and stops the globe's clock.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Without WithGlobe a default Globe is created; with a window and no renderer, a point
// renderer is created for the window.
//
// Parameters:
//   - options: functional options for engine configuration (window, globe, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.globe == nil {
		e.globe = NewGlobe()
	}
	if e.tickRate > 0 {
		e.globe.Clock().SetTickRate(e.tickRate)
	}

	if e.window != nil {
		if e.renderer == nil {
			e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window)
		}
		e.globe.Resize(e.window.Width(), e.window.Height())
		e.bindWindow()
	}

	return e
}

// bindWindow forwards window events to the renderer, the globe and its pointer latch.
func (e *engine) bindWindow() {
	latch := e.globe.Latch()

	e.window.SetResizeCallback(func(width, height int) {
		if e.renderer != nil {
			e.renderer.Resize(width, height)
		}
		e.globe.Resize(width, height)
	})
	e.window.SetPointerMoveCallback(func(x, y float64) {
		latch.MoveScreen(float32(x), float32(y), float32(e.window.Width()), float32(e.window.Height()))
	})
	e.window.SetPointerLeaveCallback(latch.Leave)
	e.window.SetVisibilityCallback(e.globe.SetVisible)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Globe() Globe {
	return e.globe
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.globe.Ready().Then(e.globe.Start)
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.Quit()
	}
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		e.globe.Stop()
		close(e.quitChannel)
	})
}

// handle launches the render and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleRender()
	go e.handleQuit()
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each frame copies the globe's latest state, uploads it and draws it.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	var frame GlobeFrame
	cam := e.globe.Camera()
	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if e.renderer != nil && e.globe.Snapshot(&frame) {
				if err := e.renderer.UploadPoints(frame.Positions, frame.Sizes); err != nil {
					log.Printf("[Engine] upload failed: %v", err)
				} else if err := e.renderer.Render(renderer.PointFrame{
					View:       cam.ViewMatrix(),
					Projection: cam.ProjectionMatrix(),
					World:      frame.World,
					Opacity:    frame.Opacity,
				}); err != nil {
					log.Printf("[Engine] frame skipped: %v", err)
				}
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			} else if e.renderer == nil {
				// nothing paces a headless loop
				time.Sleep(time.Millisecond)
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the globe's simulation rate.
// The clock applies the change immediately when it is running.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.tickRate = fps
	e.globe.Clock().SetTickRate(fps)
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
