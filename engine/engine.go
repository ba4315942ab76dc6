package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmorneau/kinema-go/common"
	"github.com/dmorneau/kinema-go/engine/physics"
	"github.com/dmorneau/kinema-go/engine/profiler"
	"github.com/dmorneau/kinema-go/engine/scene"
	"github.com/dmorneau/kinema-go/engine/window"
)

// Frame is one simulation step delivered to frame callbacks. The engine
// reuses a single Frame across steps, so callbacks copy values out rather
// than retaining the pointer.
type Frame struct {
	// Delta is the elapsed time since the previous step in seconds.
	Delta float32

	// Elapsed is the total simulation time in seconds.
	Elapsed float64

	// Seq is the step counter, starting at 1.
	Seq uint64
}

// engine implements the Engine interface.
// Coordinates the simulation, render, and window threads.
type engine struct {
	mu sync.RWMutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	world  physics.World

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	frame          Frame
	frameCallbacks []func(*Frame)
	renderCallback func(deltaTime float32)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	log zerolog.Logger
}

var _ Engine = &engine{}

// Engine is the main entry point for the engine.
// It orchestrates the simulation loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil when running headless
	Window() window.Window

	// World returns the physics world stepped by the simulation loop.
	//
	// Returns:
	//   - physics.World: the world instance, or nil if none was configured
	World() physics.World

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the simulation tick rate in steps per second.
	// Frame callbacks are called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target steps per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// AddFrameCallback registers a function called each simulation step, in
	// registration order. Use this for game logic, character updates, and
	// animation. Nil callbacks are ignored. The frame pointer is only valid
	// for the duration of the call.
	//
	// Parameters:
	//   - callback: function to call each step, receiving the frame context
	AddFrameCallback(callback func(frame *Frame))

	// SetRenderCallback registers the function called each render frame.
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

	// AddScene registers a scene at the given z-index key.
	// ActiveScenes returns scenes in ascending key order for drawing.
	//
	// Parameters:
	//   - key: the z-index determining draw order (lower draws first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// ActiveScenes returns the active scenes in ascending z-index order,
	// the order a render callback should draw them in.
	//
	// Returns:
	//   - []scene.Scene: the active scenes, lowest key first
	ActiveScenes() []scene.Scene

	// Run starts the engine loops and blocks until Quit is called or the
	// window closes.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// When a window is attached, resizes propagate to every scene camera's
// aspect ratio.
//
// Parameters:
//   - options: functional options for engine configuration (window, world, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		running:         false,
		wg:              sync.WaitGroup{},
		engineTickRate:  time.Second / 60,
		log:             zerolog.Nop(),
	}

	for _, opt := range options {
		opt(e)
	}

	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.log))

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if width <= 0 || height <= 0 {
				return
			}
			for _, s := range e.Scenes() {
				if c := s.Camera(); c != nil {
					c.SetAspect(common.Aspect(width, height))
				}
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) World() physics.World {
	return e.world
}

func (e *engine) Run() {
	e.start()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
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
		close(e.quitChannel)
		e.log.Debug().Msg("quit signaled")
	})
}

// start launches the simulation and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) start() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(2)
	go e.runSimulation()
	go e.runRender()
}

// runSimulation runs the fixed-rate simulation loop in its own goroutine.
// Steps the world and the frame callbacks at the configured tick rate and
// listens for dynamic rate changes via tickRateChannel. Exits when the quit
// channel is closed.
func (e *engine) runSimulation() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickRate())
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.step(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.setTickRate(newRate)
		}
	}
}

// step advances the physics world and the frame callbacks by one tick.
func (e *engine) step(dt float32) {
	if e.world != nil {
		e.world.Step(dt)
	}

	e.mu.Lock()
	e.frame.Seq++
	e.frame.Delta = dt
	e.frame.Elapsed += float64(dt)
	frame := &e.frame
	callbacks := append([]func(*Frame){}, e.frameCallbacks...)
	e.mu.Unlock()

	for _, callback := range callbacks {
		callback(frame)
	}
}

// runRender runs the uncapped (or frame-limited) render loop in its own
// goroutine. Recovers from panics to avoid crashing the process and signals
// quit on recovery.
func (e *engine) runRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("render loop recovered from panic")
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.mu.RLock()
			callback := e.renderCallback
			profiling := e.profilingEnabled
			limit := e.renderFrameLimit
			e.mu.RUnlock()

			if callback != nil {
				callback(dt)
			}

			if profiling && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if limit > 0 {
				if remaining := limit - time.Since(lastRender); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = true
	e.mu.Unlock()
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}

// SetTickRate sets the simulation tick rate in steps per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	e.mu.RLock()
	running := e.running
	e.mu.RUnlock()

	if !running {
		e.setTickRate(newRate)
		return
	}

	// Non-blocking send - if the channel holds a pending value, replace it.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) tickRate() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.engineTickRate
}

func (e *engine) setTickRate(rate time.Duration) {
	e.mu.Lock()
	e.engineTickRate = rate
	e.mu.Unlock()
}

// AddFrameCallback registers a function called each simulation step.
func (e *engine) AddFrameCallback(callback func(frame *Frame)) {
	if callback == nil {
		return
	}
	e.mu.Lock()
	e.frameCallbacks = append(e.frameCallbacks, callback)
	e.mu.Unlock()
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	e.renderCallback = callback
	e.mu.Unlock()
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	e.scenes[key] = s
	e.mu.Unlock()
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	delete(e.scenes, key)
	e.mu.Unlock()
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) ActiveScenes() []scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			out = append(out, s)
		}
	}
	return out
}
