package engine

import (
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dmorneau/kinema-go/engine/camera"
	"github.com/dmorneau/kinema-go/engine/physics"
	"github.com/dmorneau/kinema-go/engine/scene"
	"github.com/dmorneau/kinema-go/engine/window"
)

// countingWorld records Step calls without simulating anything.
type countingWorld struct {
	steps int
	last  float32
}

func (w *countingWorld) Step(dt float32) { w.steps++; w.last = dt }

func (w *countingWorld) CastRay(origin, dir mgl32.Vec3, maxDist float32, solid bool, filter physics.RayFilter, exclude ...*physics.Collider) *physics.RayHit {
	return nil
}

func (w *countingWorld) AddCollider(shape physics.Shape, translation mgl32.Vec3) (*physics.Collider, error) {
	return nil, nil
}

func (w *countingWorld) RemoveCollider(c *physics.Collider) {}

func (w *countingWorld) CreateKinematicBody(shape physics.Shape, translation mgl32.Vec3) (*physics.Body, error) {
	return nil, nil
}

func (w *countingWorld) SetColliderTranslation(c *physics.Collider, translation mgl32.Vec3) {}

// stubWindow satisfies window.Window without a platform window behind it.
type stubWindow struct {
	resize func(width, height int)
}

func (w *stubWindow) SetUpdateCallback(callback func()) {}

func (w *stubWindow) SetResizeCallback(callback func(width, height int)) { w.resize = callback }

func (w *stubWindow) SetScrollCallback(callback func(delta float32)) {}

func (w *stubWindow) SetKeyDownCallback(callback func(keyCode uint32)) {}

func (w *stubWindow) SetKeyUpCallback(callback func(keyCode uint32)) {}

func (w *stubWindow) SetMouseDownCallback(callback func(button window.MouseButton, x, y float64)) {}

func (w *stubWindow) SetMouseUpCallback(callback func(button window.MouseButton, x, y float64)) {}

func (w *stubWindow) SetMouseMoveCallback(callback func(x, y float64)) {}

func (w *stubWindow) SetFocusCallback(callback func(focused bool)) {}

func (w *stubWindow) SetCursorCaptured(captured bool) {}

func (w *stubWindow) CursorCaptured() bool { return false }

func (w *stubWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }

func (w *stubWindow) IsRunning() bool { return false }

func (w *stubWindow) Close() error { return nil }

func (w *stubWindow) ProcessMessages() {}

func (w *stubWindow) Width() int { return 1280 }

func (w *stubWindow) Height() int { return 720 }

func TestStepDeliversFramesInOrder(t *testing.T) {
	e := NewEngine().(*engine)

	var order []string
	var frames []Frame
	e.AddFrameCallback(func(f *Frame) {
		order = append(order, "first")
		frames = append(frames, *f)
	})
	e.AddFrameCallback(func(f *Frame) {
		order = append(order, "second")
	})

	e.step(0.5)
	e.step(0.25)

	if len(order) != 4 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected callbacks in registration order, got %v", order)
	}
	if frames[0].Seq != 1 || frames[0].Delta != 0.5 || frames[0].Elapsed != 0.5 {
		t.Fatalf("expected frame 1 with delta 0.5, got %+v", frames[0])
	}
	if frames[1].Seq != 2 || frames[1].Delta != 0.25 || frames[1].Elapsed != 0.75 {
		t.Fatalf("expected frame 2 at elapsed 0.75, got %+v", frames[1])
	}
}

func TestStepReusesFrameContext(t *testing.T) {
	e := NewEngine().(*engine)

	var seen []*Frame
	e.AddFrameCallback(func(f *Frame) {
		seen = append(seen, f)
	})

	e.step(0.1)
	e.step(0.1)

	if len(seen) != 2 || seen[0] != seen[1] {
		t.Fatalf("expected the same frame context across steps, got %p and %p", seen[0], seen[1])
	}
}

func TestStepAdvancesWorld(t *testing.T) {
	world := &countingWorld{}
	e := NewEngine(WithWorld(world)).(*engine)

	for i := 0; i < 3; i++ {
		e.step(0.1)
	}
	if world.steps != 3 || world.last != 0.1 {
		t.Fatalf("expected 3 world steps of 0.1, got %d steps, last %v", world.steps, world.last)
	}
	if e.World() != world {
		t.Fatalf("expected the configured world to be exposed")
	}
}

func TestAddFrameCallbackIgnoresNil(t *testing.T) {
	e := NewEngine().(*engine)
	e.AddFrameCallback(nil)
	e.step(0.1)
}

func TestRunPropagatesTickRateChange(t *testing.T) {
	e := NewEngine(WithTickRate(240)).(*engine)

	go func() {
		time.Sleep(20 * time.Millisecond)
		e.SetTickRate(120)
		time.Sleep(50 * time.Millisecond)
		e.Quit()
	}()
	e.Run()

	if e.tickRate() != time.Second/120 {
		t.Fatalf("expected the live rate change to stick, got %v", e.tickRate())
	}
}

func TestHeadlessRunStopsOnQuit(t *testing.T) {
	e := NewEngine(WithTickRate(240), WithRenderFrameLimit(240))

	var ticks, renders int
	e.AddFrameCallback(func(f *Frame) { ticks++ })
	e.SetRenderCallback(func(dt float32) { renders++ })

	go func() {
		time.Sleep(100 * time.Millisecond)
		e.Quit()
	}()
	e.Run()

	if ticks == 0 {
		t.Fatalf("expected simulation ticks before quit")
	}
	if renders == 0 {
		t.Fatalf("expected render frames before quit")
	}

	// Quit is idempotent.
	e.Quit()
}

func TestSceneRegistryRoundTrip(t *testing.T) {
	e := NewEngine()
	hud := scene.NewScene("hud", camera.NewCamera())
	level := scene.NewScene("level", camera.NewCamera())

	e.AddScene(10, hud)
	e.AddScene(0, level)

	if e.Scene(10) != hud || e.Scene(0) != level {
		t.Fatalf("expected scenes retrievable by key")
	}
	if e.Scene(99) != nil {
		t.Fatalf("expected nil for an unknown key")
	}

	cp := e.Scenes()
	delete(cp, 10)
	if e.Scene(10) != hud {
		t.Fatalf("expected Scenes to return a copy")
	}

	e.RemoveScene(10)
	if e.Scene(10) != nil {
		t.Fatalf("expected the scene removed")
	}
}

func TestActiveScenesSortedAndFiltered(t *testing.T) {
	e := NewEngine(
		WithScene(5, scene.NewScene("overlay", camera.NewCamera(), scene.WithActive(true))),
		WithScene(1, scene.NewScene("level", camera.NewCamera(), scene.WithActive(true))),
		WithScene(3, scene.NewScene("paused", camera.NewCamera())),
	)

	active := e.ActiveScenes()
	if len(active) != 2 || active[0].Name() != "level" || active[1].Name() != "overlay" {
		t.Fatalf("expected [level overlay] in key order, got %v", active)
	}
}

func TestResizePropagatesAspect(t *testing.T) {
	win := &stubWindow{}
	level := scene.NewScene("level", camera.NewCamera())
	e := NewEngine(WithWindow(win), WithScene(0, level))

	if win.resize == nil {
		t.Fatalf("expected the engine to hook the resize callback")
	}
	win.resize(800, 400)
	if got := level.Camera().Aspect(); got != 2 {
		t.Fatalf("expected aspect 2 after resize, got %v", got)
	}

	// Minimized windows report zero dimensions and must not poison the aspect.
	win.resize(0, 0)
	if got := level.Camera().Aspect(); got != 2 {
		t.Fatalf("expected a zero-size resize to be ignored, got %v", got)
	}

	if e.Window() != win {
		t.Fatalf("expected the configured window to be exposed")
	}
}

func TestTickRateConfiguration(t *testing.T) {
	e := NewEngine(WithTickRate(120)).(*engine)
	if e.tickRate() != time.Second/120 {
		t.Fatalf("expected 120Hz, got %v", e.tickRate())
	}

	e.SetTickRate(0)
	if e.tickRate() != time.Second/60 {
		t.Fatalf("expected the 60Hz default for a zero rate, got %v", e.tickRate())
	}

	e.SetRenderFrameLimit(120)
	if e.renderFrameLimit != time.Second/120 {
		t.Fatalf("expected a 120fps render cap, got %v", e.renderFrameLimit)
	}
	e.SetRenderFrameLimit(0)
	if e.renderFrameLimit != 0 {
		t.Fatalf("expected the render cap removed, got %v", e.renderFrameLimit)
	}
}
