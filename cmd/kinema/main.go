package main

import (
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dmorneau/kinema-go/common"
	"github.com/dmorneau/kinema-go/config"
	"github.com/dmorneau/kinema-go/engine"
	"github.com/dmorneau/kinema-go/engine/camera"
	"github.com/dmorneau/kinema-go/engine/character"
	"github.com/dmorneau/kinema-go/engine/input"
	"github.com/dmorneau/kinema-go/engine/physics"
	"github.com/dmorneau/kinema-go/engine/scene"
	"github.com/dmorneau/kinema-go/engine/window"
)

var CLI struct {
	Config  string `help:"Tuning document to load." type:"path"`
	Watch   bool   `help:"Reload the tuning document when it changes."`
	Width   int    `help:"Window width override in pixels."`
	Height  int    `help:"Window height override in pixels."`
	Profile bool   `help:"Log frame statistics once per second."`
	Debug   bool   `help:"Whether to enable debug logging."`
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	kong.Parse(&CLI,
		kong.Name("kinema"),
		kong.Description("A first and third person character playground."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	cfg := config.Default()
	if CLI.Config != "" {
		loaded, err := config.Load(CLI.Config)
		if err != nil {
			log.Fatal().Err(err).Msg("configuration rejected")
		}
		cfg = loaded
	}
	cfg.Window.Width = common.Coalesce(CLI.Width, cfg.Window.Width)
	cfg.Window.Height = common.Coalesce(CLI.Height, cfg.Window.Height)
	cfg.Engine.Profile = cfg.Engine.Profile || CLI.Profile

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("playground stopped")
	}
}

func run(cfg config.Config) error {
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithSizeLimits(640, 360, 7680, 4320),
	)
	defer win.Close()

	world := physics.NewStaticWorld(physics.WithLogger(log.Logger))
	nodes, err := buildPlayground(world)
	if err != nil {
		return err
	}

	cam := camera.NewCamera(
		camera.WithAspect(common.Aspect(cfg.Window.Width, cfg.Window.Height)),
	)

	avatar := scene.NewNode("avatar",
		scene.WithBounds(cube.Box(-0.4, -0.9, -0.4, 0.4, 0.9, 0.4)),
	)

	level := scene.NewScene("playground", cam,
		scene.WithActive(true),
		scene.WithNodes(append(nodes, avatar)...),
	)

	smp := input.NewSampler(
		input.WithWindow(win),
		input.WithLogger(log.Logger),
	)

	ctl, err := character.NewController(smp, world,
		character.WithCamera(cam),
		character.WithAvatar(avatar),
		character.WithStartPosition(mgl32.Vec3{0, 0.9, 8}),
		character.WithTuning(cfg.Character.Tuning()),
		character.WithLogger(log.Logger),
	)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithWorld(world),
		engine.WithScene(0, level),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithRenderFrameLimit(cfg.Engine.RenderFrameLimit),
		engine.WithProfiling(cfg.Engine.Profile),
		engine.WithLogger(log.Logger),
	)

	retunes := make(chan character.Tuning, 1)
	if CLI.Watch && CLI.Config != "" {
		watcher, err := config.NewWatcher(CLI.Config)
		if err != nil {
			return err
		}
		defer watcher.Close()
		go reloadLoop(watcher, retunes)
	}

	eng.AddFrameCallback(func(f *engine.Frame) {
		select {
		case tuning := <-retunes:
			if err := ctl.Retune(tuning); err != nil {
				log.Warn().Err(err).Msg("retune rejected")
			}
		default:
		}

		ctl.Update(f.Delta)
		avatar.SetVisible(!ctl.FirstPerson())
	})

	// No renderer is attached. The active scenes are still culled every
	// render frame so visibility tracks the camera.
	eng.SetRenderCallback(func(dt float32) {
		for _, s := range eng.ActiveScenes() {
			s.VisibleNodes()
		}
	})

	log.Info().
		Int("width", cfg.Window.Width).
		Int("height", cfg.Window.Height).
		Msg("playground running, click the window to capture the pointer")

	eng.Run()
	return nil
}

// reloadLoop turns watcher events into validated tuning values. Documents
// that fail to load or validate are skipped, the previous tuning stays live.
func reloadLoop(watcher *config.Watcher, retunes chan character.Tuning) {
	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return
			}
			next, err := config.Load(path)
			if err != nil {
				log.Warn().Err(err).Msg("reload skipped")
				continue
			}
			select {
			case retunes <- next.Character.Tuning():
			default:
				// A queued retune is stale once a newer document lands.
				select {
				case <-retunes:
				default:
				}
				retunes <- next.Character.Tuning()
			}
			log.Info().Str("path", path).Msg("tuning reloaded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("config watch failed")
		}
	}
}

type slab struct {
	name        string
	halfExtents mgl32.Vec3
	at          mgl32.Vec3
}

// buildPlayground fills the world with the demo level and returns scene nodes
// mirroring the colliders.
//
// Parameters:
//   - world: the physics world to populate
//
// Returns:
//   - []*scene.Node: one node per collider, sharing its bounds
//   - error: a collider that failed validation
func buildPlayground(world physics.World) ([]*scene.Node, error) {
	slabs := []slab{
		{"ground", mgl32.Vec3{24, 0.5, 24}, mgl32.Vec3{0, -0.5, 0}},
		{"crate-a", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{6, 1, -4}},
		{"crate-b", mgl32.Vec3{0.75, 0.75, 0.75}, mgl32.Vec3{-5, 0.75, -7}},
		{"pillar", mgl32.Vec3{0.6, 3, 0.6}, mgl32.Vec3{-8, 3, 3}},
		{"wall", mgl32.Vec3{5, 2, 0.3}, mgl32.Vec3{0, 2, -14}},
		{"step-low", mgl32.Vec3{1.5, 0.5, 1.5}, mgl32.Vec3{6, 0.5, 6}},
		{"step-high", mgl32.Vec3{1.5, 1, 1.5}, mgl32.Vec3{9.5, 1, 6}},
		// Thin enough for one long tick to carry a fall straight through,
		// which the ground sensor's upward probe corrects.
		{"catwalk", mgl32.Vec3{1.2, 0.04, 6}, mgl32.Vec3{9.5, 3.2, -2}},
	}

	nodes := make([]*scene.Node, 0, len(slabs))
	for _, s := range slabs {
		shape := physics.BoxShape(s.halfExtents)
		if _, err := world.AddCollider(shape, s.at); err != nil {
			return nil, err
		}
		nodes = append(nodes, scene.NewNode(s.name,
			scene.WithTranslation(s.at),
			scene.WithBounds(shape.Bounds()),
		))
	}
	return nodes, nil
}
