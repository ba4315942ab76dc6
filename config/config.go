package config

import (
	"fmt"
	"os"

	"github.com/dmorneau/kinema-go/engine/character"
	"gopkg.in/yaml.v3"
)

// WindowConfig holds the desktop window settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// EngineConfig holds the simulation and render loop settings.
type EngineConfig struct {
	// TickRate is the simulation frequency in steps per second.
	TickRate float64 `yaml:"tick_rate"`

	// RenderFrameLimit caps the render loop in frames per second.
	// Zero leaves the render loop uncapped.
	RenderFrameLimit float64 `yaml:"render_frame_limit"`

	// Profile enables periodic frame statistics logging.
	Profile bool `yaml:"profile"`
}

// CharacterConfig mirrors character.Tuning with yaml tags so the controller
// can be tuned from a document instead of source code.
type CharacterConfig struct {
	MoveSpeed        float32 `yaml:"move_speed"`
	SprintMultiplier float32 `yaml:"sprint_multiplier"`
	LookSensitivity  float32 `yaml:"look_sensitivity"`
	Gravity          float32 `yaml:"gravity"`
	JumpDuration     float32 `yaml:"jump_duration"`
	JumpAmplitude    float32 `yaml:"jump_amplitude"`
	EyeHeight        float32 `yaml:"eye_height"`
	MinZoom          float32 `yaml:"min_zoom"`
	MaxZoom          float32 `yaml:"max_zoom"`
	StartZoom        float32 `yaml:"start_zoom"`
	ZoomStep         float32 `yaml:"zoom_step"`
	ZoomDuration     float32 `yaml:"zoom_duration"`
	FirstPersonZoom  float32 `yaml:"first_person_zoom"`
	BobFrequency     float32 `yaml:"bob_frequency"`
	BobAmplitude     float32 `yaml:"bob_amplitude"`
	GroundSnap       float32 `yaml:"ground_snap"`
	GroundRayLength  float32 `yaml:"ground_ray_length"`
	AimRayLength     float32 `yaml:"aim_ray_length"`
}

// Config is the root of the tuning document.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Engine    EngineConfig    `yaml:"engine"`
	Character CharacterConfig `yaml:"character"`
}

// Default returns the configuration the playground ships with. The character
// section matches character.DefaultTuning.
//
// Returns:
//   - Config: the default configuration values
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "kinema",
			Width:  1280,
			Height: 720,
		},
		Engine: EngineConfig{
			TickRate:         60,
			RenderFrameLimit: 0,
			Profile:          false,
		},
		Character: FromTuning(character.DefaultTuning()),
	}
}

// Load reads a yaml document and overlays it onto the defaults. Keys absent
// from the document keep their default values, so a file only needs to name
// the settings it changes.
//
// Parameters:
//   - path: the yaml file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: a read, parse, or validation failure
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: validate %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
//
// Returns:
//   - error: the first violated constraint, or nil if the configuration is valid
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %v", c.Engine.TickRate)
	}
	if c.Engine.RenderFrameLimit < 0 {
		return fmt.Errorf("render frame limit must not be negative, got %v", c.Engine.RenderFrameLimit)
	}
	if err := c.Character.Tuning().Validate(); err != nil {
		return err
	}
	return nil
}

// Tuning converts the character section into the controller's tuning type.
//
// Returns:
//   - character.Tuning: the tuning values carried by this section
func (c CharacterConfig) Tuning() character.Tuning {
	return character.Tuning{
		MoveSpeed:        c.MoveSpeed,
		SprintMultiplier: c.SprintMultiplier,
		LookSensitivity:  c.LookSensitivity,
		Gravity:          c.Gravity,
		JumpDuration:     c.JumpDuration,
		JumpAmplitude:    c.JumpAmplitude,
		EyeHeight:        c.EyeHeight,
		MinZoom:          c.MinZoom,
		MaxZoom:          c.MaxZoom,
		StartZoom:        c.StartZoom,
		ZoomStep:         c.ZoomStep,
		ZoomDuration:     c.ZoomDuration,
		FirstPersonZoom:  c.FirstPersonZoom,
		BobFrequency:     c.BobFrequency,
		BobAmplitude:     c.BobAmplitude,
		GroundSnap:       c.GroundSnap,
		GroundRayLength:  c.GroundRayLength,
		AimRayLength:     c.AimRayLength,
	}
}

// FromTuning converts controller tuning values into a character section.
//
// Parameters:
//   - t: the tuning values to carry
//
// Returns:
//   - CharacterConfig: the equivalent configuration section
func FromTuning(t character.Tuning) CharacterConfig {
	return CharacterConfig{
		MoveSpeed:        t.MoveSpeed,
		SprintMultiplier: t.SprintMultiplier,
		LookSensitivity:  t.LookSensitivity,
		Gravity:          t.Gravity,
		JumpDuration:     t.JumpDuration,
		JumpAmplitude:    t.JumpAmplitude,
		EyeHeight:        t.EyeHeight,
		MinZoom:          t.MinZoom,
		MaxZoom:          t.MaxZoom,
		StartZoom:        t.StartZoom,
		ZoomStep:         t.ZoomStep,
		ZoomDuration:     t.ZoomDuration,
		FirstPersonZoom:  t.FirstPersonZoom,
		BobFrequency:     t.BobFrequency,
		BobAmplitude:     t.BobAmplitude,
		GroundSnap:       t.GroundSnap,
		GroundRayLength:  t.GroundRayLength,
		AimRayLength:     t.AimRayLength,
	}
}
