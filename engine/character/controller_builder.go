package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"github.com/dmorneau/kinema-go/engine/camera"
	"github.com/dmorneau/kinema-go/engine/physics"
	"github.com/dmorneau/kinema-go/engine/scene"
)

// ControllerBuilderOption is a functional option for configuring a
// Controller. Use the With* functions to create options.
type ControllerBuilderOption func(c *controller)

// WithShape sets the collision shape for the character's kinematic body.
// Defaults to a capsule with half height 0.5 and radius 0.4.
//
// Parameters:
//   - shape: the collision shape
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithShape(shape physics.Shape) ControllerBuilderOption {
	return func(c *controller) {
		c.shape = shape
	}
}

// WithStartPosition sets the body origin the character spawns at.
// Defaults to the world origin.
//
// Parameters:
//   - position: the spawn position
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithStartPosition(position mgl32.Vec3) ControllerBuilderOption {
	return func(c *controller) {
		c.start = position
	}
}

// WithCamera attaches a camera that follows the character's view. The
// controller repositions it every update.
//
// Parameters:
//   - cam: the camera to drive
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithCamera(cam camera.Camera) ControllerBuilderOption {
	return func(c *controller) {
		c.cam = cam
	}
}

// WithAvatar attaches a scene node (or any positionable) that mirrors the
// body's position and heading, for third person views.
//
// Parameters:
//   - avatar: the node to drive
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithAvatar(avatar scene.Positionable) ControllerBuilderOption {
	return func(c *controller) {
		c.avatar = avatar
	}
}

// WithTuning replaces the default tuning values.
//
// Parameters:
//   - tuning: the tuning to apply
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithTuning(tuning Tuning) ControllerBuilderOption {
	return func(c *controller) {
		c.tuning = tuning
	}
}

// WithLogger sets the logger for controller events. Defaults to a no-op
// logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithLogger(log zerolog.Logger) ControllerBuilderOption {
	return func(c *controller) {
		c.log = log.With().Str("component", "character").Logger()
	}
}
