package character

import "fmt"

// Tuning holds the gameplay constants of the character controller.
// A zero value is not usable; start from DefaultTuning and override fields.
type Tuning struct {
	// MoveSpeed is the walk speed in world units per second.
	MoveSpeed float32

	// SprintMultiplier scales MoveSpeed while a sprint key is held.
	SprintMultiplier float32

	// LookSensitivity converts normalized pointer deltas to radians.
	// A full-width pointer sweep turns LookSensitivity radians.
	LookSensitivity float32

	// Gravity is the downward acceleration in world units per second squared.
	Gravity float32

	// JumpDuration is the length of the jump arc in seconds.
	JumpDuration float32

	// JumpAmplitude is the apex height of an unscaled jump in world units.
	JumpAmplitude float32

	// EyeHeight is the head offset above the body origin in world units.
	EyeHeight float32

	// MinZoom and MaxZoom bound the camera distance behind the head.
	MinZoom float32
	MaxZoom float32

	// StartZoom is the initial camera distance, clamped into [MinZoom, MaxZoom].
	StartZoom float32

	// ZoomStep is the distance change per scroll notch.
	ZoomStep float32

	// ZoomDuration is the length of the zoom ease in seconds.
	ZoomDuration float32

	// FirstPersonZoom is the camera distance at or below which the view
	// switches to first person.
	FirstPersonZoom float32

	// BobFrequency is the head bob phase speed in radians per second.
	BobFrequency float32

	// BobAmplitude is the head bob height in world units.
	BobAmplitude float32

	// GroundSnap is the maximum distance between sole and ground that still
	// counts as standing on it.
	GroundSnap float32

	// GroundRayLength is the reach of the ground probe rays.
	GroundRayLength float32

	// AimRayLength is the reach of the aim ray used for look targets.
	AimRayLength float32
}

// DefaultTuning returns the tuning used by the playground demo. The avatar it
// is sized for is 1.8 units tall and 0.8 units wide.
//
// Returns:
//   - Tuning: the default tuning values
func DefaultTuning() Tuning {
	return Tuning{
		MoveSpeed:        10,
		SprintMultiplier: 5,
		LookSensitivity:  2.0,
		Gravity:          9.81,
		JumpDuration:     0.8,
		JumpAmplitude:    2.0,
		EyeHeight:        0.72,
		MinZoom:          0,
		MaxZoom:          8,
		StartZoom:        4,
		ZoomStep:         0.5,
		ZoomDuration:     0.5,
		FirstPersonZoom:  0.8,
		BobFrequency:     12,
		BobAmplitude:     0.05,
		GroundSnap:       0.02,
		GroundRayLength:  50,
		AimRayLength:     100,
	}
}

// Validate checks that the tuning values are usable.
//
// Returns:
//   - error: the first violated constraint, or nil if the tuning is valid
func (t Tuning) Validate() error {
	if t.MoveSpeed <= 0 {
		return fmt.Errorf("move speed must be positive, got %v", t.MoveSpeed)
	}
	if t.SprintMultiplier < 1 {
		return fmt.Errorf("sprint multiplier must be at least 1, got %v", t.SprintMultiplier)
	}
	if t.LookSensitivity <= 0 {
		return fmt.Errorf("look sensitivity must be positive, got %v", t.LookSensitivity)
	}
	if t.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %v", t.Gravity)
	}
	if t.JumpDuration <= 0 {
		return fmt.Errorf("jump duration must be positive, got %v", t.JumpDuration)
	}
	if t.JumpAmplitude <= 0 {
		return fmt.Errorf("jump amplitude must be positive, got %v", t.JumpAmplitude)
	}
	if t.EyeHeight <= 0 {
		return fmt.Errorf("eye height must be positive, got %v", t.EyeHeight)
	}
	if t.MinZoom < 0 {
		return fmt.Errorf("min zoom must not be negative, got %v", t.MinZoom)
	}
	if t.MaxZoom <= t.MinZoom {
		return fmt.Errorf("max zoom must exceed min zoom, got [%v, %v]", t.MinZoom, t.MaxZoom)
	}
	if t.ZoomStep <= 0 {
		return fmt.Errorf("zoom step must be positive, got %v", t.ZoomStep)
	}
	if t.ZoomDuration <= 0 {
		return fmt.Errorf("zoom duration must be positive, got %v", t.ZoomDuration)
	}
	if t.FirstPersonZoom < 0 {
		return fmt.Errorf("first person zoom must not be negative, got %v", t.FirstPersonZoom)
	}
	if t.BobFrequency < 0 {
		return fmt.Errorf("bob frequency must not be negative, got %v", t.BobFrequency)
	}
	if t.BobAmplitude < 0 {
		return fmt.Errorf("bob amplitude must not be negative, got %v", t.BobAmplitude)
	}
	if t.GroundSnap < 0 {
		return fmt.Errorf("ground snap must not be negative, got %v", t.GroundSnap)
	}
	if t.GroundRayLength <= 0 {
		return fmt.Errorf("ground ray length must be positive, got %v", t.GroundRayLength)
	}
	if t.AimRayLength <= 0 {
		return fmt.Errorf("aim ray length must be positive, got %v", t.AimRayLength)
	}
	return nil
}
