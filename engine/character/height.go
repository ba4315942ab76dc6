package character

import (
	"github.com/chewxy/math32"
	"github.com/tanema/gween/ease"
)

// heightMotion produces per-frame vertical position deltas. Exactly one of
// two regimes is active at a time: a fixed-duration jump arc, or gravity
// fall. Deltas telescope, so integrating a full jump arc returns the body
// to its takeoff height and fall speed depends only on airborne time, not
// on frame rate.
type heightMotion struct {
	gravity       float32
	jumpDuration  float32
	jumpAmplitude float32

	fallTime     float32
	jumpActive   bool
	jumpTime     float32
	jumpStrength float32
}

func newHeightMotion(gravity, jumpDuration, jumpAmplitude float32) *heightMotion {
	return &heightMotion{
		gravity:       gravity,
		jumpDuration:  jumpDuration,
		jumpAmplitude: jumpAmplitude,
	}
}

// Advance moves the active regime forward by dt and returns the vertical
// delta for this frame. When the jump arc runs out mid-frame the remainder
// of the arc is emitted and gravity resumes on the next frame.
func (m *heightMotion) Advance(dt float32) float32 {
	if m.jumpActive {
		t0 := m.jumpTime
		m.jumpTime += dt
		if m.jumpTime >= m.jumpDuration {
			delta := m.arc(m.jumpDuration) - m.arc(t0)
			m.jumpActive = false
			m.jumpTime = 0
			m.fallTime = 0
			return delta
		}
		return m.arc(m.jumpTime) - m.arc(t0)
	}

	t0 := m.fallTime
	m.fallTime += dt
	return -0.5 * m.gravity * (m.fallTime*m.fallTime - t0*t0)
}

// StartJump begins a jump arc scaled by strength. Ignored while an arc is
// already running.
func (m *heightMotion) StartJump(strength float32) {
	if m.jumpActive {
		return
	}
	m.jumpActive = true
	m.jumpTime = 0
	m.jumpStrength = strength
	m.fallTime = 0
}

// Jumping reports whether a jump arc is running.
func (m *heightMotion) Jumping() bool {
	return m.jumpActive
}

// ResetFall clears accumulated fall time. Called every grounded frame so
// leaving the ground always starts a fall from rest.
func (m *heightMotion) ResetFall() {
	m.fallTime = 0
}

// Reset cancels any jump and clears fall time.
func (m *heightMotion) Reset() {
	m.jumpActive = false
	m.jumpTime = 0
	m.fallTime = 0
}

func (m *heightMotion) retune(gravity, jumpDuration, jumpAmplitude float32) {
	m.gravity = gravity
	m.jumpDuration = jumpDuration
	m.jumpAmplitude = jumpAmplitude
}

// arc returns the jump height above the takeoff point at arc time t. The
// eased half-sine rises sharply to an early apex and settles back to zero
// at the end of the arc.
func (m *heightMotion) arc(t float32) float32 {
	x := t / m.jumpDuration
	eased := ease.OutCirc(x, 0, 1, 1)
	return math32.Sin(eased*math32.Pi) * m.jumpAmplitude * m.jumpStrength
}
