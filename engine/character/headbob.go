package character

import "github.com/chewxy/math32"

// headBobAnimator produces the vertical head offset while walking. The
// offset follows a sine of the accumulated phase. When movement stops the
// bob keeps running to the end of the current half-cycle so the head
// settles at rest height instead of freezing mid-bob.
type headBobAnimator struct {
	frequency float32
	amplitude float32

	phase  float32
	active bool
}

func newHeadBobAnimator(frequency, amplitude float32) *headBobAnimator {
	return &headBobAnimator{frequency: frequency, amplitude: amplitude}
}

// Advance moves the bob phase forward by dt and returns the head offset.
// Standing still with no bob in flight returns zero without starting one.
func (b *headBobAnimator) Advance(dt float32, moving bool) float32 {
	if moving {
		b.active = true
	}
	if !b.active {
		return 0
	}

	prev := b.phase
	b.phase += dt * b.frequency

	if !moving {
		// Settle once the phase crosses the next half-cycle boundary,
		// where the sine returns to zero.
		boundary := math32.Ceil(prev/math32.Pi) * math32.Pi
		if b.phase >= boundary {
			b.phase = 0
			b.active = false
			return 0
		}
	} else if b.phase >= 2*math32.Pi {
		b.phase = math32.Mod(b.phase, 2*math32.Pi)
	}

	return math32.Sin(b.phase) * b.amplitude
}

// Active reports whether a bob cycle is in flight.
func (b *headBobAnimator) Active() bool {
	return b.active
}

func (b *headBobAnimator) retune(frequency, amplitude float32) {
	b.frequency = frequency
	b.amplitude = amplitude
}
