package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// zoomAnimator eases the camera distance toward a scroll-driven target.
// Retargeting mid-ease restarts the tween from the current distance, so the
// camera never snaps.
type zoomAnimator struct {
	min      float32
	max      float32
	duration float32

	current float32
	target  float32
	tween   *gween.Tween
}

func newZoomAnimator(min, max, start, duration float32) *zoomAnimator {
	start = mgl32.Clamp(start, min, max)
	return &zoomAnimator{
		min:      min,
		max:      max,
		duration: duration,
		current:  start,
		target:   start,
	}
}

// SetTarget starts easing toward a new distance, clamped into range.
func (z *zoomAnimator) SetTarget(target float32) {
	target = mgl32.Clamp(target, z.min, z.max)
	if target == z.target {
		return
	}
	z.target = target
	z.tween = gween.New(z.current, target, z.duration, ease.OutExpo)
}

// Advance moves the ease forward by dt and returns the current distance.
// The exponential ease overshoots its end value by a fraction of a percent,
// so the result is clamped and snapped exactly onto the target when done.
func (z *zoomAnimator) Advance(dt float32) float32 {
	if z.tween == nil {
		return z.current
	}
	value, finished := z.tween.Update(dt)
	z.current = mgl32.Clamp(value, z.min, z.max)
	if finished {
		z.current = z.target
		z.tween = nil
	}
	return z.current
}

// Distance returns the current eased distance.
func (z *zoomAnimator) Distance() float32 {
	return z.current
}

// Target returns the distance being eased toward.
func (z *zoomAnimator) Target() float32 {
	return z.target
}

func (z *zoomAnimator) retune(min, max, duration float32) {
	z.min = min
	z.max = max
	z.duration = duration
	z.current = mgl32.Clamp(z.current, min, max)
	prev := z.target
	z.target = mgl32.Clamp(z.target, min, max)
	if z.tween != nil && z.target != prev {
		z.tween = gween.New(z.current, z.target, z.duration, ease.OutExpo)
	}
}
