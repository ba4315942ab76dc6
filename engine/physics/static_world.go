package physics

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// staticWorld is the reference World implementation: an insertion-ordered
// registry of colliders answering ray queries against their bounds. It has no
// integration of its own; kinematic bodies are moved by their owners.
type staticWorld struct {
	mu        sync.RWMutex
	colliders *orderedmap.OrderedMap[uint64, *Collider]
	nextID    uint64
	tick      uint64
	log       zerolog.Logger
}

var _ World = &staticWorld{}

// StaticWorldOption is a functional option for configuring a static world.
type StaticWorldOption func(*staticWorld)

// WithLogger sets the logger used for collider lifecycle diagnostics.
// Defaults to a disabled logger.
//
// Parameters:
//   - log: the logger to adopt
//
// Returns:
//   - StaticWorldOption: option function to apply
func WithLogger(log zerolog.Logger) StaticWorldOption {
	return func(w *staticWorld) {
		w.log = log.With().Str("component", "physics").Logger()
	}
}

// NewStaticWorld creates an empty static world.
//
// Parameters:
//   - options: functional options for world configuration
//
// Returns:
//   - World: the newly created world
func NewStaticWorld(options ...StaticWorldOption) World {
	w := &staticWorld{
		colliders: orderedmap.NewOrderedMap[uint64, *Collider](),
		nextID:    1,
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Step advances the step counter. Static geometry has nothing to integrate,
// but hosts keep a uniform step cadence across world implementations.
func (w *staticWorld) Step(dt float32) {
	w.mu.Lock()
	w.tick++
	w.mu.Unlock()
}

func (w *staticWorld) AddCollider(shape Shape, translation mgl32.Vec3) (*Collider, error) {
	if err := shape.Validate(); err != nil {
		w.log.Error().Err(err).Str("kind", shape.Kind.String()).Msg("collider rejected")
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	c := NewCollider(w.nextID, shape, translation)
	w.nextID++
	w.colliders.Set(c.id, c)
	w.log.Debug().Uint64("id", c.id).Str("kind", shape.Kind.String()).Msg("collider added")
	return c, nil
}

func (w *staticWorld) RemoveCollider(c *Collider) {
	if c == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := w.colliders.Get(c.id); ok && existing == c {
		w.colliders.Delete(c.id)
	}
}

func (w *staticWorld) CreateKinematicBody(shape Shape, translation mgl32.Vec3) (*Body, error) {
	c, err := w.AddCollider(shape, translation)
	if err != nil {
		return nil, err
	}
	return NewKinematicBody(w, c), nil
}

func (w *staticWorld) SetColliderTranslation(c *Collider, translation mgl32.Vec3) {
	if c == nil {
		return
	}

	w.mu.Lock()
	c.setTranslation(translation)
	w.mu.Unlock()
}

func (w *staticWorld) CastRay(origin, dir mgl32.Vec3, maxDist float32, solid bool, filter RayFilter, exclude ...*Collider) *RayHit {
	if maxDist <= 0 {
		return nil
	}
	length := dir.Len()
	if length == 0 {
		return nil
	}
	dir = dir.Mul(1 / length)

	w.mu.RLock()
	defer w.mu.RUnlock()

	var best *RayHit
	for el := w.colliders.Front(); el != nil; el = el.Next() {
		c := el.Value
		if rayExcludes(c, exclude) {
			continue
		}
		if filter != nil && !filter(c) {
			continue
		}

		enter, exit, axis, sign, ok := rayBoxIntersect(origin, dir, c.bounds.Min(), c.bounds.Max())
		if !ok || exit < 0 {
			continue
		}
		if enter < 0 {
			// The origin sits inside this collider.
			if !solid {
				continue
			}
			return &RayHit{Collider: c, Distance: 0, Point: origin, Normal: dir.Mul(-1)}
		}
		if enter > maxDist {
			continue
		}
		if best == nil || enter < best.Distance {
			var normal mgl32.Vec3
			if axis >= 0 {
				normal[axis] = sign
			}
			best = &RayHit{
				Collider: c,
				Distance: enter,
				Point:    origin.Add(dir.Mul(enter)),
				Normal:   normal,
			}
		}
	}
	return best
}

func rayExcludes(c *Collider, exclude []*Collider) bool {
	for _, e := range exclude {
		if e == c {
			return true
		}
	}
	return false
}

// rayBoxIntersect runs the slab test for a normalized ray against an AABB.
// It reports the entry and exit distances, the axis and face sign through
// which the ray enters (-1 low face, +1 high face), and whether the ray
// intersects the box at all. An entry distance below zero with a positive
// exit distance means the origin is inside the box.
func rayBoxIntersect(origin, dir, min, max mgl32.Vec3) (enter, exit float32, axis int, sign float32, ok bool) {
	enter = math32.Inf(-1)
	exit = math32.Inf(1)
	axis = -1

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < min[i] || origin[i] > max[i] {
				return 0, 0, -1, 0, false
			}
			continue
		}

		t1 := (min[i] - origin[i]) / dir[i]
		t2 := (max[i] - origin[i]) / dir[i]
		n := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = 1
		}
		if t1 > enter {
			enter = t1
			axis = i
			sign = n
		}
		if t2 < exit {
			exit = t2
		}
		if enter > exit {
			return 0, 0, -1, 0, false
		}
	}
	return enter, exit, axis, sign, true
}
