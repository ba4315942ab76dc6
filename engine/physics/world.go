package physics

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// RayFilter decides whether a collider participates in a ray cast.
// Returning false skips the collider.
type RayFilter func(c *Collider) bool

// RayHit describes the nearest intersection found by CastRay.
type RayHit struct {
	// Collider is the collider the ray struck.
	Collider *Collider

	// Distance is the distance from the ray origin to the hit point along the
	// (normalized) ray direction. Zero for solid casts that start inside a collider.
	Distance float32

	// Point is the world-space hit position.
	Point mgl32.Vec3

	// Normal is the outward face normal at the hit point. For hits at distance
	// zero the normal opposes the ray direction.
	Normal mgl32.Vec3
}

// World is the narrow physics contract the engine and controllers consume.
// Implementations own collider storage and answer ray queries; they never move
// bodies on their own, kinematic bodies are repositioned by their owners.
type World interface {
	// Step advances the world by dt seconds. The engine calls this once per
	// frame before any frame callbacks run.
	//
	// Parameters:
	//   - dt: elapsed time since the previous step in seconds
	Step(dt float32)

	// CastRay finds the nearest collider intersected by the ray. The direction
	// is normalized internally; a zero direction yields no hit.
	//
	// Parameters:
	//   - origin: world-space ray origin
	//   - dir: ray direction (any length, zero yields nil)
	//   - maxDist: maximum hit distance; hits beyond it are discarded
	//   - solid: when true, a ray starting inside a collider hits at distance 0;
	//     when false, colliders containing the origin are skipped
	//   - filter: optional; colliders for which it returns false are skipped
	//   - exclude: colliders never considered, regardless of filter
	//
	// Returns:
	//   - *RayHit: the nearest hit, or nil when nothing is struck
	CastRay(origin, dir mgl32.Vec3, maxDist float32, solid bool, filter RayFilter, exclude ...*Collider) *RayHit

	// AddCollider validates the shape and registers a static collider at the
	// given translation.
	//
	// Parameters:
	//   - shape: the collider geometry
	//   - translation: world-space collider origin
	//
	// Returns:
	//   - *Collider: the registered collider
	//   - error: the shape's validation error, if any
	AddCollider(shape Shape, translation mgl32.Vec3) (*Collider, error)

	// RemoveCollider unregisters a collider. Unknown colliders are ignored.
	RemoveCollider(c *Collider)

	// CreateKinematicBody registers a collider for a body whose position is
	// driven externally (a character, a moving platform).
	//
	// Parameters:
	//   - shape: the body's collider geometry
	//   - translation: initial world-space body origin
	//
	// Returns:
	//   - *Body: the kinematic body wrapping the new collider
	//   - error: the shape's validation error, if any
	CreateKinematicBody(shape Shape, translation mgl32.Vec3) (*Body, error)

	// SetColliderTranslation moves a collider to a new world-space origin and
	// refreshes its cached bounds.
	SetColliderTranslation(c *Collider, translation mgl32.Vec3)
}

// Collider is registered collision geometry: a shape plus a world translation.
type Collider struct {
	id          uint64
	shape       Shape
	translation mgl32.Vec3
	bounds      cube.BBox
}

// NewCollider builds a collider directly. World implementations and test
// doubles use this; application code goes through World.AddCollider.
func NewCollider(id uint64, shape Shape, translation mgl32.Vec3) *Collider {
	return &Collider{
		id:          id,
		shape:       shape,
		translation: translation,
		bounds:      shape.Bounds().Translate(translation),
	}
}

// ID returns the collider's world-assigned identifier.
func (c *Collider) ID() uint64 {
	return c.id
}

// Shape returns the collider's geometry description.
func (c *Collider) Shape() Shape {
	return c.shape
}

// Translation returns the collider's world-space origin.
func (c *Collider) Translation() mgl32.Vec3 {
	return c.translation
}

// Bounds returns the collider's world-space axis-aligned bounds.
func (c *Collider) Bounds() cube.BBox {
	return c.bounds
}

func (c *Collider) setTranslation(translation mgl32.Vec3) {
	c.translation = translation
	c.bounds = c.shape.Bounds().Translate(translation)
}

// Body is a kinematic body: a collider whose translation is pushed by its
// owner each frame rather than integrated by the world.
type Body struct {
	world    World
	collider *Collider
}

// NewKinematicBody wraps a collider already registered with the given world.
func NewKinematicBody(w World, c *Collider) *Body {
	return &Body{world: w, collider: c}
}

// Collider returns the body's collider, typically used to exclude the body
// from its own ray casts.
func (b *Body) Collider() *Collider {
	return b.collider
}

// Translation returns the body's world-space origin.
func (b *Body) Translation() mgl32.Vec3 {
	return b.collider.Translation()
}

// SetTranslation moves the body and its collider to a new world-space origin.
func (b *Body) SetTranslation(translation mgl32.Vec3) {
	b.world.SetColliderTranslation(b.collider, translation)
}
