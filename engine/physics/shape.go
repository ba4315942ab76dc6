package physics

import (
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind identifies the collider geometry a Shape describes.
type ShapeKind int

const (
	// ShapeKindBox is an axis-aligned box described by HalfExtents.
	ShapeKindBox ShapeKind = iota
	// ShapeKindCapsule is an upright capsule described by HalfHeight and Radius.
	// HalfHeight measures the cylindrical section only; the full capsule spans
	// 2*(HalfHeight+Radius) along Y.
	ShapeKindCapsule
	// ShapeKindSphere is a sphere described by Radius.
	ShapeKindSphere
)

// String returns the shape kind's name for diagnostics.
func (k ShapeKind) String() string {
	switch k {
	case ShapeKindBox:
		return "box"
	case ShapeKindCapsule:
		return "capsule"
	case ShapeKindSphere:
		return "sphere"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Shape is a tagged collider description. Only the fields belonging to Kind
// are read; Validate reports missing or out-of-range parameters before a
// collider is built from the shape.
type Shape struct {
	Kind ShapeKind

	// HalfExtents are the box half sizes along each axis (ShapeKindBox).
	HalfExtents mgl32.Vec3

	// Radius applies to capsules and spheres.
	Radius float32

	// HalfHeight is the capsule's cylindrical half length (ShapeKindCapsule).
	HalfHeight float32
}

// BoxShape returns a box shape with the given half extents.
func BoxShape(halfExtents mgl32.Vec3) Shape {
	return Shape{Kind: ShapeKindBox, HalfExtents: halfExtents}
}

// CapsuleShape returns an upright capsule shape.
func CapsuleShape(halfHeight, radius float32) Shape {
	return Shape{Kind: ShapeKindCapsule, HalfHeight: halfHeight, Radius: radius}
}

// SphereShape returns a sphere shape.
func SphereShape(radius float32) Shape {
	return Shape{Kind: ShapeKindSphere, Radius: radius}
}

// Validate checks that the parameters required by Kind are present and positive.
//
// Returns:
//   - error: a descriptive error when the shape cannot produce a collider, nil otherwise
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapeKindBox:
		if s.HalfExtents.X() <= 0 || s.HalfExtents.Y() <= 0 || s.HalfExtents.Z() <= 0 {
			return fmt.Errorf("physics: box shape requires positive half extents, got %v", s.HalfExtents)
		}
	case ShapeKindCapsule:
		if s.Radius <= 0 {
			return fmt.Errorf("physics: capsule shape requires a positive radius, got %v", s.Radius)
		}
		if s.HalfHeight < 0 {
			return fmt.Errorf("physics: capsule shape requires a non-negative half height, got %v", s.HalfHeight)
		}
	case ShapeKindSphere:
		if s.Radius <= 0 {
			return fmt.Errorf("physics: sphere shape requires a positive radius, got %v", s.Radius)
		}
	default:
		return fmt.Errorf("physics: unknown shape kind %d", int(s.Kind))
	}
	return nil
}

// Bounds returns the shape's axis-aligned bounds centered on the origin.
func (s Shape) Bounds() cube.BBox {
	switch s.Kind {
	case ShapeKindBox:
		return cube.Box(
			-s.HalfExtents.X(), -s.HalfExtents.Y(), -s.HalfExtents.Z(),
			s.HalfExtents.X(), s.HalfExtents.Y(), s.HalfExtents.Z(),
		)
	case ShapeKindCapsule:
		h := s.HalfHeight + s.Radius
		return cube.Box(-s.Radius, -h, -s.Radius, s.Radius, h, s.Radius)
	case ShapeKindSphere:
		return cube.Box(-s.Radius, -s.Radius, -s.Radius, s.Radius, s.Radius, s.Radius)
	default:
		return cube.Box(0, 0, 0, 0, 0, 0)
	}
}
