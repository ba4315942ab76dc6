package character

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// lookRotation integrates pointer motion into a yaw and pitch pair.
// Yaw zero faces negative Z; positive yaw turns counterclockwise seen from
// above. Pitch is positive looking up and clamped to straight up and down.
type lookRotation struct {
	yaw   float32
	pitch float32
}

// Apply integrates one frame of normalized pointer motion. Pointer right
// turns right, pointer down looks down.
func (r *lookRotation) Apply(dx, dy, sensitivity float32) {
	r.yaw = math32.Mod(r.yaw-dx*sensitivity, 2*math32.Pi)
	r.pitch = mgl32.Clamp(r.pitch-dy*sensitivity, -math32.Pi/2, math32.Pi/2)
}

// Forward returns the unit view direction.
func (r *lookRotation) Forward() mgl32.Vec3 {
	cp := math32.Cos(r.pitch)
	return mgl32.Vec3{
		-cp * math32.Sin(r.yaw),
		math32.Sin(r.pitch),
		-cp * math32.Cos(r.yaw),
	}
}

// FlatForward returns the view direction projected onto the ground plane.
// Stays unit length at any pitch, including straight up or down.
func (r *lookRotation) FlatForward() mgl32.Vec3 {
	return mgl32.Vec3{-math32.Sin(r.yaw), 0, -math32.Cos(r.yaw)}
}

// Right returns the unit strafe direction on the ground plane.
func (r *lookRotation) Right() mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(r.yaw), 0, -math32.Sin(r.yaw)}
}

// Orientation returns the full look rotation, yaw about the world up axis
// composed with pitch about the local right axis.
func (r *lookRotation) Orientation() mgl32.Quat {
	yaw := mgl32.QuatRotate(r.yaw, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(r.pitch, mgl32.Vec3{1, 0, 0})
	return yaw.Mul(pitch)
}

// YawOrientation returns the heading alone. The body follows this so the
// avatar never tilts with the view.
func (r *lookRotation) YawOrientation() mgl32.Quat {
	return mgl32.QuatRotate(r.yaw, mgl32.Vec3{0, 1, 0})
}
