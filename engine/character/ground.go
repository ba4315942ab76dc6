package character

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dmorneau/kinema-go/engine/physics"
)

// groundResult is one frame of ground sensing.
type groundResult struct {
	// Grounded is true when the sole is within snapping range of the
	// ground, or when a tunnel correction fired.
	Grounded bool

	// GroundHeight is the body origin height that puts the sole exactly on
	// the ground. Only meaningful when Grounded is true.
	GroundHeight float32

	// SignedDistance is the gap between sole and ground. Negative means the
	// sole is below the ground surface.
	SignedDistance float32

	// Corrected is true when the body had fallen through the ground and was
	// recovered to the last known ground height.
	Corrected bool
}

// groundSensor finds the ground under the body with a downward ray and
// recovers from tunneling with an upward one. A body that moved through a
// thin floor in a single frame sees no ground below but does see the floor
// above, which is the tunneling signature.
type groundSensor struct {
	world  physics.World
	avatar *physics.Collider

	// footOffset is the distance from the body origin to the sole.
	footOffset float32
	snap       float32
	rayLength  float32

	lastGroundHeight float32
	haveGround       bool
}

func newGroundSensor(world physics.World, avatar *physics.Collider, footOffset, snap, rayLength float32) *groundSensor {
	return &groundSensor{
		world:      world,
		avatar:     avatar,
		footOffset: footOffset,
		snap:       snap,
		rayLength:  rayLength,
	}
}

// Probe senses the ground below the body origin. Rays ignore the avatar's
// own collider. The downward ray is solid so an origin already inside
// geometry reads as ground at zero distance and the body climbs out over
// the following frames.
func (g *groundSensor) Probe(origin mgl32.Vec3) groundResult {
	down := g.world.CastRay(origin, mgl32.Vec3{0, -1, 0}, g.rayLength, true, nil, g.avatar)
	if down != nil {
		signed := down.Distance - g.footOffset
		res := groundResult{
			Grounded:       signed <= g.snap,
			GroundHeight:   down.Point.Y() + g.footOffset,
			SignedDistance: signed,
		}
		if res.Grounded {
			g.lastGroundHeight = res.GroundHeight
			g.haveGround = true
		}
		return res
	}

	// Nothing below. Geometry above the origin means the body tunneled
	// through the floor, so put it back on the last known ground.
	if g.haveGround {
		up := g.world.CastRay(origin, mgl32.Vec3{0, 1, 0}, g.rayLength, false, nil, g.avatar)
		if up != nil {
			return groundResult{
				Grounded:       true,
				GroundHeight:   g.lastGroundHeight,
				SignedDistance: origin.Y() - g.lastGroundHeight,
				Corrected:      true,
			}
		}
	}

	return groundResult{SignedDistance: g.rayLength - g.footOffset}
}

// Invalidate forgets the last known ground. Called on teleports so a stale
// height can never be used for a tunnel correction.
func (g *groundSensor) Invalidate() {
	g.haveGround = false
}

func (g *groundSensor) retune(snap, rayLength float32) {
	g.snap = snap
	g.rayLength = rayLength
}
