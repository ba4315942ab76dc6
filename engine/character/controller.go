package character

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"github.com/dmorneau/kinema-go/common"
	"github.com/dmorneau/kinema-go/engine/camera"
	"github.com/dmorneau/kinema-go/engine/input"
	"github.com/dmorneau/kinema-go/engine/physics"
	"github.com/dmorneau/kinema-go/engine/scene"
)

// Controller drives a player character from sampled input. Each Update runs
// one fixed order of phases: look, zoom, walk, jump, vertical motion, ground
// sensing, and pose sync. The controller owns a kinematic body in the physics
// world and optionally mirrors its pose onto a camera and an avatar node.
// Thread-safe for concurrent access.
type Controller interface {
	// Update advances the character by one frame.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous update
	Update(dt float32)

	// Position returns the body origin in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the body origin
	Position() mgl32.Vec3

	// Orientation returns the full look rotation, yaw composed with pitch.
	//
	// Returns:
	//   - mgl32.Quat: the look orientation
	Orientation() mgl32.Quat

	// Yaw returns the heading in radians. Zero faces negative Z.
	//
	// Returns:
	//   - float32: the yaw angle
	Yaw() float32

	// Pitch returns the view elevation in radians, positive looking up.
	//
	// Returns:
	//   - float32: the pitch angle
	Pitch() float32

	// Grounded reports whether the last ground probe found support under
	// the character.
	//
	// Returns:
	//   - bool: true when standing on ground
	Grounded() bool

	// Jumping reports whether a jump arc is in flight.
	//
	// Returns:
	//   - bool: true while jumping
	Jumping() bool

	// ZoomDistance returns the current eased camera distance behind the
	// head. Zero means fully zoomed in.
	//
	// Returns:
	//   - float32: the camera distance
	ZoomDistance() float32

	// FirstPerson reports whether the camera distance is within the
	// first-person threshold, placing the camera at the head.
	//
	// Returns:
	//   - bool: true in first person
	FirstPerson() bool

	// LookTarget casts a ray from the camera along the view direction and
	// returns the first world hit, ignoring the character's own collider.
	//
	// Returns:
	//   - mgl32.Vec3: the hit point in world space
	//   - bool: false when nothing is in range
	LookTarget() (mgl32.Vec3, bool)

	// SetPosition teleports the body origin. Fall state and the ground
	// history are discarded so the character settles fresh at the new spot.
	//
	// Parameters:
	//   - position: the new body origin
	SetPosition(position mgl32.Vec3)

	// Tuning returns the active tuning values.
	//
	// Returns:
	//   - Tuning: the current tuning
	Tuning() Tuning

	// Retune swaps the tuning at runtime. The character keeps its position,
	// look angles, and zoom distance.
	//
	// Parameters:
	//   - tuning: the replacement values
	//
	// Returns:
	//   - error: error if the tuning fails validation
	Retune(tuning Tuning) error
}

type controller struct {
	mu *sync.Mutex

	smp   input.Sampler
	world physics.World
	body  *physics.Body

	cam    camera.Camera
	avatar scene.Positionable

	tuning Tuning
	shape  physics.Shape
	start  mgl32.Vec3

	look   lookRotation
	height *heightMotion
	ground *groundSensor
	zoom   *zoomAnimator
	bob    *headBobAnimator

	position mgl32.Vec3
	grounded bool
	moving   bool

	headPosition mgl32.Vec3
	camPosition  mgl32.Vec3

	log zerolog.Logger
}

// Ensure controller implements Controller interface.
var _ Controller = &controller{}

// NewController creates a character controller reading from the given
// sampler and colliding against the given world. A kinematic body with the
// configured shape is created at the start position.
//
// Parameters:
//   - smp: the input sampler to read each frame (must not be nil)
//   - world: the physics world to collide against (must not be nil)
//   - options: functional options to further configure the controller
//
// Returns:
//   - Controller: the newly created controller
//   - error: error if an argument is nil, the tuning is invalid, or the
//     body cannot be created
func NewController(smp input.Sampler, world physics.World, options ...ControllerBuilderOption) (Controller, error) {
	if smp == nil {
		return nil, errors.New("character: NewController requires a sampler")
	}
	if world == nil {
		return nil, errors.New("character: NewController requires a world")
	}

	c := &controller{
		mu:     &sync.Mutex{},
		smp:    smp,
		world:  world,
		tuning: DefaultTuning(),
		shape:  physics.CapsuleShape(0.5, 0.4),
		log:    zerolog.Nop(),
	}

	for _, option := range options {
		option(c)
	}

	if err := c.tuning.Validate(); err != nil {
		return nil, fmt.Errorf("character: %w", err)
	}

	body, err := world.CreateKinematicBody(c.shape, c.start)
	if err != nil {
		return nil, fmt.Errorf("character: %w", err)
	}
	c.body = body

	// The foot offset is the drop from the body origin to the sole.
	footOffset := -c.shape.Bounds().Min().Y()

	t := c.tuning
	c.height = newHeightMotion(t.Gravity, t.JumpDuration, t.JumpAmplitude)
	c.ground = newGroundSensor(world, body.Collider(), footOffset, t.GroundSnap, t.GroundRayLength)
	c.zoom = newZoomAnimator(t.MinZoom, t.MaxZoom, t.StartZoom, t.ZoomDuration)
	c.bob = newHeadBobAnimator(t.BobFrequency, t.BobAmplitude)

	c.position = c.start
	c.syncPoseLocked(0)

	c.log.Debug().
		Str("shape", c.shape.Kind.String()).
		Float32("footOffset", footOffset).
		Msg("controller ready")
	return c, nil
}

func (c *controller) Update(dt float32) {
	if dt < 0 {
		dt = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Look.
	dx, dy := c.smp.PointerDelta()
	if dx != 0 || dy != 0 {
		c.look.Apply(dx, dy, c.tuning.LookSensitivity)
	}

	// Zoom. Scrolling up zooms in.
	if scroll := c.smp.Scroll(); scroll != 0 {
		c.zoom.SetTarget(c.zoom.Target() - scroll*c.tuning.ZoomStep)
	}
	c.zoom.Advance(dt)

	// Walk on the ground plane.
	move := mgl32.Vec3{}
	if c.smp.Pressed(common.KeyW) {
		move = move.Add(c.look.FlatForward())
	}
	if c.smp.Pressed(common.KeyS) {
		move = move.Sub(c.look.FlatForward())
	}
	if c.smp.Pressed(common.KeyD) {
		move = move.Add(c.look.Right())
	}
	if c.smp.Pressed(common.KeyA) {
		move = move.Sub(c.look.Right())
	}
	c.moving = move.Len() > 0
	if c.moving {
		speed := c.tuning.MoveSpeed
		if c.smp.Pressed(common.KeyLeftShift) || c.smp.Pressed(common.KeyRightShift) {
			speed *= c.tuning.SprintMultiplier
		}
		c.position = c.position.Add(move.Normalize().Mul(speed * dt))
	}

	// Jump, only from the ground and never while an arc is in flight.
	if c.smp.Pressed(common.KeySpace) && c.grounded && !c.height.Jumping() {
		c.height.StartJump(1)
		c.log.Debug().Msg("jump started")
	}

	// Vertical motion, jump arc or gravity.
	c.position[1] += c.height.Advance(dt)

	// Ground sensing. Snapping is suppressed while a jump arc runs so the
	// takeoff frames are not pulled back down.
	res := c.ground.Probe(c.position)
	c.grounded = res.Grounded
	if c.grounded {
		c.height.ResetFall()
		if res.Corrected || !c.height.Jumping() {
			c.position[1] = res.GroundHeight
		}
		if res.Corrected {
			c.log.Debug().Float32("height", res.GroundHeight).Msg("tunnel correction applied")
		}
	}

	// Pose sync.
	c.syncPoseLocked(dt)
}

// syncPoseLocked pushes the frame's resolved pose to the body, the avatar,
// and the camera. The avatar takes heading only so it never tilts with the
// view. Callers must hold the mutex.
func (c *controller) syncPoseLocked(dt float32) {
	c.body.SetTranslation(c.position)
	if c.avatar != nil {
		c.avatar.SetTranslation(c.position)
		c.avatar.SetOrientation(c.look.YawOrientation())
	}

	bob := c.bob.Advance(dt, c.moving && c.grounded)
	c.headPosition = c.position.Add(mgl32.Vec3{0, c.tuning.EyeHeight + bob, 0})

	c.camPosition = c.headPosition
	if dist := c.zoom.Distance(); dist > c.tuning.FirstPersonZoom {
		c.camPosition = c.headPosition.Sub(c.look.Forward().Mul(dist))
	}

	if c.cam != nil {
		c.cam.SetPose(c.camPosition, c.look.Orientation())
	}
}

func (c *controller) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *controller) Orientation() mgl32.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.look.Orientation()
}

func (c *controller) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.look.yaw
}

func (c *controller) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.look.pitch
}

func (c *controller) Grounded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grounded
}

func (c *controller) Jumping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height.Jumping()
}

func (c *controller) ZoomDistance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom.Distance()
}

func (c *controller) FirstPerson() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom.Distance() <= c.tuning.FirstPersonZoom
}

func (c *controller) LookTarget() (mgl32.Vec3, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hit := c.world.CastRay(c.camPosition, c.look.Forward(), c.tuning.AimRayLength, false, nil, c.body.Collider())
	if hit == nil {
		return mgl32.Vec3{}, false
	}
	return hit.Point, true
}

func (c *controller) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.position = position
	c.grounded = false
	c.ground.Invalidate()
	c.height.Reset()
	c.syncPoseLocked(0)
	c.log.Debug().
		Float32("x", position.X()).
		Float32("y", position.Y()).
		Float32("z", position.Z()).
		Msg("teleported")
}

func (c *controller) Tuning() Tuning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tuning
}

func (c *controller) Retune(tuning Tuning) error {
	if err := tuning.Validate(); err != nil {
		return fmt.Errorf("character: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tuning = tuning
	c.height.retune(tuning.Gravity, tuning.JumpDuration, tuning.JumpAmplitude)
	c.ground.retune(tuning.GroundSnap, tuning.GroundRayLength)
	c.zoom.retune(tuning.MinZoom, tuning.MaxZoom, tuning.ZoomDuration)
	c.bob.retune(tuning.BobFrequency, tuning.BobAmplitude)
	c.log.Debug().Msg("tuning applied")
	return nil
}
