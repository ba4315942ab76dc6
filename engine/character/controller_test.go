package character

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dmorneau/kinema-go/common"
	"github.com/dmorneau/kinema-go/engine/camera"
	"github.com/dmorneau/kinema-go/engine/input"
	"github.com/dmorneau/kinema-go/engine/physics"
	"github.com/dmorneau/kinema-go/engine/scene"
	"github.com/dmorneau/kinema-go/engine/window"
)

const frame float32 = 1.0 / 60.0

// scriptedSampler feeds the controller hand-written input samples without a
// window behind it.
type scriptedSampler struct {
	keys     map[uint32]bool
	dx, dy   float32
	scroll   float32
	captured bool
}

func newScriptedSampler() *scriptedSampler {
	return &scriptedSampler{keys: map[uint32]bool{}, captured: true}
}

func (s *scriptedSampler) press(keyCode uint32) { s.keys[keyCode] = true }

func (s *scriptedSampler) unpress(keyCode uint32) { delete(s.keys, keyCode) }

func (s *scriptedSampler) sweep(dx, dy float32) { s.dx += dx; s.dy += dy }

func (s *scriptedSampler) wheel(delta float32) { s.scroll += delta }

func (s *scriptedSampler) Pressed(keyCode uint32) bool { return s.captured && s.keys[keyCode] }

func (s *scriptedSampler) PointerDelta() (float32, float32) {
	dx, dy := s.dx, s.dy
	s.dx, s.dy = 0, 0
	return dx, dy
}

func (s *scriptedSampler) Scroll() float32 {
	v := s.scroll
	s.scroll = 0
	return v
}

func (s *scriptedSampler) Captured() bool { return s.captured }

func (s *scriptedSampler) Capture() { s.captured = true }

func (s *scriptedSampler) Release() { s.captured = false }

func (s *scriptedSampler) Reset() {
	clear(s.keys)
	s.dx, s.dy, s.scroll = 0, 0, 0
}

func (s *scriptedSampler) HandleKeyDown(keyCode uint32) { s.press(keyCode) }

func (s *scriptedSampler) HandleKeyUp(keyCode uint32) { s.unpress(keyCode) }

func (s *scriptedSampler) HandleMouseMove(x, y float64) {}

func (s *scriptedSampler) HandleMouseDown(b window.MouseButton, x, y float64) {}

func (s *scriptedSampler) HandleScroll(delta float32) { s.wheel(delta) }

func (s *scriptedSampler) HandleFocus(focused bool) {}

// controllerFixture builds a controller standing on a 20x20 floor whose top
// face is at y zero.
func controllerFixture(t *testing.T, options ...ControllerBuilderOption) (*scriptedSampler, physics.World, Controller) {
	t.Helper()

	world := physics.NewStaticWorld()
	if _, err := world.AddCollider(physics.BoxShape(mgl32.Vec3{10, 0.5, 10}), mgl32.Vec3{0, -0.5, 0}); err != nil {
		t.Fatalf("unexpected collider error: %v", err)
	}

	smp := newScriptedSampler()
	opts := append([]ControllerBuilderOption{WithStartPosition(mgl32.Vec3{0, 0.9, 0})}, options...)
	ctl, err := NewController(smp, world, opts...)
	if err != nil {
		t.Fatalf("unexpected controller error: %v", err)
	}
	return smp, world, ctl
}

func settle(ctl Controller) {
	for i := 0; i < 3; i++ {
		ctl.Update(frame)
	}
}

func within(got, want, eps float32) bool {
	return math32.Abs(got-want) <= eps
}

func TestControllerValidatesArguments(t *testing.T) {
	world := physics.NewStaticWorld()

	if _, err := NewController(nil, world); err == nil {
		t.Fatalf("expected an error without a sampler")
	}
	if _, err := NewController(newScriptedSampler(), nil); err == nil {
		t.Fatalf("expected an error without a world")
	}

	bad := DefaultTuning()
	bad.MoveSpeed = -1
	if _, err := NewController(newScriptedSampler(), world, WithTuning(bad)); err == nil {
		t.Fatalf("expected an error for invalid tuning")
	}
	if _, err := NewController(newScriptedSampler(), world, WithShape(physics.CapsuleShape(0.5, -1))); err == nil {
		t.Fatalf("expected an error for an invalid shape")
	}
}

func TestControllerSettlesOnFloor(t *testing.T) {
	_, _, ctl := controllerFixture(t)
	settle(ctl)

	if !ctl.Grounded() {
		t.Fatalf("expected the character to stand on the floor")
	}
	if !within(ctl.Position().Y(), 0.9, 1e-3) {
		t.Fatalf("expected the sole on the floor at y 0.9, got %v", ctl.Position().Y())
	}
	if ctl.Jumping() {
		t.Fatalf("expected no jump at rest")
	}
}

func TestControllerFallsToFloorFromSpawn(t *testing.T) {
	_, _, ctl := controllerFixture(t, WithStartPosition(mgl32.Vec3{0, 3, 0}))

	for i := 0; i < 120; i++ {
		ctl.Update(frame)
	}
	if !ctl.Grounded() || !within(ctl.Position().Y(), 0.9, 1e-3) {
		t.Fatalf("expected a landing at y 0.9, got grounded=%v y=%v", ctl.Grounded(), ctl.Position().Y())
	}
}

func TestIdleHoldsPosition(t *testing.T) {
	_, _, ctl := controllerFixture(t)
	settle(ctl)

	before := ctl.Position()
	for i := 0; i < 60; i++ {
		ctl.Update(frame)
	}
	if !vecApprox(ctl.Position(), before, 1e-5) {
		t.Fatalf("expected no drift without input, got %v -> %v", before, ctl.Position())
	}
}

func TestWalkFollowsHeading(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	smp.press(common.KeyW)
	for i := 0; i < 30; i++ {
		ctl.Update(frame)
	}

	p := ctl.Position()
	if !within(p.Z(), -5, 0.01) || !within(p.X(), 0, 1e-4) {
		t.Fatalf("expected half a second forward to reach z -5, got %v", p)
	}
	if !ctl.Grounded() {
		t.Fatalf("expected walking to stay grounded")
	}
}

func TestStrafeIsPerpendicular(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	smp.press(common.KeyD)
	for i := 0; i < 30; i++ {
		ctl.Update(frame)
	}

	p := ctl.Position()
	if !within(p.X(), 5, 0.01) || !within(p.Z(), 0, 1e-4) {
		t.Fatalf("expected strafing to reach x 5, got %v", p)
	}
}

func TestOppositeKeysCancel(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	before := ctl.Position()
	smp.press(common.KeyW)
	smp.press(common.KeyS)
	for i := 0; i < 30; i++ {
		ctl.Update(frame)
	}
	if !vecApprox(ctl.Position(), before, 1e-5) {
		t.Fatalf("expected opposing keys to cancel, got %v -> %v", before, ctl.Position())
	}
}

func TestSprintScalesSpeed(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	smp.press(common.KeyW)
	for i := 0; i < 6; i++ {
		ctl.Update(frame)
	}
	walked := -ctl.Position().Z()

	smp.press(common.KeyLeftShift)
	start := ctl.Position().Z()
	for i := 0; i < 6; i++ {
		ctl.Update(frame)
	}
	sprinted := start - ctl.Position().Z()

	if !within(sprinted/walked, 5, 0.05) {
		t.Fatalf("expected sprint to cover 5x the walking distance, got ratio %v", sprinted/walked)
	}
}

func TestPointerLookTurnsWalkDirection(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	// A quarter viewport sweep left at sensitivity 2 is a quarter turn.
	smp.sweep(-math32.Pi/4, 0)
	ctl.Update(frame)
	if !within(ctl.Yaw(), math32.Pi/2, 1e-4) {
		t.Fatalf("expected yaw pi/2 after the sweep, got %v", ctl.Yaw())
	}

	smp.press(common.KeyW)
	for i := 0; i < 30; i++ {
		ctl.Update(frame)
	}
	p := ctl.Position()
	if !within(p.X(), -5, 0.01) || !within(p.Z(), 0, 1e-3) {
		t.Fatalf("expected the turned heading to walk to x -5, got %v", p)
	}
}

func TestLookVerticalClampStaysDefined(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	smp.sweep(0, 10)
	ctl.Update(frame)
	if !within(ctl.Pitch(), -math32.Pi/2, 1e-5) {
		t.Fatalf("expected pitch clamped straight down, got %v", ctl.Pitch())
	}

	down := ctl.Orientation().Rotate(mgl32.Vec3{0, 0, -1})
	if !vecApprox(down, mgl32.Vec3{0, -1, 0}, 1e-4) {
		t.Fatalf("expected the view to point straight down, got %v", down)
	}
}

func TestJumpArcAndLanding(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	smp.press(common.KeySpace)
	ctl.Update(frame)
	if !ctl.Jumping() {
		t.Fatalf("expected the jump to start from the ground")
	}
	smp.unpress(common.KeySpace)

	apex := float32(0)
	for i := 0; i < 120; i++ {
		ctl.Update(frame)
		if y := ctl.Position().Y(); y > apex {
			apex = y
		}
	}

	if !within(apex, 0.9+2.0, 0.1) {
		t.Fatalf("expected the apex near y 2.9, got %v", apex)
	}
	if !ctl.Grounded() || ctl.Jumping() {
		t.Fatalf("expected a landing, got grounded=%v jumping=%v", ctl.Grounded(), ctl.Jumping())
	}
	if !within(ctl.Position().Y(), 0.9, 1e-3) {
		t.Fatalf("expected to land back at y 0.9, got %v", ctl.Position().Y())
	}
}

func TestJumpNotRetriggeredInFlight(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	smp.press(common.KeySpace)
	ctl.Update(frame)

	impl := ctl.(*controller)
	before := impl.height.jumpTime
	for i := 0; i < 10; i++ {
		ctl.Update(frame)
	}
	if after := impl.height.jumpTime; !within(after-before, 10*frame, 1e-4) {
		t.Fatalf("expected the arc clock to run uninterrupted with the key held, got %v -> %v", before, after)
	}
}

func TestJumpRequiresGround(t *testing.T) {
	smp, _, ctl := controllerFixture(t, WithStartPosition(mgl32.Vec3{0, 5, 0}))

	smp.press(common.KeySpace)
	for i := 0; i < 10; i++ {
		ctl.Update(frame)
		if ctl.Jumping() {
			t.Fatalf("expected no jump while airborne")
		}
	}
}

func TestWalkOffLedgeFalls(t *testing.T) {
	smp, _, ctl := controllerFixture(t, WithStartPosition(mgl32.Vec3{9, 0.9, 0}))
	settle(ctl)

	smp.press(common.KeyD)
	for i := 0; i < 30; i++ {
		ctl.Update(frame)
	}

	if ctl.Grounded() {
		t.Fatalf("expected to leave the floor past its edge")
	}
	p := ctl.Position()
	if p.X() <= 10 {
		t.Fatalf("expected to keep strafing past the edge, got x %v", p.X())
	}
	if p.Y() >= 0.9 {
		t.Fatalf("expected a fall past the edge, got y %v", p.Y())
	}
}

func TestZoomScrollEasesAndClamps(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	if ctl.FirstPerson() {
		t.Fatalf("expected a third person start")
	}
	if !within(ctl.ZoomDistance(), 4, 1e-4) {
		t.Fatalf("expected the start distance 4, got %v", ctl.ZoomDistance())
	}

	smp.wheel(1)
	for i := 0; i < 120; i++ {
		ctl.Update(frame)
	}
	if !within(ctl.ZoomDistance(), 3.5, 1e-3) {
		t.Fatalf("expected one scroll step to ease to 3.5, got %v", ctl.ZoomDistance())
	}

	for j := 0; j < 12; j++ {
		smp.wheel(1)
		ctl.Update(frame)
	}
	for i := 0; i < 120; i++ {
		ctl.Update(frame)
	}
	if !within(ctl.ZoomDistance(), 0, 1e-3) {
		t.Fatalf("expected the distance clamped at 0, got %v", ctl.ZoomDistance())
	}
	if !ctl.FirstPerson() {
		t.Fatalf("expected first person fully zoomed in")
	}
}

func TestCameraFollowsBehindHead(t *testing.T) {
	cam := camera.NewCamera()
	smp, _, ctl := controllerFixture(t, WithCamera(cam))
	settle(ctl)

	// Eye height 0.72 over the body origin, camera 4 back along +Z.
	if !vecApprox(cam.Position(), mgl32.Vec3{0, 1.62, 4}, 1e-3) {
		t.Fatalf("expected the camera behind the head, got %v", cam.Position())
	}
	fwd := cam.Orientation().Rotate(mgl32.Vec3{0, 0, -1})
	if !vecApprox(fwd, mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Fatalf("expected the camera to share the view direction, got %v", fwd)
	}

	for j := 0; j < 8; j++ {
		smp.wheel(1)
		ctl.Update(frame)
	}
	for i := 0; i < 120; i++ {
		ctl.Update(frame)
	}
	if !vecApprox(cam.Position(), mgl32.Vec3{0, 1.62, 0}, 1e-3) {
		t.Fatalf("expected a first person camera at the head, got %v", cam.Position())
	}
}

func TestHeadBobRaisesCameraWhileWalking(t *testing.T) {
	cam := camera.NewCamera()
	smp, _, ctl := controllerFixture(t, WithCamera(cam))
	settle(ctl)
	restY := cam.Position().Y()

	smp.press(common.KeyW)
	ctl.Update(frame)

	// One walking frame advances the bob phase to 12/60. The ground snap
	// keeps the body at rest height, so the camera lift is the bob alone.
	lift := cam.Position().Y() - restY
	want := math32.Sin(12*frame) * 0.05
	if !within(lift, want, 1e-4) {
		t.Fatalf("expected a bob lift of %v, got %v", want, lift)
	}
}

func TestAvatarMirrorsPoseWithoutTilt(t *testing.T) {
	avatar := scene.NewNode("avatar")
	smp, _, ctl := controllerFixture(t, WithAvatar(avatar))
	settle(ctl)

	if !vecApprox(avatar.Translation(), ctl.Position(), 1e-5) {
		t.Fatalf("expected the avatar at the body origin, got %v", avatar.Translation())
	}

	smp.sweep(-math32.Pi/4, 0.1)
	ctl.Update(frame)

	fwd := avatar.Orientation().Rotate(mgl32.Vec3{0, 0, -1})
	if !vecApprox(fwd, mgl32.Vec3{-1, 0, 0}, 1e-4) {
		t.Fatalf("expected the avatar to face the heading, got %v", fwd)
	}
	up := avatar.Orientation().Rotate(mgl32.Vec3{0, 1, 0})
	if !vecApprox(up, mgl32.Vec3{0, 1, 0}, 1e-4) {
		t.Fatalf("expected the avatar to stay level under pitch, got %v", up)
	}
}

func TestLookTargetHitsWallAhead(t *testing.T) {
	world := physics.NewStaticWorld()
	if _, err := world.AddCollider(physics.BoxShape(mgl32.Vec3{10, 0.5, 10}), mgl32.Vec3{0, -0.5, 0}); err != nil {
		t.Fatalf("unexpected collider error: %v", err)
	}
	if _, err := world.AddCollider(physics.BoxShape(mgl32.Vec3{2, 2, 0.25}), mgl32.Vec3{0, 2, -4.75}); err != nil {
		t.Fatalf("unexpected collider error: %v", err)
	}

	ctl, err := NewController(newScriptedSampler(), world, WithStartPosition(mgl32.Vec3{0, 0.9, 0}))
	if err != nil {
		t.Fatalf("unexpected controller error: %v", err)
	}
	settle(ctl)

	pt, ok := ctl.LookTarget()
	if !ok {
		t.Fatalf("expected the wall in the aim ray")
	}
	if !vecApprox(pt, mgl32.Vec3{0, 1.62, -4.5}, 1e-3) {
		t.Fatalf("expected a hit on the wall face, got %v", pt)
	}
}

func TestLookTargetMissesOpenSky(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	// Zoom fully in so the camera sits at the head, then look straight up.
	for j := 0; j < 8; j++ {
		smp.wheel(1)
		ctl.Update(frame)
	}
	for i := 0; i < 120; i++ {
		ctl.Update(frame)
	}
	smp.sweep(0, -10)
	ctl.Update(frame)

	if _, ok := ctl.LookTarget(); ok {
		t.Fatalf("expected no target in the sky")
	}
}

func TestTeleportResetsMotion(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	smp.press(common.KeySpace)
	ctl.Update(frame)
	smp.unpress(common.KeySpace)

	ctl.SetPosition(mgl32.Vec3{0, 5, 0})
	if ctl.Jumping() {
		t.Fatalf("expected the teleport to cancel the jump")
	}
	if ctl.Grounded() {
		t.Fatalf("expected no ground claim right after a teleport")
	}
	if !vecApprox(ctl.Position(), mgl32.Vec3{0, 5, 0}, 1e-5) {
		t.Fatalf("expected the body at the teleport point, got %v", ctl.Position())
	}

	for i := 0; i < 150; i++ {
		ctl.Update(frame)
	}
	if !ctl.Grounded() || !within(ctl.Position().Y(), 0.9, 1e-3) {
		t.Fatalf("expected a fresh landing, got grounded=%v y=%v", ctl.Grounded(), ctl.Position().Y())
	}
}

func TestTeleportBelowFloorFallsFree(t *testing.T) {
	_, _, ctl := controllerFixture(t)
	settle(ctl)

	ctl.SetPosition(mgl32.Vec3{0, -5, 0})
	for i := 0; i < 30; i++ {
		ctl.Update(frame)
	}

	if ctl.Grounded() {
		t.Fatalf("expected no stale correction under the floor after a teleport")
	}
	if ctl.Position().Y() >= -5 {
		t.Fatalf("expected a free fall, got y %v", ctl.Position().Y())
	}
}

func TestTunnelCorrectionRecoversThinFloor(t *testing.T) {
	world := physics.NewStaticWorld()
	if _, err := world.AddCollider(physics.BoxShape(mgl32.Vec3{10, 0.05, 10}), mgl32.Vec3{0, -0.05, 0}); err != nil {
		t.Fatalf("unexpected collider error: %v", err)
	}
	ctl, err := NewController(newScriptedSampler(), world, WithStartPosition(mgl32.Vec3{0, 0.9, 0}))
	if err != nil {
		t.Fatalf("unexpected controller error: %v", err)
	}
	settle(ctl)

	// One huge frame moves the body through the catwalk in a single step.
	ctl.Update(2)

	if !ctl.Grounded() {
		t.Fatalf("expected the tunnel correction to reground the body")
	}
	if !within(ctl.Position().Y(), 0.9, 1e-3) {
		t.Fatalf("expected recovery to the catwalk height, got %v", ctl.Position().Y())
	}
}

func TestRetuneAppliesAndRejects(t *testing.T) {
	smp, _, ctl := controllerFixture(t)
	settle(ctl)

	tuned := ctl.Tuning()
	tuned.MoveSpeed = 20
	if err := ctl.Retune(tuned); err != nil {
		t.Fatalf("unexpected retune error: %v", err)
	}

	smp.press(common.KeyW)
	for i := 0; i < 24; i++ {
		ctl.Update(frame)
	}
	if !within(ctl.Position().Z(), -8, 0.02) {
		t.Fatalf("expected the retuned speed to reach z -8, got %v", ctl.Position().Z())
	}

	bad := tuned
	bad.Gravity = -1
	if err := ctl.Retune(bad); err == nil {
		t.Fatalf("expected invalid tuning to be rejected")
	}
	if got := ctl.Tuning(); got.MoveSpeed != 20 || got.Gravity != tuned.Gravity {
		t.Fatalf("expected the rejected tuning to leave values untouched, got %+v", got)
	}
}

func TestDetachedSamplerGatesInput(t *testing.T) {
	world := physics.NewStaticWorld()
	if _, err := world.AddCollider(physics.BoxShape(mgl32.Vec3{10, 0.5, 10}), mgl32.Vec3{0, -0.5, 0}); err != nil {
		t.Fatalf("unexpected collider error: %v", err)
	}

	smp := input.NewSampler()
	ctl, err := NewController(smp, world, WithStartPosition(mgl32.Vec3{0, 0.9, 0}))
	if err != nil {
		t.Fatalf("unexpected controller error: %v", err)
	}
	settle(ctl)

	// Keys pressed before capture never reach the controller.
	smp.HandleKeyDown(common.KeyW)
	for i := 0; i < 12; i++ {
		ctl.Update(frame)
	}
	if !within(ctl.Position().Z(), 0, 1e-5) {
		t.Fatalf("expected no motion while the pointer is released, got z %v", ctl.Position().Z())
	}

	smp.Capture()
	smp.HandleKeyDown(common.KeyW)
	for i := 0; i < 12; i++ {
		ctl.Update(frame)
	}
	if !within(ctl.Position().Z(), -2, 0.01) {
		t.Fatalf("expected captured input to walk to z -2, got %v", ctl.Position().Z())
	}
}
