package character

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dmorneau/kinema-go/engine/physics"
)

// testAvatarFootOffset matches a 0.5 half-height, 0.4 radius capsule.
const testAvatarFootOffset = 0.9

func groundFixture(t *testing.T, floorHalfY float32) (physics.World, *groundSensor) {
	t.Helper()
	w := physics.NewStaticWorld()

	_, err := w.AddCollider(physics.BoxShape(mgl32.Vec3{10, floorHalfY, 10}), mgl32.Vec3{0, -floorHalfY, 0})
	if err != nil {
		t.Fatalf("add floor: %v", err)
	}
	body, err := w.CreateKinematicBody(physics.CapsuleShape(0.5, 0.4), mgl32.Vec3{0, testAvatarFootOffset, 0})
	if err != nil {
		t.Fatalf("create avatar: %v", err)
	}

	return w, newGroundSensor(w, body.Collider(), testAvatarFootOffset, 0.02, 50)
}

func TestProbeGroundedOnFloor(t *testing.T) {
	_, g := groundFixture(t, 0.5)

	res := g.Probe(mgl32.Vec3{0, testAvatarFootOffset, 0})
	if !res.Grounded {
		t.Fatal("expected sole on the floor to read grounded")
	}
	if math32.Abs(res.SignedDistance) > 1e-5 {
		t.Fatalf("expected zero signed distance, got %v", res.SignedDistance)
	}
	if math32.Abs(res.GroundHeight-testAvatarFootOffset) > 1e-5 {
		t.Fatalf("expected ground height %v, got %v", testAvatarFootOffset, res.GroundHeight)
	}
	if res.Corrected {
		t.Fatal("expected no correction on a clean floor hit")
	}
}

func TestProbeAirborne(t *testing.T) {
	_, g := groundFixture(t, 0.5)

	res := g.Probe(mgl32.Vec3{0, 3, 0})
	if res.Grounded {
		t.Fatal("expected a body two units up to read airborne")
	}
	if math32.Abs(res.SignedDistance-(3-testAvatarFootOffset)) > 1e-5 {
		t.Fatalf("expected signed distance %v, got %v", 3-testAvatarFootOffset, res.SignedDistance)
	}
}

func TestProbeHoverWithinSnap(t *testing.T) {
	_, g := groundFixture(t, 0.5)

	res := g.Probe(mgl32.Vec3{0, testAvatarFootOffset + 0.015, 0})
	if !res.Grounded {
		t.Fatal("expected a sole within snapping range to read grounded")
	}
	if math32.Abs(res.GroundHeight-testAvatarFootOffset) > 1e-5 {
		t.Fatalf("expected snap height %v, got %v", testAvatarFootOffset, res.GroundHeight)
	}
}

func TestProbeTunnelCorrection(t *testing.T) {
	_, g := groundFixture(t, 0.05)

	// Establish ground contact, then teleport the probe below the thin
	// floor the way a large fall step would.
	if res := g.Probe(mgl32.Vec3{0, testAvatarFootOffset, 0}); !res.Grounded {
		t.Fatal("expected initial contact on the thin floor")
	}

	res := g.Probe(mgl32.Vec3{0, -2, 0})
	if !res.Corrected {
		t.Fatal("expected a body under the floor to be recovered")
	}
	if !res.Grounded {
		t.Fatal("expected recovery to read grounded")
	}
	if math32.Abs(res.GroundHeight-testAvatarFootOffset) > 1e-5 {
		t.Fatalf("expected recovery to the last ground height %v, got %v", testAvatarFootOffset, res.GroundHeight)
	}
	if res.SignedDistance >= 0 {
		t.Fatalf("expected negative signed distance under ground, got %v", res.SignedDistance)
	}
}

func TestProbeNoCorrectionWithoutContact(t *testing.T) {
	_, g := groundFixture(t, 0.05)

	res := g.Probe(mgl32.Vec3{0, -2, 0})
	if res.Corrected || res.Grounded {
		t.Fatalf("expected no recovery without prior ground contact, got %+v", res)
	}
}

func TestProbeOverVoid(t *testing.T) {
	w := physics.NewStaticWorld()
	body, err := w.CreateKinematicBody(physics.CapsuleShape(0.5, 0.4), mgl32.Vec3{0, testAvatarFootOffset, 0})
	if err != nil {
		t.Fatalf("create avatar: %v", err)
	}
	g := newGroundSensor(w, body.Collider(), testAvatarFootOffset, 0.02, 50)

	res := g.Probe(mgl32.Vec3{0, 5, 0})
	if res.Grounded || res.Corrected {
		t.Fatalf("expected a miss over the void, got %+v", res)
	}
	if res.SignedDistance != 50-testAvatarFootOffset {
		t.Fatalf("expected signed distance at probe reach, got %v", res.SignedDistance)
	}
}

func TestInvalidateForgetsGround(t *testing.T) {
	_, g := groundFixture(t, 0.05)

	g.Probe(mgl32.Vec3{0, testAvatarFootOffset, 0})
	g.Invalidate()

	res := g.Probe(mgl32.Vec3{0, -2, 0})
	if res.Corrected {
		t.Fatal("expected no recovery after invalidation")
	}
}

func TestProbeInsideFloorReadsGrounded(t *testing.T) {
	_, g := groundFixture(t, 0.5)

	// Origin sunk into the floor slab. The solid downward ray reports
	// ground at zero distance and the snap height lifts the body out.
	res := g.Probe(mgl32.Vec3{0, -0.2, 0})
	if !res.Grounded {
		t.Fatal("expected an origin inside the floor to read grounded")
	}
	if res.SignedDistance != -testAvatarFootOffset {
		t.Fatalf("expected signed distance %v, got %v", -testAvatarFootOffset, res.SignedDistance)
	}
	if math32.Abs(res.GroundHeight-(-0.2+testAvatarFootOffset)) > 1e-5 {
		t.Fatalf("expected climb-out height %v, got %v", -0.2+testAvatarFootOffset, res.GroundHeight)
	}
}

func TestProbeIgnoresAvatarCollider(t *testing.T) {
	_, g := groundFixture(t, 0.5)

	// The probe origin sits inside the avatar's own capsule bounds. Without
	// the exclusion the solid downward ray would hit the avatar at zero
	// distance instead of the floor.
	res := g.Probe(mgl32.Vec3{0, testAvatarFootOffset, 0})
	if math32.Abs(res.SignedDistance) > 1e-5 {
		t.Fatalf("expected the probe to pass through the avatar, got signed distance %v", res.SignedDistance)
	}
}
