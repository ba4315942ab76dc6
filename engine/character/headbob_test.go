package character

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestBobStaysAtRest(t *testing.T) {
	b := newHeadBobAnimator(12, 0.05)

	for i := 0; i < 5; i++ {
		if got := b.Advance(0.05, false); got != 0 {
			t.Fatalf("expected no bob at rest, got %v", got)
		}
	}
	if b.Active() {
		t.Fatal("expected animator to stay inactive at rest")
	}
}

func TestBobRisesWhileWalking(t *testing.T) {
	b := newHeadBobAnimator(12, 0.05)

	got := b.Advance(0.05, true)
	if got <= 0 {
		t.Fatalf("expected rising bob at the start of a cycle, got %v", got)
	}
	if got > 0.05 {
		t.Fatalf("expected bob within amplitude, got %v", got)
	}
}

func TestBobSettlesAtHalfCycle(t *testing.T) {
	b := newHeadBobAnimator(12, 0.05)
	b.Advance(0.05, true)

	// Movement stopped after 0.6 rad of phase. The bob must keep easing
	// until the sine crosses zero at pi, then settle exactly at rest.
	sawTail := false
	for i := 0; i < 20; i++ {
		got := b.Advance(0.05, false)
		if got == 0 {
			if !sawTail {
				t.Fatal("expected the half-cycle tail to play out before settling")
			}
			if b.Active() {
				t.Fatal("expected animator to deactivate on settle")
			}
			if b.phase != 0 {
				t.Fatalf("expected phase reset on settle, got %v", b.phase)
			}
			return
		}
		sawTail = true
	}
	t.Fatal("expected bob to settle within the tail window")
}

func TestBobRestartsFromZeroPhase(t *testing.T) {
	b := newHeadBobAnimator(12, 0.05)
	b.Advance(0.05, true)
	for b.Active() {
		b.Advance(0.05, false)
	}

	got := b.Advance(0.01, true)
	want := math32.Sin(0.12) * 0.05
	if math32.Abs(got-want) > 1e-6 {
		t.Fatalf("expected restart from zero phase giving %v, got %v", want, got)
	}
}

func TestBobWrapsPhaseWhileWalking(t *testing.T) {
	b := newHeadBobAnimator(12, 0.05)
	for i := 0; i < 200; i++ {
		b.Advance(0.05, true)
	}
	if b.phase >= 2*math32.Pi || b.phase < 0 {
		t.Fatalf("expected wrapped phase, got %v", b.phase)
	}
}
