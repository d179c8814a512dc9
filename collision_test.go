package plume

import (
	"testing"

	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestBroadPhase(t *testing.T) {
	a := createWorldBody(0, 0, 1, 1, actor.Material{Mass: 1}, false)
	b := createWorldBody(1.5, 0, 1, 1, actor.Material{Mass: 1}, false)
	c := createWorldBody(5, 0, 1, 1, actor.Material{Mass: 1}, false)

	if !BroadPhase(a, b) {
		t.Error("overlapping AABBs rejected")
	}
	if BroadPhase(a, c) {
		t.Error("distant AABBs accepted")
	}
}

func TestIsFast(t *testing.T) {
	tests := []struct {
		name     string
		velocity mgl64.Vec2
		expected bool
	}{
		{"at rest", mgl64.Vec2{0, 0}, false},
		{"slower than half extent", mgl64.Vec2{0.4, 0}, false},
		{"faster than half extent", mgl64.Vec2{0.6, 0}, true},
		{"fast diagonally", mgl64.Vec2{0.5, 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := createWorldBody(0, 0, 0.5, 2, actor.Material{Mass: 1}, false)
			body.Velocity = tt.velocity
			body.CacheCalculations()

			if got := isFast(body); got != tt.expected {
				t.Errorf("isFast = %v, want %v", got, tt.expected)
			}
		})
	}
}

// A slow pair is tested in place; the result reflects end-of-tick positions
func TestNarrowPhaseInPlace(t *testing.T) {
	a := createWorldBody(0, 0, 1, 1, actor.Material{Mass: 1}, false)
	b := createWorldBody(1.5, 0, 1, 1, actor.Material{Mass: 1}, false)

	res := NarrowPhase(a, b)
	if !res.Colliding {
		t.Fatal("expected collision")
	}
	if !mgl64.FloatEqualThreshold(res.Overlap, 0.5, epsilon) {
		t.Errorf("overlap = %v, want 0.5", res.Overlap)
	}
}

// A fast mover whose end position has passed through the target is rewound
// to its previous position and re-advanced in increments, so the hit is
// found at the first overlapping sample and the body is left there
func TestNarrowPhaseSamplesFastMover(t *testing.T) {
	target := createWorldBody(0, 0, 0.5, 0.5, actor.Material{Mass: 1}, true)
	mover := createWorldBody(3.2, 0, 0.5, 0.5, actor.Material{Mass: 1}, false)
	mover.Velocity = mgl64.Vec2{-6, 0}
	mover.PreviousPosition = mgl64.Vec2{3.2, 0}
	mover.Transform.Position = mgl64.Vec2{-2.8, 0}
	mover.CacheCalculations()

	res := NarrowPhase(target, mover)
	if !res.Colliding {
		t.Fatal("fast mover tunneled through the target")
	}
	// Left at the sampled hit position, before the target, not past it
	if mover.Transform.Position.X() <= 0 {
		t.Errorf("mover left at %v, want a position before the target", mover.Transform.Position)
	}
	if mover.Cache.Center != mover.Transform.Position {
		t.Error("cache center out of sync with the sampled position")
	}
}

// When no sample hits, the bodies end the test at their end-of-tick positions
func TestNarrowPhaseMissRestoresEndPosition(t *testing.T) {
	target := createWorldBody(0, 5, 0.5, 0.5, actor.Material{Mass: 1}, true)
	mover := createWorldBody(3.2, 0, 0.5, 0.5, actor.Material{Mass: 1}, false)
	mover.Velocity = mgl64.Vec2{-6, 0}
	mover.PreviousPosition = mgl64.Vec2{3.2, 0}
	mover.Transform.Position = mgl64.Vec2{-2.8, 0}
	mover.CacheCalculations()

	res := NarrowPhase(target, mover)
	if res.Colliding {
		t.Fatal("unexpected collision")
	}
	if !mgl64.FloatEqualThreshold(mover.Transform.Position.X(), -2.8, epsilon) {
		t.Errorf("mover left at %v, want its end-of-tick position", mover.Transform.Position)
	}
}
