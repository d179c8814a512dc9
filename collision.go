package plume

import (
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxSamples caps how many sub-positions a fast-moving body is tested at
// during one narrow-phase check
const MaxSamples = 6

// BroadPhase is the O(1) pair pre-filter: the cached AABBs of both bodies
// are compared on each axis, rejecting the pair if either axis is separated
func BroadPhase(a, b *actor.Body) bool {
	return a.Cache.AABB().Overlaps(b.Cache.AABB())
}

// isFast reports whether a body moved far enough this tick to tunnel: its
// velocity magnitude exceeds half its smallest cached AABB side
func isFast(body *actor.Body) bool {
	halfSide := body.Cache.HalfW
	if body.Cache.HalfH < halfSide {
		halfSide = body.Cache.HalfH
	}
	return body.Cache.Velocity.Len() > halfSide
}

// moveTo repositions a body during sampling, keeping the cached center in
// sync so projections and AABB tests see the sampled position
func moveTo(body *actor.Body, pos mgl64.Vec2) {
	body.Transform.Position = pos
	body.Cache.Center = pos
}

// NarrowPhase runs the SAT test for a candidate pair. Fast-moving bodies
// are stepped back to their previous position and re-advanced in up to
// MaxSamples increments, testing at each one and stopping at the first hit;
// the hit leaves the body at the sampled position so resolution acts there.
//
// This is a discrete tunneling mitigation, not a continuous time-of-impact
// solver: extreme velocities can still skip past thin bodies between
// samples.
func NarrowPhase(a, b *actor.Body) sat.Result {
	fastA, fastB := isFast(a), isFast(b)
	if !fastA && !fastB {
		return sat.Test(a, b)
	}

	endA := a.Transform.Position
	endB := b.Transform.Position
	deltaA := endA.Sub(a.PreviousPosition)
	deltaB := endB.Sub(b.PreviousPosition)

	for i := 1; i <= MaxSamples; i++ {
		t := float64(i) / MaxSamples
		if fastA {
			moveTo(a, a.PreviousPosition.Add(deltaA.Mul(t)))
		}
		if fastB {
			moveTo(b, b.PreviousPosition.Add(deltaB.Mul(t)))
		}

		if res := sat.Test(a, b); res.Colliding {
			return res
		}
	}

	// No hit at any increment; the final sample already restored the
	// end-of-tick positions
	return sat.Result{}
}
