package constraint

import (
	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactPoint is a single world-space contact with its penetration depth
type ContactPoint struct {
	Position    mgl64.Vec2
	Penetration float64
}

// Contact is the manifold between two colliding bodies: the contact points
// and the shared normal, oriented from BodyA toward BodyB.
type Contact struct {
	BodyA  *actor.Body
	BodyB  *actor.Body
	Points []ContactPoint
	Normal mgl64.Vec2
}

// Depth returns the largest penetration among the contact points
func (c *Contact) Depth() float64 {
	depth := 0.0
	for _, p := range c.Points {
		if p.Penetration > depth {
			depth = p.Penetration
		}
	}
	return depth
}

// Finalize accumulates the resolution of this contact into both bodies.
//
// The penetration depth is split between the bodies proportional to inverse
// mass, so a fixed body takes no share and the entire correction is pushed
// onto its partner. The momentum exchange is the standard elastic-collision
// impulse projected along the contact normal, scaled by the combined
// restitution. Nothing is mutated directly: displacement and velocity
// changes go to the bodies' accumulators so that multiple simultaneous
// contacts combine additively within one pass, and the OnCollide hook fires
// on both bodies.
func (c *Contact) Finalize() {
	bodyA, bodyB := c.BodyA, c.BodyB

	invMassA := bodyA.InverseMass()
	invMassB := bodyB.InverseMass()
	totalInvMass := invMassA + invMassB

	depth := c.Depth()
	friction := CombineFriction(bodyA.Material, bodyB.Material)
	restitution := CombineRestitution(bodyA.Material, bodyB.Material)

	if totalInvMass > 0 {
		// Positional correction, split by inverse mass. The normal points
		// from A toward B, so A backs away against it and B along it.
		bodyA.AddDisplacement(c.Normal.Mul(-depth * invMassA / totalInvMass))
		bodyB.AddDisplacement(c.Normal.Mul(depth * invMassB / totalInvMass))

		// Momentum exchange along the normal, from the cached velocities.
		// Only applied when the bodies approach each other; separating
		// bodies get no impulse.
		relativeVel := bodyB.Cache.Velocity.Sub(bodyA.Cache.Velocity)
		normalVel := relativeVel.Dot(c.Normal)
		if normalVel < 0 {
			// The inelastic part cancels the approach; the restitution
			// part adds the rebound on top. Split across the two
			// accumulators so stacked contacts settle without bouncing.
			stopImpulse := c.Normal.Mul(-normalVel / totalInvMass)
			bounceImpulse := c.Normal.Mul(-restitution * normalVel / totalInvMass)

			bodyA.AddSurfaceImpulse(stopImpulse.Mul(-invMassA))
			bodyB.AddSurfaceImpulse(stopImpulse.Mul(invMassB))
			bodyA.AddMomentum(bounceImpulse.Mul(-invMassA))
			bodyB.AddMomentum(bounceImpulse.Mul(invMassB))
		}

		bodyA.AddContact(c.Normal.Mul(-1), friction)
		bodyB.AddContact(c.Normal, friction)
	}

	if bodyA.OnCollide != nil {
		bodyA.OnCollide(bodyB, c.contactData(c.Normal, depth))
	}
	if bodyB.OnCollide != nil {
		bodyB.OnCollide(bodyA, c.contactData(c.Normal.Mul(-1), depth))
	}
}

func (c *Contact) contactData(normal mgl64.Vec2, depth float64) actor.ContactData {
	points := make([]mgl64.Vec2, len(c.Points))
	for i, p := range c.Points {
		points[i] = p.Position
	}

	return actor.ContactData{
		Normal: normal,
		Depth:  depth,
		Points: points,
	}
}
