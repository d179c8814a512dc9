package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// VelocityEpsilon is the anti-jitter slop below which a resolved
	// velocity is snapped to exactly zero
	VelocityEpsilon = 1e-5
	// DisplacementEpsilon is the anti-jitter slop below which a resolved
	// displacement is snapped to exactly zero
	DisplacementEpsilon = 1e-5
)

// Material holds the surface properties of a body. On contact the two
// materials are combined pairwise: friction is averaged, restitution is
// multiplied.
type Material struct {
	Mass        float64
	Friction    float64
	Restitution float64 // 0 = no rebound, 1 = perfect restitution
}

// ContactData is the contact summary handed to the OnCollide hook
type ContactData struct {
	Normal mgl64.Vec2 // from this body toward the other
	Depth  float64
	Points []mgl64.Vec2 // world-space contact points
}

// Cache is the per-frame derived snapshot of a body. It must be refreshed
// via CacheCalculations after integration and before any spatial query or
// collision check in the same tick; a stale cache is a correctness bug.
type Cache struct {
	Center       mgl64.Vec2
	HalfW        float64
	HalfH        float64
	Velocity     mgl64.Vec2
	Acceleration mgl64.Vec2
	Rotation     float64
}

// AABB returns the cached world bounding box
func (c Cache) AABB() AABB {
	return AABB{Center: c.Center, HalfW: c.HalfW, HalfH: c.HalfH}
}

// Body represents a rigid physics entity: a convex polygon shape with world
// position, motion state and surface material.
type Body struct {
	// ID is the stable identifier assigned when the body joins a world.
	// Pair caches and event keys are derived from it.
	ID int

	Transform        Transform
	PreviousPosition mgl64.Vec2

	Velocity     mgl64.Vec2
	Acceleration mgl64.Vec2

	// Magnitude clamps applied during integration, not per-axis.
	// Zero means unlimited.
	MaxSpeed        float64
	MaxAcceleration float64

	Material Material

	// Fixed bodies are immovable: infinite mass, never integrated, take no
	// share of penetration correction
	Fixed bool
	// Solid bodies participate in blocking collision
	Solid bool
	// AllowOverlapEvents bodies receive non-blocking overlap notifications
	// independent of solid collision
	AllowOverlapEvents bool

	Polygon *Polygon

	Cache Cache

	// Gameplay hooks. The core calls them but never implements them; nil
	// means allow / no-op.
	OnCollide  func(other *Body, contact ContactData)
	OnOverlap  func(other *Body)
	CanCollide func(other *Body) bool

	accumulatedForce mgl64.Vec2

	// Resolution accumulators: reset every resolution iteration, consumed
	// once by ApplyResolution, then applied. Deferring application lets
	// simultaneous contacts combine additively instead of clobbering each
	// other within one pass.
	displacement    mgl64.Vec2
	momentum        mgl64.Vec2
	surfaceImpulse  mgl64.Vec2
	impulseDir      mgl64.Vec2
	contactFriction float64
	contactCount    int
}

// NewBody creates a body from a transform, a convex polygon shape and a
// material. Fixed bodies are treated as infinite mass regardless of the
// material's Mass. Bodies are solid by default.
func NewBody(transform Transform, polygon *Polygon, material Material, fixed bool) *Body {
	b := &Body{
		Transform:        transform,
		PreviousPosition: transform.Position,
		Polygon:          polygon,
		Material:         material,
		Fixed:            fixed,
		Solid:            true,
	}
	if fixed {
		b.Material.Mass = math.Inf(1)
	}
	b.CacheCalculations()

	return b
}

// InverseMass returns 1/mass, or 0 for fixed (infinite mass) bodies
func (b *Body) InverseMass() float64 {
	if b.Fixed || math.IsInf(b.Material.Mass, 1) || b.Material.Mass <= 0 {
		return 0
	}
	return 1 / b.Material.Mass
}

// AddForce accumulates a force to be applied on the next integration
func (b *Body) AddForce(force mgl64.Vec2) {
	if !b.Fixed {
		b.accumulatedForce = b.accumulatedForce.Add(force)
	}
}

// ClearForces resets the force accumulator
func (b *Body) ClearForces() {
	b.accumulatedForce = mgl64.Vec2{}
}

// Integrate advances the body by dt. Acceleration and velocity are clamped
// by magnitude to MaxAcceleration and MaxSpeed. The velocity update uses the
// acceleration direction snapped to one of 32 fixed angles: simulation
// precision is deliberately traded for deterministic, visually stable motion.
func (b *Body) Integrate(dt float64, gravity mgl64.Vec2) {
	if b.Fixed {
		b.ClearForces()
		return
	}

	b.PreviousPosition = b.Transform.Position

	// The body's own acceleration is persistent driving state set by the
	// gameplay layer; gravity and accumulated forces act for this tick only
	if b.MaxAcceleration > 0 {
		b.Acceleration = Limit(b.Acceleration, b.MaxAcceleration)
	}
	effective := b.Acceleration.Add(gravity).Add(b.accumulatedForce.Mul(b.InverseMass()))

	b.Velocity = b.Velocity.Add(SnapAngle(effective).Mul(dt))
	if b.MaxSpeed > 0 {
		b.Velocity = Limit(b.Velocity, b.MaxSpeed)
	}

	b.Transform.Position = b.Transform.Position.Add(b.Velocity.Mul(dt))
	b.ClearForces()
}

// Rotate rotates the body facing and every vertex of its polygon, and
// invalidates the cached separating axes.
func (b *Body) Rotate(theta float64) {
	b.Transform.Rotation += theta
	b.Polygon.Rotate(theta)
}

// CacheCalculations refreshes the per-frame derived snapshot: the world AABB
// half extents from the local bounds and current rotation, and the current
// position, velocity, acceleration and rotation. Must run after Integrate
// and before any spatial or collision operation in the same tick.
func (b *Body) CacheCalculations() {
	w, h := b.Polygon.LocalHalfExtents()
	sin, cos := math.Sincos(b.Transform.Rotation)
	absSin, absCos := math.Abs(sin), math.Abs(cos)

	b.Cache = Cache{
		Center:       b.Transform.Position,
		HalfW:        absCos*w + absSin*h,
		HalfH:        absSin*w + absCos*h,
		Velocity:     b.Velocity,
		Acceleration: b.Acceleration,
		Rotation:     b.Transform.Rotation,
	}
}

// WorldVertex returns the world-space position of a local vertex point,
// using the cached world position.
func (b *Body) WorldVertex(local mgl64.Vec2) mgl64.Vec2 {
	return local.Add(b.Cache.Center)
}

// ResetAccumulators clears the per-iteration resolution accumulators
func (b *Body) ResetAccumulators() {
	b.displacement = mgl64.Vec2{}
	b.momentum = mgl64.Vec2{}
	b.surfaceImpulse = mgl64.Vec2{}
	b.impulseDir = mgl64.Vec2{}
	b.contactFriction = 0
	b.contactCount = 0
}

// AddDisplacement accumulates a positional correction
func (b *Body) AddDisplacement(d mgl64.Vec2) {
	b.displacement = b.displacement.Add(d)
}

// AddMomentum accumulates a velocity change from a momentum exchange
func (b *Body) AddMomentum(dv mgl64.Vec2) {
	b.momentum = b.momentum.Add(dv)
}

// AddSurfaceImpulse accumulates a velocity change from surface response
func (b *Body) AddSurfaceImpulse(impulse mgl64.Vec2) {
	b.surfaceImpulse = b.surfaceImpulse.Add(impulse)
}

// AddContact records the push direction and combined friction of a contact,
// consumed by ApplyResolution to damp the driving acceleration.
func (b *Body) AddContact(pushDir mgl64.Vec2, friction float64) {
	b.impulseDir = b.impulseDir.Add(pushDir)
	b.contactFriction += friction
	b.contactCount++
}

// ContactCount returns the number of contacts recorded this iteration
func (b *Body) ContactCount() int {
	return b.contactCount
}

// ApplyResolution commits the accumulated resolution state: friction damps
// the acceleration component along the contact surface, the velocity gains
// the momentum and surface impulse sums, near-zero results are snapped to
// exactly zero, and the displacement is applied to the position and cache.
// Fixed bodies only reset their accumulators; their position and velocity
// never change here.
func (b *Body) ApplyResolution() {
	if b.Fixed {
		b.ResetAccumulators()
		return
	}

	if b.contactCount > 0 {
		normal := SafeNormalize(b.impulseDir)
		if normal.LenSqr() > 0 {
			// Friction decelerates the driving force along the contact
			// edge, not the existing momentum. Acceleration pushing into
			// the contact is absorbed by the surface.
			along := b.Acceleration.Dot(normal)
			normalPart := normal.Mul(along)
			tangentPart := b.Acceleration.Sub(normalPart)

			friction := b.contactFriction / float64(b.contactCount)
			tangentPart = tangentPart.Mul(1 - math.Min(friction, 1))

			if along < 0 {
				normalPart = mgl64.Vec2{}
			}
			b.Acceleration = tangentPart.Add(normalPart)
		}
	}

	b.Velocity = b.Velocity.Add(b.momentum).Add(b.surfaceImpulse)
	if b.Velocity.Len() < VelocityEpsilon {
		b.Velocity = mgl64.Vec2{}
	}

	if b.displacement.Len() < DisplacementEpsilon {
		b.displacement = mgl64.Vec2{}
	}
	b.Transform.Position = b.Transform.Position.Add(b.displacement)
	b.CacheCalculations()

	b.ResetAccumulators()
}

// MayCollideWith applies the gameplay collision filter. A nil CanCollide
// hook allows everything.
func (b *Body) MayCollideWith(other *Body) bool {
	if b.CanCollide == nil {
		return true
	}
	return b.CanCollide(other)
}
