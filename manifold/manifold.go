// Package manifold generates contact manifolds for colliding convex
// polygons by reference/incident edge clipping.
//
// Given the minimum translation vector from the SAT narrow phase, the edge
// of each body most perpendicular to the separation normal is selected from
// its deepest-projected vertex. The more perpendicular of the two becomes
// the reference edge, the other the incident edge, and the incident edge is
// clipped against the reference edge's side planes (Sutherland-Hodgman, two
// passes). Surviving points with positive penetration depth form the
// manifold.
//
// References:
//   - Sutherland, Hodgman: "Reentrant Polygon Clipping" (1974)
//   - Bittle: "Contact Points Using Clipping" (dyn4j.org, 2011)
package manifold

import (
	"errors"
	"math"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/constraint"
	"github.com/akmonengine/plume/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoContact reports that clipping left no contact point with positive
// penetration. Callers treat the pair as unresolved for this sample; it is
// a representable state, not a failure of the simulation.
var ErrNoContact = errors.New("manifold: no contact points survived clipping")

// cornerEpsilon is the near-tie threshold below which the left and right
// edges at the deepest vertex are considered equally aligned and the vertex
// is treated as a corner contact instead of an edge contact
const cornerEpsilon = 1e-9

// Edge is a candidate contact edge in world space. Max is the
// deepest-projected vertex the edge was grown from; V1 and V2 are the edge
// endpoints in traversal order.
type Edge struct {
	Max    mgl64.Vec2
	V1     mgl64.Vec2
	V2     mgl64.Vec2
	Corner bool
}

// Vec returns the edge vector V1 -> V2
func (e Edge) Vec() mgl64.Vec2 {
	return e.V2.Sub(e.V1)
}

// BestEdge finds the edge of body most perpendicular to the separation
// normal. The deepest vertex along the normal is located first, then the
// edge to its previous or next neighbour is chosen by comparing their
// alignment with the normal. A near-tie marks the result as a corner
// contact.
func BestEdge(body *actor.Body, normal mgl64.Vec2) Edge {
	deepest := body.Polygon.Vertices[0]
	bestDot := body.WorldVertex(deepest.Point).Dot(normal)
	for _, v := range body.Polygon.Vertices[1:] {
		if dot := body.WorldVertex(v.Point).Dot(normal); dot > bestDot {
			bestDot = dot
			deepest = v
		}
	}

	max := body.WorldVertex(deepest.Point)
	prev := body.WorldVertex(deepest.Prev.Point)
	next := body.WorldVertex(deepest.Next.Point)

	// Both candidate edges point toward the deepest vertex; the one whose
	// direction is most perpendicular to the normal hugs the contact.
	right := actor.SafeNormalize(max.Sub(prev))
	left := actor.SafeNormalize(max.Sub(next))

	rightDot := right.Dot(normal)
	leftDot := left.Dot(normal)

	if math.Abs(rightDot-leftDot) < cornerEpsilon {
		return Edge{Max: max, V1: prev, V2: max, Corner: true}
	}
	if rightDot <= leftDot {
		return Edge{Max: max, V1: prev, V2: max}
	}
	return Edge{Max: max, V1: max, V2: next}
}

// clip keeps the endpoints of segment v1-v2 that lie past offset along
// normal, interpolating a replacement point on the plane when the segment
// crosses it. Returns 0, 1 or 2 points.
func clip(v1, v2, normal mgl64.Vec2, offset float64) []mgl64.Vec2 {
	points := make([]mgl64.Vec2, 0, 2)

	d1 := normal.Dot(v1) - offset
	d2 := normal.Dot(v2) - offset

	if d1 >= 0 {
		points = append(points, v1)
	}
	if d2 >= 0 {
		points = append(points, v2)
	}

	if d1*d2 < 0 {
		t := d1 / (d1 - d2)
		points = append(points, v1.Add(v2.Sub(v1).Mul(t)))
	}

	return points
}

// Generate builds the contact manifold for a colliding pair from the SAT
// result. The returned contact's normal is the MTV direction, oriented from
// a toward b.
//
// Degraded cases are handled without failing: a corner-only side yields the
// single deepest vertex against the other side's edge, and fewer than two
// clip survivors fall back to a best-effort single point. Only when no point
// with positive depth remains is ErrNoContact returned.
func Generate(a, b *actor.Body, res sat.Result) (constraint.Contact, error) {
	contact := constraint.Contact{
		BodyA:  a,
		BodyB:  b,
		Normal: res.Normal,
	}

	// Deepest features face each other: a's along the normal, b's against it
	edgeA := BestEdge(a, res.Normal)
	edgeB := BestEdge(b, res.Normal.Mul(-1))

	// A corner on one side contacts the other side's edge at a single point
	if edgeA.Corner || edgeB.Corner {
		point := edgeA.Max
		if edgeB.Corner {
			point = edgeB.Max
		}
		contact.Points = []constraint.ContactPoint{{Position: point, Penetration: res.Overlap}}
		return contact, nil
	}

	// The reference edge is the one most perpendicular to the separation
	// normal; the other is the incident edge
	ref, inc := edgeA, edgeB
	flip := false
	if math.Abs(edgeA.Vec().Dot(res.Normal)) > math.Abs(edgeB.Vec().Dot(res.Normal)) {
		ref, inc = edgeB, edgeA
		flip = true
	}

	refDir := actor.SafeNormalize(ref.Vec())
	if refDir.LenSqr() == 0 {
		// Degenerate reference edge; fall back to the incident deepest vertex
		contact.Points = []constraint.ContactPoint{{Position: inc.Max, Penetration: res.Overlap}}
		return contact, nil
	}

	// First side plane: keep what lies past ref.V1 along the edge direction
	points := clip(inc.V1, inc.V2, refDir, refDir.Dot(ref.V1))
	if len(points) < 2 {
		contact.Points = []constraint.ContactPoint{{Position: inc.Max, Penetration: res.Overlap}}
		return contact, nil
	}

	// Second side plane: keep what lies before ref.V2
	points = clip(points[0], points[1], refDir.Mul(-1), -refDir.Dot(ref.V2))
	if len(points) < 2 {
		contact.Points = []constraint.ContactPoint{{Position: inc.Max, Penetration: res.Overlap}}
		return contact, nil
	}

	// Depth of each survivor: its projection onto the flipped reference
	// face normal minus the reference deepest vertex's projection, so that
	// points inside the reference body measure positive. Points in front of
	// the reference face (negative depth) are discarded.
	outward := res.Normal
	if flip {
		outward = outward.Mul(-1)
	}
	refNormal := actor.Perp(refDir)
	if refNormal.Dot(outward) > 0 {
		refNormal = refNormal.Mul(-1)
	}
	max := refNormal.Dot(ref.Max)

	for _, p := range points {
		depth := refNormal.Dot(p) - max
		if depth < 0 {
			continue
		}
		contact.Points = append(contact.Points, constraint.ContactPoint{
			Position:    p,
			Penetration: depth,
		})
	}

	if len(contact.Points) == 0 {
		return constraint.Contact{}, ErrNoContact
	}

	return contact, nil
}
