package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a point of a convex polygon in body-local space, linked to its
// neighbours in winding order. The ring is a closed loop: following Next from
// any vertex visits every vertex exactly once and comes back.
type Vertex struct {
	Point mgl64.Vec2
	Prev  *Vertex
	Next  *Vertex
}

// Polygon is a convex polygon collision shape. Vertices are stored in
// body-local space, clockwise, as a doubly-linked ring. Concave polygons are
// not supported; callers must provide a convex hull approximation.
type Polygon struct {
	Vertices []*Vertex

	// Local-space bounds, recomputed when the vertex set changes
	localHalfW float64
	localHalfH float64

	// Cached separating axes (outward unit edge normals), invalidated
	// whenever the polygon rotates or its vertex set changes
	axes      []mgl64.Vec2
	axesValid bool
}

// NewPolygon creates a polygon from local-space points in clockwise winding
// order. Precondition: at least 3 points forming a convex shape.
func NewPolygon(points []mgl64.Vec2) *Polygon {
	p := &Polygon{
		Vertices: make([]*Vertex, len(points)),
	}
	for i, point := range points {
		p.Vertices[i] = &Vertex{Point: point}
	}
	p.Relink()

	return p
}

// NewBoxPolygon creates an axis-aligned rectangle polygon centered on the
// local origin, from half extents.
func NewBoxPolygon(halfW, halfH float64) *Polygon {
	// Clockwise in a y-up coordinate system
	return NewPolygon([]mgl64.Vec2{
		{-halfW, halfH},
		{halfW, halfH},
		{halfW, -halfH},
		{-halfW, -halfH},
	})
}

// Relink rebuilds the Prev/Next links of the vertex ring and recomputes
// local bounds. Must be called whenever the vertex set changes, e.g. on an
// animation frame swap.
func (p *Polygon) Relink() {
	n := len(p.Vertices)
	for i, v := range p.Vertices {
		v.Prev = p.Vertices[(i-1+n)%n]
		v.Next = p.Vertices[(i+1)%n]
	}

	p.computeLocalBounds()
	p.InvalidateAxes()
}

func (p *Polygon) computeLocalBounds() {
	p.localHalfW, p.localHalfH = 0, 0
	for _, v := range p.Vertices {
		p.localHalfW = math.Max(p.localHalfW, math.Abs(v.Point.X()))
		p.localHalfH = math.Max(p.localHalfH, math.Abs(v.Point.Y()))
	}
}

// LocalHalfExtents returns the local-space half width and half height.
func (p *Polygon) LocalHalfExtents() (float64, float64) {
	return p.localHalfW, p.localHalfH
}

// Rotate rotates every vertex by theta radians around the local origin and
// invalidates the cached separating axes. Local bounds are NOT recomputed:
// they stay the bounds of the shape as provided, and the rotated world AABB
// is derived from them plus the body rotation at cache time.
func (p *Polygon) Rotate(theta float64) {
	for _, v := range p.Vertices {
		v.Point = Rotate(v.Point, theta)
	}

	p.InvalidateAxes()
}

// InvalidateAxes drops the cached separating-axis list. The next call to
// Axes recomputes it from the current vertex ring.
func (p *Polygon) InvalidateAxes() {
	p.axesValid = false
}

// Axes returns the outward unit normals of every edge, the candidate
// separating axes for the SAT narrow phase. The list is cached until the
// polygon rotates or its vertex set changes. Degenerate (zero-length) edges
// contribute no axis.
func (p *Polygon) Axes() []mgl64.Vec2 {
	if p.axesValid {
		return p.axes
	}

	p.axes = p.axes[:0]
	for _, v := range p.Vertices {
		edge := v.Next.Point.Sub(v.Point)
		normal := SafeNormalize(Perp(edge))
		if normal.LenSqr() == 0 {
			continue
		}
		p.axes = append(p.axes, normal)
	}
	p.axesValid = true

	return p.axes
}

// SmallestSide returns the smaller of the local AABB full extents. Used to
// decide when a body moves fast enough to need multi-sampled collision tests.
func (p *Polygon) SmallestSide() float64 {
	return 2 * math.Min(p.localHalfW, p.localHalfH)
}

// SupportLocal returns the vertex whose projection along direction is the
// largest, in local space.
func (p *Polygon) SupportLocal(direction mgl64.Vec2) mgl64.Vec2 {
	best := p.Vertices[0].Point
	bestDot := best.Dot(direction)
	for _, v := range p.Vertices[1:] {
		if dot := v.Point.Dot(direction); dot > bestDot {
			bestDot = dot
			best = v.Point
		}
	}

	return best
}
