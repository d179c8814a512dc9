package plume

import (
	"math"

	"github.com/akmonengine/plume/actor"
)

const (
	// MaxObjects is how many bodies a quadtree node holds before splitting
	MaxObjects = 10
	// MaxLevels caps the quadtree recursion depth
	MaxLevels = 5
)

// Rect is an axis-aligned region in min-corner/size form
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// ContainsAABB reports whether the body AABB lies entirely inside the rect
func (r Rect) ContainsAABB(aabb actor.AABB) bool {
	min, max := aabb.Min(), aabb.Max()
	return min.X() >= r.X && max.X() <= r.X+r.Width &&
		min.Y() >= r.Y && max.Y() <= r.Y+r.Height
}

// Quadtree is a recursive 4-way spatial tree used to retrieve broad-phase
// collision candidates. Bodies live at the smallest node whose quadrant
// fully contains their cached AABB; a body straddling a quadrant boundary
// stays at the parent. The tree is cleared and rebuilt every tick over the
// current bucket-grid bounds, so nothing aliases across ticks.
type Quadtree struct {
	level   int
	bounds  Rect
	objects []*actor.Body
	nodes   [4]*Quadtree
}

// NewQuadtree creates an empty quadtree over the given bounds
func NewQuadtree(bounds Rect) *Quadtree {
	return &Quadtree{
		bounds:  bounds,
		objects: make([]*actor.Body, 0, MaxObjects),
	}
}

// Bounds returns the region the tree covers
func (qt *Quadtree) Bounds() Rect {
	return qt.bounds
}

// Reset empties the tree and re-arms it over new bounds, reusing the root's
// object slice
func (qt *Quadtree) Reset(bounds Rect) {
	qt.bounds = bounds
	qt.objects = qt.objects[:0]
	qt.nodes = [4]*Quadtree{}
}

// split creates exactly four equal children
func (qt *Quadtree) split() {
	halfW := qt.bounds.Width / 2
	halfH := qt.bounds.Height / 2
	x, y := qt.bounds.X, qt.bounds.Y

	qt.nodes[0] = &Quadtree{level: qt.level + 1, bounds: Rect{x + halfW, y + halfH, halfW, halfH}}
	qt.nodes[1] = &Quadtree{level: qt.level + 1, bounds: Rect{x, y + halfH, halfW, halfH}}
	qt.nodes[2] = &Quadtree{level: qt.level + 1, bounds: Rect{x, y, halfW, halfH}}
	qt.nodes[3] = &Quadtree{level: qt.level + 1, bounds: Rect{x + halfW, y, halfW, halfH}}
}

// index returns the child quadrant that fully contains the AABB, or -1 when
// the AABB straddles the vertical or horizontal midline and must stay at
// this node. Quadrants are numbered counter-clockwise from top-right in a
// y-up world: 0 top-right, 1 top-left, 2 bottom-left, 3 bottom-right.
func (qt *Quadtree) index(aabb actor.AABB) int {
	midX := qt.bounds.X + qt.bounds.Width/2
	midY := qt.bounds.Y + qt.bounds.Height/2

	min, max := aabb.Min(), aabb.Max()

	bottom := max.Y() < midY
	top := min.Y() > midY

	if min.X() > midX {
		if top {
			return 0
		}
		if bottom {
			return 3
		}
	} else if max.X() < midX {
		if top {
			return 1
		}
		if bottom {
			return 2
		}
	}

	return -1
}

// Insert places a body at the smallest node whose quadrant fully contains
// its cached AABB. When a node exceeds MaxObjects and is above MaxLevels it
// splits and redistributes the bodies that fit a single child. Inserting the
// same body twice without clearing produces duplicates; the per-tick rebuild
// keeps the index consistent.
func (qt *Quadtree) Insert(body *actor.Body) {
	aabb := body.Cache.AABB()

	if qt.nodes[0] != nil {
		if idx := qt.index(aabb); idx != -1 {
			qt.nodes[idx].Insert(body)
			return
		}
	}

	qt.objects = append(qt.objects, body)

	if len(qt.objects) > MaxObjects && qt.level < MaxLevels {
		if qt.nodes[0] == nil {
			qt.split()
		}

		kept := qt.objects[:0]
		for _, obj := range qt.objects {
			if idx := qt.index(obj.Cache.AABB()); idx != -1 {
				qt.nodes[idx].Insert(obj)
			} else {
				kept = append(kept, obj)
			}
		}
		qt.objects = kept
	}
}

// Retrieve appends every body whose node assignment could overlap the query
// body's AABB: the objects stored at each visited node plus the relevant
// subtree(s). A straddling query descends into both children of the
// straddled axis, or all four when it straddles both. The result is a
// candidate set and may contain false positives; callers must still run
// broad and narrow phase on it.
func (qt *Quadtree) Retrieve(out []*actor.Body, body *actor.Body) []*actor.Body {
	out = append(out, qt.objects...)

	if qt.nodes[0] == nil {
		return out
	}

	aabb := body.Cache.AABB()
	if idx := qt.index(aabb); idx != -1 {
		return qt.nodes[idx].Retrieve(out, body)
	}

	for _, node := range qt.nodes {
		if qt.overlapsQuadrant(node.bounds, aabb) {
			out = node.Retrieve(out, body)
		}
	}

	return out
}

func (qt *Quadtree) overlapsQuadrant(r Rect, aabb actor.AABB) bool {
	min, max := aabb.Min(), aabb.Max()
	return max.X() >= r.X && min.X() <= r.X+r.Width &&
		max.Y() >= r.Y && min.Y() <= r.Y+r.Height
}

// Len returns the number of bodies stored in the tree
func (qt *Quadtree) Len() int {
	count := len(qt.objects)
	if qt.nodes[0] != nil {
		for _, node := range qt.nodes {
			count += node.Len()
		}
	}
	return count
}

// boundsOf computes the tight bounding rect of a body set from cached
// AABBs. Degenerate sets produce a zero rect at the origin rather than NaN.
func boundsOf(bodies []*actor.Body) Rect {
	if len(bodies) == 0 {
		return Rect{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, body := range bodies {
		min, max := body.Cache.AABB().Min(), body.Cache.AABB().Max()
		minX = math.Min(minX, min.X())
		minY = math.Min(minY, min.Y())
		maxX = math.Max(maxX, max.X())
		maxY = math.Max(maxY, max.Y())
	}

	if math.IsNaN(minX) || math.IsNaN(minY) || math.IsNaN(maxX) || math.IsNaN(maxY) {
		return Rect{}
	}

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
