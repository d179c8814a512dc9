package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box in center/half-extent form
type AABB struct {
	Center mgl64.Vec2
	HalfW  float64
	HalfH  float64
}

// Min returns the lower-left corner of the AABB
func (a AABB) Min() mgl64.Vec2 {
	return mgl64.Vec2{a.Center.X() - a.HalfW, a.Center.Y() - a.HalfH}
}

// Max returns the upper-right corner of the AABB
func (a AABB) Max() mgl64.Vec2 {
	return mgl64.Vec2{a.Center.X() + a.HalfW, a.Center.Y() + a.HalfH}
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	min, max := a.Min(), a.Max()
	return point.X() >= min.X() && point.X() <= max.X() &&
		point.Y() >= min.Y() && point.Y() <= max.Y()
}

// Overlaps checks if two AABBs overlap. The test compares center distance
// against summed half-extents on each axis; separation on either axis means
// no overlap. Symmetric: a.Overlaps(b) == b.Overlaps(a).
func (a AABB) Overlaps(other AABB) bool {
	dx := a.Center.X() - other.Center.X()
	if dx < 0 {
		dx = -dx
	}
	if dx > a.HalfW+other.HalfW {
		return false
	}

	dy := a.Center.Y() - other.Center.Y()
	if dy < 0 {
		dy = -dy
	}
	return dy <= a.HalfH+other.HalfH
}
