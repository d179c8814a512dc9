package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestVertexRing(t *testing.T) {
	p := NewBoxPolygon(1, 1)

	if len(p.Vertices) != 4 {
		t.Fatalf("box polygon has %d vertices, want 4", len(p.Vertices))
	}

	// Following Next from any vertex must visit every vertex exactly once
	// and return to the start
	start := p.Vertices[0]
	v := start.Next
	visited := 1
	for v != start {
		v = v.Next
		visited++
		if visited > len(p.Vertices) {
			t.Fatal("vertex ring is not closed")
		}
	}
	if visited != len(p.Vertices) {
		t.Errorf("ring traversal visited %d vertices, want %d", visited, len(p.Vertices))
	}

	// Prev must be the inverse of Next
	for i, v := range p.Vertices {
		if v.Next.Prev != v {
			t.Errorf("vertex %d: Next.Prev does not point back", i)
		}
		if v.Prev.Next != v {
			t.Errorf("vertex %d: Prev.Next does not point back", i)
		}
	}
}

func TestRelinkAfterVertexChange(t *testing.T) {
	p := NewBoxPolygon(1, 1)

	// Swap in a triangle, as an animation frame change would
	p.Vertices = []*Vertex{
		{Point: mgl64.Vec2{0, 2}},
		{Point: mgl64.Vec2{1, -1}},
		{Point: mgl64.Vec2{-1, -1}},
	}
	p.Relink()

	if p.Vertices[0].Prev != p.Vertices[2] || p.Vertices[2].Next != p.Vertices[0] {
		t.Error("ring not rebuilt after vertex change")
	}

	w, h := p.LocalHalfExtents()
	if w != 1 || h != 2 {
		t.Errorf("local half extents = (%v, %v), want (1, 2)", w, h)
	}
}

func TestAxes(t *testing.T) {
	p := NewBoxPolygon(1, 1)
	axes := p.Axes()

	if len(axes) != 4 {
		t.Fatalf("box has %d axes, want 4", len(axes))
	}

	for i, axis := range axes {
		if !mgl64.FloatEqualThreshold(axis.Len(), 1, epsilon) {
			t.Errorf("axis %d is not unit length: %v", i, axis)
		}
	}

	// An axis-aligned box must produce only axis-aligned normals
	for i, axis := range axes {
		alignedX := math.Abs(axis.X()) > 1-epsilon
		alignedY := math.Abs(axis.Y()) > 1-epsilon
		if !alignedX && !alignedY {
			t.Errorf("axis %d not axis-aligned: %v", i, axis)
		}
	}
}

func TestAxesCacheInvalidation(t *testing.T) {
	p := NewBoxPolygon(1, 1)

	before := make([]mgl64.Vec2, len(p.Axes()))
	copy(before, p.Axes())

	p.Rotate(math.Pi / 4)
	after := p.Axes()

	same := true
	for i := range after {
		if !vecEqual(before[i], after[i], epsilon) {
			same = false
		}
	}
	if same {
		t.Error("axes unchanged after rotation; cache was not invalidated")
	}
}

func TestSmallestSide(t *testing.T) {
	p := NewBoxPolygon(3, 1)
	if got := p.SmallestSide(); !mgl64.FloatEqualThreshold(got, 2, epsilon) {
		t.Errorf("SmallestSide() = %v, want 2", got)
	}
}

func TestSupportLocal(t *testing.T) {
	p := NewBoxPolygon(1, 2)

	tests := []struct {
		name      string
		direction mgl64.Vec2
		expected  mgl64.Vec2
	}{
		{"right", mgl64.Vec2{1, 0.1}, mgl64.Vec2{1, 2}},
		{"down", mgl64.Vec2{-0.1, -1}, mgl64.Vec2{-1, -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.SupportLocal(tt.direction)
			if !vecEqual(got, tt.expected, epsilon) {
				t.Errorf("SupportLocal(%v) = %v, want %v", tt.direction, got, tt.expected)
			}
		})
	}
}
