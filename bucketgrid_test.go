package plume

import (
	"math"
	"testing"

	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func createGridBody(id int, x, y float64) *actor.Body {
	body := actor.NewBody(
		actor.Transform{Position: mgl64.Vec2{x, y}},
		actor.NewBoxPolygon(0.1, 0.1),
		actor.Material{Mass: 1},
		false,
	)
	body.ID = id

	return body
}

func TestBucketGridCellSize(t *testing.T) {
	tests := []struct {
		name     string
		w, h     float64
		expected float64
	}{
		{"landscape viewport", 100, 80, 50},
		{"portrait viewport", 80, 100, 50},
		{"zero viewport falls back", 0, 0, 1},
		{"NaN viewport falls back", math.NaN(), math.NaN(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := NewBucketGrid(tt.w, tt.h)
			if grid.CellSize() != tt.expected {
				t.Errorf("CellSize = %v, want %v", grid.CellSize(), tt.expected)
			}
		})
	}
}

func TestBucketGridPartition(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	a := createGridBody(1, 0, 0)
	b := createGridBody(2, 8, 8)
	bodies := []*actor.Body{a, b}

	grid.Partition(bodies)

	// Bounds are the body extent plus half of it on each side
	bounds := grid.Bounds()
	if !mgl64.FloatEqualThreshold(bounds.X, -4.2, 1e-9) ||
		!mgl64.FloatEqualThreshold(bounds.Width, 16.4, 1e-9) {
		t.Errorf("padded bounds = %+v, want x=-4.2 width=16.4", bounds)
	}

	near := grid.SurroundingCells(a.Transform.Position, 1)
	if !containsBody(near, a) {
		t.Error("body missing from its own neighbourhood")
	}
	if containsBody(near, b) {
		t.Error("distant body leaked into the neighbourhood")
	}
}

func TestBucketGridPartitionIdempotent(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	bodies := []*actor.Body{
		createGridBody(1, 0, 0),
		createGridBody(2, 3, 7),
		createGridBody(3, 8, 8),
	}

	grid.Partition(bodies)
	first := make(map[int]int, len(grid.slot))
	for id, cell := range grid.slot {
		first[id] = cell
	}
	firstBounds := grid.Bounds()

	// No movement: a second partition reproduces the same assignment
	grid.Partition(bodies)

	if grid.Bounds() != firstBounds {
		t.Errorf("bounds changed across identical partitions: %+v vs %+v", firstBounds, grid.Bounds())
	}
	if len(grid.slot) != len(first) {
		t.Fatalf("slot count changed: %d vs %d", len(first), len(grid.slot))
	}
	for id, cell := range grid.slot {
		if first[id] != cell {
			t.Errorf("body %d moved from cell %d to %d with no movement", id, first[id], cell)
		}
	}
}

func TestBucketGridMaintainIncremental(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	a := createGridBody(1, 0, 0)
	b := createGridBody(2, 8, 8)
	bodies := []*actor.Body{a, b}

	grid.Maintain(bodies)
	bounds := grid.Bounds()

	// A small move inside the padded region re-buckets without rebuilding,
	// so the bounds stay put
	a.Transform.Position = mgl64.Vec2{3, 3}
	a.CacheCalculations()
	grid.Maintain(bodies)

	if grid.Bounds() != bounds {
		t.Error("interior move should not repartition the grid")
	}
	if !containsBody(grid.SurroundingCells(mgl64.Vec2{3, 3}, 1), a) {
		t.Error("moved body not found in its new neighbourhood")
	}
}

func TestBucketGridMaintainRepartitions(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	a := createGridBody(1, 0, 0)
	b := createGridBody(2, 8, 8)
	bodies := []*actor.Body{a, b}

	grid.Maintain(bodies)
	bounds := grid.Bounds()

	t.Run("body reaching the outer bound", func(t *testing.T) {
		b.Transform.Position = mgl64.Vec2{30, 30}
		b.CacheCalculations()
		grid.Maintain(bodies)

		if grid.Bounds() == bounds {
			t.Error("escaping body should force a repartition")
		}
		if !containsBody(grid.SurroundingCells(mgl64.Vec2{30, 30}, 1), b) {
			t.Error("escaped body not re-bucketed")
		}
	})

	t.Run("membership change", func(t *testing.T) {
		bounds := grid.Bounds()
		c := createGridBody(3, -20, -20)
		grid.Maintain(append(bodies, c))

		if grid.Bounds() == bounds {
			t.Error("new body should force a repartition")
		}
		if !containsBody(grid.SurroundingCells(mgl64.Vec2{-20, -20}, 1), c) {
			t.Error("new body not bucketed")
		}
	})
}

func TestBucketGridNaNPosition(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	a := createGridBody(1, math.NaN(), math.NaN())

	// NaN never panics or poisons the grid: the body degrades to cell 0
	grid.Partition([]*actor.Body{a})

	if !containsBody(grid.SurroundingCells(mgl64.Vec2{0, 0}, 1), a) {
		t.Error("NaN-positioned body should land in the first cell")
	}
}

func TestBucketGridEmpty(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	grid.Partition(nil)

	if grid.Bounds() != (Rect{}) {
		t.Errorf("bounds of an empty grid = %+v, want the zero rect", grid.Bounds())
	}
	if got := grid.SurroundingCells(mgl64.Vec2{0, 0}, 1); len(got) != 0 {
		t.Errorf("empty grid returned %d bodies", len(got))
	}
}

func TestBucketGridSurroundingCellsRadius(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	a := createGridBody(1, 0, 0)
	b := createGridBody(2, 8, 8)
	c := createGridBody(3, 1, 1)
	bodies := []*actor.Body{a, b, c}
	grid.Partition(bodies)

	near := grid.SurroundingCells(a.Transform.Position, 1)
	if !containsBody(near, a) || !containsBody(near, c) {
		t.Error("adjacent bodies missing at radius 1")
	}
	if containsBody(near, b) {
		t.Error("distant body present at radius 1")
	}

	wide := grid.SurroundingCells(a.Transform.Position, 20)
	for _, body := range bodies {
		if !containsBody(wide, body) {
			t.Error("wide radius should cover every cell")
		}
	}
}

func TestBucketGridRemove(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	a := createGridBody(1, 0, 0)
	b := createGridBody(2, 8, 8)
	grid.Partition([]*actor.Body{a, b})

	grid.Remove(a)

	if containsBody(grid.SurroundingCells(a.Transform.Position, 1), a) {
		t.Error("removed body still bucketed")
	}
	// Removing twice is a no-op
	grid.Remove(a)
}

func TestBucketGridSetViewportForcesRebuild(t *testing.T) {
	grid := NewBucketGrid(2, 2)
	a := createGridBody(1, 0, 0)
	b := createGridBody(2, 8, 8)
	bodies := []*actor.Body{a, b}
	grid.Maintain(bodies)

	grid.SetViewport(200, 200)
	grid.Maintain(bodies)

	if grid.CellSize() != 100 {
		t.Errorf("CellSize = %v after resize, want 100", grid.CellSize())
	}
	// One large cell now holds everything
	if got := grid.SurroundingCells(a.Transform.Position, 0); len(got) != 2 {
		t.Errorf("resized grid neighbourhood has %d bodies, want 2", len(got))
	}
}
