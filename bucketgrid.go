package plume

import (
	"math"

	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// PaddingRatio is the fraction of the body-set extent added on each side of
// the bucket grid bounds, so small movements do not force a full repartition
const PaddingRatio = 0.5

// BucketGrid partitions the bounding region of all live bodies into a 2D
// array of equally sized cells. It answers proximity queries cheaply
// ("what is near the camera") and its bounds seed the per-tick quadtree.
//
// A full repartition is expensive, so it only happens when forced: on the
// first use, on a viewport resize, or when a body's AABB reaches the padded
// outer bound. Otherwise bodies are re-bucketed incrementally.
type BucketGrid struct {
	cellSize float64

	minX, minY float64
	maxX, maxY float64
	cols, rows int

	cells [][]*actor.Body
	// slot tracks the current cell of each body by ID for incremental moves
	slot map[int]int

	dirty bool
}

// NewBucketGrid creates a grid sized for the given viewport. Cells are half
// the viewport's larger dimension.
func NewBucketGrid(viewportW, viewportH float64) *BucketGrid {
	g := &BucketGrid{
		slot:  make(map[int]int),
		dirty: true,
	}
	g.SetViewport(viewportW, viewportH)

	return g
}

// SetViewport updates the cell size from the viewport dimensions and forces
// a full repartition on the next Maintain.
func (g *BucketGrid) SetViewport(w, h float64) {
	size := math.Max(w, h) / 2
	if size <= 0 || math.IsNaN(size) {
		size = 1
	}
	g.cellSize = size
	g.dirty = true
}

// CellSize returns the world-space size of one cell
func (g *BucketGrid) CellSize() float64 {
	return g.cellSize
}

// Bounds returns the padded region the grid currently covers
func (g *BucketGrid) Bounds() Rect {
	return Rect{X: g.minX, Y: g.minY, Width: g.maxX - g.minX, Height: g.maxY - g.minY}
}

// Partition rebuilds the grid from scratch: the padded bounds of the body
// set are divided into cells and every body is assigned to exactly one cell
// by linear interpolation of its position into index space.
func (g *BucketGrid) Partition(bodies []*actor.Body) {
	bounds := boundsOf(bodies)

	padX := bounds.Width * PaddingRatio
	padY := bounds.Height * PaddingRatio
	g.minX = bounds.X - padX
	g.minY = bounds.Y - padY
	g.maxX = bounds.X + bounds.Width + padX
	g.maxY = bounds.Y + bounds.Height + padY

	g.cols = g.axisCells(g.maxX - g.minX)
	g.rows = g.axisCells(g.maxY - g.minY)

	g.cells = make([][]*actor.Body, g.cols*g.rows)
	clear(g.slot)

	for _, body := range bodies {
		idx := g.cellIndex(body.Cache.Center)
		g.cells[idx] = append(g.cells[idx], body)
		g.slot[body.ID] = idx
	}

	g.dirty = false
}

func (g *BucketGrid) axisCells(extent float64) int {
	n := int(math.Ceil(extent / g.cellSize))
	if n < 1 || extent != extent { // NaN guard
		return 1
	}
	return n
}

// Maintain keeps the grid consistent with the current body set: a full
// Partition when forced (dirty grid, membership change, or a body reaching
// the outer bound), an incremental re-bucket of moved bodies otherwise.
func (g *BucketGrid) Maintain(bodies []*actor.Body) {
	if g.dirty || len(bodies) != len(g.slot) || g.anyNearBound(bodies) {
		g.Partition(bodies)
		return
	}

	for _, body := range bodies {
		idx := g.cellIndex(body.Cache.Center)
		prev, known := g.slot[body.ID]
		if !known {
			g.Partition(bodies)
			return
		}
		if idx == prev {
			continue
		}

		cell := g.cells[prev]
		for i, other := range cell {
			if other == body {
				g.cells[prev] = append(cell[:i], cell[i+1:]...)
				break
			}
		}
		g.cells[idx] = append(g.cells[idx], body)
		g.slot[body.ID] = idx
	}
}

// anyNearBound reports whether any body's AABB touches or exceeds the
// padded outer bound, the forced-repartition trigger
func (g *BucketGrid) anyNearBound(bodies []*actor.Body) bool {
	for _, body := range bodies {
		aabb := body.Cache.AABB()
		min, max := aabb.Min(), aabb.Max()
		if min.X() <= g.minX || min.Y() <= g.minY ||
			max.X() >= g.maxX || max.Y() >= g.maxY {
			return true
		}
	}
	return false
}

// cellIndex maps a world position to a cell index by linear interpolation
// into index space. Degenerate extents or NaN coordinates fall back to
// index 0 instead of propagating NaN through the spatial structures.
func (g *BucketGrid) cellIndex(pos mgl64.Vec2) int {
	col := g.interpolate(pos.X(), g.minX, g.maxX, g.cols)
	row := g.interpolate(pos.Y(), g.minY, g.maxY, g.rows)
	return row*g.cols + col
}

func (g *BucketGrid) interpolate(v, min, max float64, n int) int {
	extent := max - min
	if extent <= 0 {
		return 0
	}

	idx := int((v - min) / extent * float64(n))
	if idx != idx || idx < 0 { // NaN or out of range low
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// SurroundingCells returns the bodies in every cell within Chebyshev
// distance radius of the cell containing center. Radius 1 yields the 3×3
// block around the center cell.
func (g *BucketGrid) SurroundingCells(center mgl64.Vec2, radius int) []*actor.Body {
	if g.cells == nil {
		return nil
	}
	if radius < 0 {
		radius = 1
	}

	col := g.interpolate(center.X(), g.minX, g.maxX, g.cols)
	row := g.interpolate(center.Y(), g.minY, g.maxY, g.rows)

	var bodies []*actor.Body
	for dy := -radius; dy <= radius; dy++ {
		y := row + dy
		if y < 0 || y >= g.rows {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			x := col + dx
			if x < 0 || x >= g.cols {
				continue
			}
			bodies = append(bodies, g.cells[y*g.cols+x]...)
		}
	}

	return bodies
}

// Remove drops a body from its cell, called when it leaves the world
func (g *BucketGrid) Remove(body *actor.Body) {
	idx, known := g.slot[body.ID]
	if !known {
		return
	}
	delete(g.slot, body.ID)

	cell := g.cells[idx]
	for i, other := range cell {
		if other == body {
			g.cells[idx] = append(cell[:i], cell[i+1:]...)
			return
		}
	}
}
