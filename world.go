package plume

import (
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/manifold"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// ResolutionIterations is the cap on fixed-point resolution passes per tick.
// Simultaneous multi-body contacts (stacking) converge over several passes;
// the loop stops early as soon as a pass produces no new collision.
const ResolutionIterations = 8

// MaxStepTime is the largest time slice ever integrated in one step.
// Excess time is banked and redistributed across subsequent frames to avoid
// large-step instability.
const MaxStepTime = 1.0

// Viewport is the host rendering surface size, used to size bucket cells
type Viewport struct {
	W, H float64
}

// Debugger receives best-effort diagnostics from the collision pipeline.
// It is passed in explicitly by the host (nil disables it); the core keeps
// no global debug state.
type Debugger interface {
	// UnresolvedContact fires when a colliding pair produced no usable
	// contact manifold and was skipped for this sample
	UnresolvedContact(bodyA, bodyB *actor.Body, err error)
}

// World owns the bodies and the per-tick simulation pipeline
type World struct {
	// List of all live bodies in the world
	Bodies []*actor.Body
	// Gravity acceleration applied to every non-fixed body
	Gravity  mgl64.Vec2
	Viewport Viewport
	// Camera is the proximity-query focus supplied by the host
	Camera  mgl64.Vec2
	Workers int
	Debug   Debugger

	Grid   *BucketGrid
	Tree   *Quadtree
	Events Events

	nextID   int
	timeBank float64

	// Per-tick scratch, cleared and reused instead of reallocated
	pairSeen    map[uint64]bool
	overlapSeen map[uint64]bool
	candidates  []*actor.Body
}

// NewWorld creates an empty world sized for the given viewport
func NewWorld(viewportW, viewportH float64) *World {
	return &World{
		Viewport:    Viewport{W: viewportW, H: viewportH},
		Workers:     DEFAULT_WORKERS,
		Grid:        NewBucketGrid(viewportW, viewportH),
		Tree:        NewQuadtree(Rect{}),
		Events:      NewEvents(),
		pairSeen:    make(map[uint64]bool),
		overlapSeen: make(map[uint64]bool),
	}
}

// AddBody adds a body to the world, assigning its stable ID and computing
// its initial cache and spatial placement
func (w *World) AddBody(body *actor.Body) {
	w.nextID++
	body.ID = w.nextID
	body.CacheCalculations()
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a body from the world and purges it from the spatial
// structures and event maps it was inserted into
func (w *World) RemoveBody(body *actor.Body) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}
	if k == -1 {
		return
	}
	w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)

	w.Grid.Remove(body)
	w.Events.forget(body)
}

// SetViewport updates the viewport dimensions; the bucket grid re-sizes its
// cells and fully repartitions on the next step
func (w *World) SetViewport(width, height float64) {
	w.Viewport = Viewport{W: width, H: height}
	w.Grid.SetViewport(width, height)
}

// Nearby returns the bodies in bucket cells within Chebyshev distance
// radius of the cell containing center. The host uses it for visibility and
// update culling around the camera.
func (w *World) Nearby(center mgl64.Vec2, radius int) []*actor.Body {
	return w.Grid.SurroundingCells(center, radius)
}

// Step advances the whole simulation by dt, synchronously. The effective
// step never exceeds MaxStepTime: excess time is banked and drained on
// later frames, so a stalled host cannot force an unstable large step.
func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	dt += w.timeBank
	w.timeBank = 0
	if dt > MaxStepTime {
		w.timeBank = dt - MaxStepTime
		dt = MaxStepTime
	}
	if dt <= 0 {
		return
	}

	// Phase 1: integrate forces and refresh every per-frame cache
	task(w.Workers, w.Bodies, func(body *actor.Body) {
		body.Integrate(dt, w.Gravity)
		body.CacheCalculations()
	})

	// Phase 2: spatial maintenance - amortized bucket repartition, cheap
	// quadtree rebuild
	w.Grid.Maintain(w.Bodies)

	// Phase 3: fixed-point collision resolution
	clear(w.overlapSeen)
	for iter := 0; iter < ResolutionIterations; iter++ {
		w.rebuildTree()

		task(w.Workers, w.Bodies, (*actor.Body).ResetAccumulators)

		collisions := w.detectCollisions()

		task(w.Workers, w.Bodies, (*actor.Body).ApplyResolution)

		if collisions == 0 {
			break
		}
	}

	// Phase 4: deliver the buffered scene-level events
	w.Events.flush()
}

// rebuildTree recomputes the quadtree over the current bucket bounds and
// reinserts every body. Rebuilding each pass is cheap compared to the
// pairwise tests it prunes.
func (w *World) rebuildTree() {
	w.Tree.Reset(w.Grid.Bounds())
	for _, body := range w.Bodies {
		w.Tree.Insert(body)
	}
}

// detectCollisions walks every body's quadtree candidates once (deduped by
// unordered ID pair) and finalizes each confirmed contact into the bodies'
// accumulators. Returns how many new collisions this pass produced.
func (w *World) detectCollisions() int {
	clear(w.pairSeen)
	collisions := 0

	for _, bodyA := range w.Bodies {
		w.candidates = w.Tree.Retrieve(w.candidates[:0], bodyA)

		for _, bodyB := range w.candidates {
			if bodyB.ID <= bodyA.ID {
				continue
			}
			key := packPairID(bodyA.ID, bodyB.ID)
			if w.pairSeen[key] {
				continue
			}
			w.pairSeen[key] = true

			if w.collidePair(bodyA, bodyB) {
				collisions++
			}
		}
	}

	return collisions
}

// collidePair runs the full pipeline for one candidate pair: gameplay
// filter, broad phase, overlap notification, multi-sampled narrow phase,
// manifold generation and contact finalization. Returns true when a solid
// collision was finalized.
func (w *World) collidePair(bodyA, bodyB *actor.Body) bool {
	if bodyA.Fixed && bodyB.Fixed {
		return false
	}
	if !bodyA.MayCollideWith(bodyB) || !bodyB.MayCollideWith(bodyA) {
		return false
	}

	overlapping := BroadPhase(bodyA, bodyB)

	// Overlap notification is broad-phase only and independent of the
	// blocking pipeline: no impulses, no displacement, at most once per tick
	if overlapping && (bodyA.AllowOverlapEvents || bodyB.AllowOverlapEvents) {
		key := packPairID(bodyA.ID, bodyB.ID)
		if !w.overlapSeen[key] {
			w.overlapSeen[key] = true
			w.Events.recordOverlap(bodyA, bodyB)
			if bodyA.AllowOverlapEvents && bodyA.OnOverlap != nil {
				bodyA.OnOverlap(bodyB)
			}
			if bodyB.AllowOverlapEvents && bodyB.OnOverlap != nil {
				bodyB.OnOverlap(bodyA)
			}
		}
	}

	if !bodyA.Solid || !bodyB.Solid {
		return false
	}
	// A fast mover's end-of-tick AABB may clear the target even though its
	// path crossed it; only the sampled narrow phase can reject those
	if !overlapping && !isFast(bodyA) && !isFast(bodyB) {
		return false
	}

	res := NarrowPhase(bodyA, bodyB)
	if !res.Colliding {
		return false
	}

	contact, err := manifold.Generate(bodyA, bodyB, res)
	if err != nil {
		if w.Debug != nil {
			w.Debug.UnresolvedContact(bodyA, bodyB, err)
		}
		return false
	}

	contact.Finalize()
	w.Events.recordCollision(bodyA, bodyB)

	return true
}
