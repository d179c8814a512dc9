package plume

import "github.com/akmonengine/plume/actor"

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
	OVERLAP_ENTER
	OVERLAP_STAY
	OVERLAP_EXIT
)

type EventType uint8

// pairKey identifies an unordered body pair by stable IDs
type pairKey struct {
	bodyA *actor.Body
	bodyB *actor.Body
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB *actor.Body) pairKey {
	if bodyB.ID < bodyA.ID {
		bodyA, bodyB = bodyB, bodyA
	}
	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

// packPairID packs an unordered ID pair into one cache key
func packPairID(a, b int) uint64 {
	if b < a {
		a, b = b, a
	}
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Collision events (solid, blocking pairs)
type CollisionEnterEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// Overlap events (non-blocking pairs with AllowOverlapEvents)
type OverlapEnterEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e OverlapEnterEvent) Type() EventType { return OVERLAP_ENTER }

type OverlapStayEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e OverlapStayEvent) Type() EventType { return OVERLAP_STAY }

type OverlapExitEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e OverlapExitEvent) Type() EventType { return OVERLAP_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers the scene-level view of what happened during a tick and
// derives Enter/Stay/Exit transitions from the previous tick's active pairs.
// Per-body hooks (OnCollide, OnOverlap) fire synchronously inside the
// resolution loop; listeners subscribed here are flushed at the end of Step.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	previousCollisionPairs map[pairKey]bool
	currentCollisionPairs  map[pairKey]bool
	previousOverlapPairs   map[pairKey]bool
	currentOverlapPairs    map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:              make(map[EventType][]EventListener),
		buffer:                 make([]Event, 0, 256),
		previousCollisionPairs: make(map[pairKey]bool),
		currentCollisionPairs:  make(map[pairKey]bool),
		previousOverlapPairs:   make(map[pairKey]bool),
		currentOverlapPairs:    make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollision marks a solid pair active this tick
func (e *Events) recordCollision(bodyA, bodyB *actor.Body) {
	e.currentCollisionPairs[makePairKey(bodyA, bodyB)] = true
}

// recordOverlap marks a non-blocking overlap pair active this tick
func (e *Events) recordOverlap(bodyA, bodyB *actor.Body) {
	e.currentOverlapPairs[makePairKey(bodyA, bodyB)] = true
}

// forget drops every pair involving a removed body
func (e *Events) forget(body *actor.Body) {
	for _, pairs := range []map[pairKey]bool{
		e.previousCollisionPairs, e.currentCollisionPairs,
		e.previousOverlapPairs, e.currentOverlapPairs,
	} {
		for pair := range pairs {
			if pair.bodyA == body || pair.bodyB == body {
				delete(pairs, pair)
			}
		}
	}
}

// processPairEvents compares current and previous pairs to detect
// Enter/Stay/Exit transitions
func (e *Events) processPairEvents() {
	for pair := range e.currentCollisionPairs {
		if e.previousCollisionPairs[pair] {
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}
	for pair := range e.previousCollisionPairs {
		if !e.currentCollisionPairs[pair] {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	for pair := range e.currentOverlapPairs {
		if e.previousOverlapPairs[pair] {
			e.buffer = append(e.buffer, OverlapStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, OverlapEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}
	for pair := range e.previousOverlapPairs {
		if !e.currentOverlapPairs[pair] {
			e.buffer = append(e.buffer, OverlapExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	// Swap for next tick and clear current
	e.previousCollisionPairs, e.currentCollisionPairs = e.currentCollisionPairs, e.previousCollisionPairs
	clear(e.currentCollisionPairs)
	e.previousOverlapPairs, e.currentOverlapPairs = e.currentOverlapPairs, e.previousOverlapPairs
	clear(e.currentOverlapPairs)
}

// flush derives the pair transitions, sends all buffered events and clears
// the buffer
func (e *Events) flush() {
	e.processPairEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
