package main

import (
	"fmt"

	"github.com/akmonengine/plume"
	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// PrintDebugger logs contacts the pipeline could not resolve
type PrintDebugger struct{}

func (d *PrintDebugger) UnresolvedContact(bodyA, bodyB *actor.Body, err error) {
	fmt.Printf("unresolved contact between #%d and #%d: %v\n", bodyA.ID, bodyB.ID, err)
}

// SetupScene creates a fixed floor and a stack of falling squares
func SetupScene() (*plume.World, []*actor.Body) {
	world := plume.NewWorld(800, 600)
	world.Gravity = mgl64.Vec2{0, -9.81}
	world.Debug = &PrintDebugger{}

	floor := actor.NewBody(
		actor.Transform{Position: mgl64.Vec2{0, -1}},
		actor.NewBoxPolygon(50, 1),
		actor.Material{Friction: 0.4},
		true, // fixed
	)
	world.AddBody(floor)

	var boxes []*actor.Body
	for i := 0; i < 3; i++ {
		box := actor.NewBody(
			actor.Transform{Position: mgl64.Vec2{0, 3 + float64(i)*2.5}},
			actor.NewBoxPolygon(0.5, 0.5),
			actor.Material{Mass: 1, Friction: 0.2, Restitution: 0.3},
			false,
		)
		box.OnCollide = func(other *actor.Body, contact actor.ContactData) {
			if other == floor {
				fmt.Printf("  box #%d touched the floor (depth %.4f)\n", box.ID, contact.Depth)
			}
		}
		world.AddBody(box)
		boxes = append(boxes, box)
	}

	return world, boxes
}

func main() {
	world, boxes := SetupScene()

	world.Events.Subscribe(plume.COLLISION_ENTER, func(event plume.Event) {
		e := event.(plume.CollisionEnterEvent)
		fmt.Printf("  collision enter: #%d / #%d\n", e.BodyA.ID, e.BodyB.ID)
	})
	world.Events.Subscribe(plume.COLLISION_EXIT, func(event plume.Event) {
		e := event.(plume.CollisionExitEvent)
		fmt.Printf("  collision exit: #%d / #%d\n", e.BodyA.ID, e.BodyB.ID)
	})

	const dt = 1.0 / 60.0
	const maxSteps = 300

	for step := 0; step < maxSteps; step++ {
		world.Step(dt)

		if step%30 == 0 {
			fmt.Printf("--- step %d ---\n", step)
			for _, box := range boxes {
				fmt.Printf("  box #%d: position=%v velocity=%v\n",
					box.ID, box.Transform.Position, box.Velocity)
			}
		}
	}

	fmt.Println("settled positions:")
	for _, box := range boxes {
		fmt.Printf("  box #%d: %v\n", box.ID, box.Transform.Position)
	}
}
