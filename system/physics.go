package system

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/physics"
)

// PhysicsSystem mirrors scene colliders into the physics world, steps it,
// and routes trigger contacts to the car that touched them
type PhysicsSystem struct {
	world *physics.World
	cars  *CarSystem

	bodies map[engine.Entity]*physics.Body
}

func NewPhysicsSystem(pw *physics.World, cars *CarSystem) *PhysicsSystem {
	s := &PhysicsSystem{
		world:  pw,
		cars:   cars,
		bodies: make(map[engine.Entity]*physics.Body),
	}
	pw.OnCollision(s.onContact)
	return s
}

func (s *PhysicsSystem) Priority() int { return parameter.PriorityPhysics }

// World returns the physics world
func (s *PhysicsSystem) World() *physics.World { return s.world }

// LoadHeightmap generates terrain from an image; the collider is added on play
func (s *PhysicsSystem) LoadHeightmap(img image.Image, maxHeight float64) error {
	s.world.SetTerrainMaxHeight(maxHeight)
	return s.world.GenerateHeightmap(img)
}

// OnPlay adds a body for every collider entity and the terrain, if generated
func (s *PhysicsSystem) OnPlay(w *engine.World) error {
	for _, e := range w.Components.Collider.All() {
		if w.Components.Car.Has(e) {
			continue
		}
		col, _ := w.Components.Collider.Get(e)
		t, ok := w.Components.Transform.Get(e)
		if !ok {
			t = component.NewTransform(mgl64.Vec3{}, mgl64.QuatIdent())
		}

		var b *physics.Body
		if trig, ok := w.Components.Trigger.Get(e); ok {
			b = s.world.AddTrigger(col.Size, t.Position, t.Rotation, trig.Flags, trig.Checkpoint)
		} else {
			b = s.addSolid(col, t)
		}
		b.Owner = uint64(e)
		s.bodies[e] = b
	}

	if s.world.TerrainIsGenerated() {
		if err := s.world.AddTerrain(); err != nil && !errors.Is(err, physics.ErrTerrainActive) {
			return fmt.Errorf("add terrain: %w", err)
		}
	}
	w.Log.Debug().Int("bodies", s.world.NumBodies()).Int("vehicles", s.world.NumVehicles()).Msg("physics world built")
	return nil
}

func (s *PhysicsSystem) addSolid(col component.ColliderComponent, t component.TransformComponent) *physics.Body {
	switch col.Shape {
	case component.ColliderSphere:
		return s.world.AddSphere(col.Size.X(), col.Mass, t.Position)
	case component.ColliderCylinder:
		return s.world.AddCylinder(col.Size.X(), col.Size.Y(), col.Mass, t.Position, t.Rotation)
	default:
		return s.world.AddBox(col.Size, col.Mass, t.Position, t.Rotation)
	}
}

// OnStop empties the physics world; heightmap data is kept for the next play
func (s *PhysicsSystem) OnStop(w *engine.World) {
	s.world.CleanWorld()
	clear(s.bodies)
}

// OnDestroy removes the entity's collider from the physics world
func (s *PhysicsSystem) OnDestroy(w *engine.World, e engine.Entity) {
	b, ok := s.bodies[e]
	if !ok {
		return
	}
	delete(s.bodies, e)
	if err := s.world.RemoveBody(b); err != nil {
		w.Log.Warn().Err(err).Uint64("entity", uint64(e)).Msg("collider already gone")
	}
}

func (s *PhysicsSystem) Update(w *engine.World, dt float64) {
	s.world.Step(dt)
}

// Body returns the physics body built for an entity
func (s *PhysicsSystem) Body(e engine.Entity) (*physics.Body, bool) {
	b, ok := s.bodies[e]
	return b, ok
}

// onContact forwards trigger roles, with the trigger's transform as the new respawn point
func (s *PhysicsSystem) onContact(c physics.Contact) {
	car, ok := s.cars.CarByVehicle(c.Vehicle)
	if !ok {
		return
	}
	car.Controller.OnCollision(c.Other.Flags, c.Other.Checkpoint, c.Other.Position(), c.Other.Rotation())
}
