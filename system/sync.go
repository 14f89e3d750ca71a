package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/physics"
	"github.com/lixenwraith/kartcore/vmath"
)

// TransformSyncSystem copies simulated placements back into entity transforms:
// car chassis, linked wheel entities and dynamic bodies
type TransformSyncSystem struct {
	cars    *CarSystem
	physics *PhysicsSystem
}

func NewTransformSyncSystem(cars *CarSystem, ps *PhysicsSystem) *TransformSyncSystem {
	return &TransformSyncSystem{cars: cars, physics: ps}
}

func (s *TransformSyncSystem) Priority() int { return parameter.PrioritySync }

func (s *TransformSyncSystem) Update(w *engine.World, dt float64) {
	for _, c := range s.cars.Cars() {
		v := c.Controller.Vehicle()
		if v == nil {
			continue
		}
		setPlacement(w, c.Entity, v.Position(), v.Rotation())

		rv, ok := v.(*physics.RigidVehicle)
		if !ok {
			continue
		}
		links, ok := w.Components.WheelLinks.Get(c.Entity)
		if !ok {
			continue
		}
		for i, id := range links.Wheels {
			if id == 0 || i >= rv.NumWheels() {
				continue
			}
			m := rv.WheelTransform(i)
			setPlacement(w, engine.Entity(id), vmath.Translation(m), mgl64.Mat4ToQuat(m))
		}
	}

	for _, e := range w.Components.Collider.All() {
		b, ok := s.physics.Body(e)
		if !ok || b.IsStatic() {
			continue
		}
		setPlacement(w, e, b.Position(), b.Rotation())
	}
}

// setPlacement keeps the entity's scale
func setPlacement(w *engine.World, e engine.Entity, pos mgl64.Vec3, rot mgl64.Quat) {
	t, ok := w.Components.Transform.Get(e)
	if !ok {
		t.Scale = mgl64.Vec3{1, 1, 1}
	}
	t.Position = pos
	t.Rotation = rot
	w.Components.Transform.Set(e, t)
}
