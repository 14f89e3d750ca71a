package system

import (
	"sync/atomic"

	"github.com/lixenwraith/kartcore/animation"
	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/input"
	"github.com/lixenwraith/kartcore/kart"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/physics"
	"github.com/lixenwraith/kartcore/status"
)

// Car is one controller in play and the entity it was built from
type Car struct {
	Entity     engine.Entity
	Name       string
	Controller *kart.Controller
	Rig        *animation.Bridge

	// HUD metrics, cached at play
	statKmh      *status.AtomicFloat
	statLap      *atomic.Int64
	statCheck    *atomic.Int64
	statTurbo    *status.AtomicString
	statDrift    *atomic.Int64
	statHitodama *atomic.Int64
	statTime     *status.AtomicFloat
	statFinished *atomic.Bool
}

// RigFactory builds the animation rigs for a car entity; nil rigs are allowed
type RigFactory func(e engine.Entity) (driver, body animation.Animator)

// CarSystem builds a controller for every active car record on play and ticks them
type CarSystem struct {
	physics *physics.World
	src     input.Source
	events  event.Emitter
	status  *status.Registry
	rigs    RigFactory

	cars      []*Car
	byVehicle map[*physics.RigidVehicle]*Car
}

// NewCarSystem wires controllers to the physics world, the shared input source and the event queue
func NewCarSystem(pw *physics.World, src input.Source, events event.Emitter, reg *status.Registry) *CarSystem {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &CarSystem{
		physics:   pw,
		src:       src,
		events:    events,
		status:    reg,
		byVehicle: make(map[*physics.RigidVehicle]*Car),
	}
}

// SetRigFactory attaches visual rigs to cars created on the next play
func (s *CarSystem) SetRigFactory(f RigFactory) { s.rigs = f }

func (s *CarSystem) Priority() int { return parameter.PriorityCar }

// OnPlay creates controllers in entity order
// A car whose vehicle cannot be built is skipped; the race still runs
func (s *CarSystem) OnPlay(w *engine.World) error {
	factory := kart.WorldFactory(s.physics)
	for _, e := range w.Components.Car.All() {
		cfg, ok := w.Components.Car.Get(e)
		if !ok || !cfg.Active {
			continue
		}
		t, ok := w.Components.Transform.Get(e)
		if !ok {
			w.Log.Warn().Uint64("entity", uint64(e)).Msg("car without transform skipped")
			continue
		}
		name, _ := w.Components.Name.Get(e)
		if name == "" {
			name = "car"
		}
		log := w.Log.With().Str("car", name).Logger()

		var driver, body animation.Animator
		if s.rigs != nil {
			driver, body = s.rigs(e)
		}
		rig, err := animation.NewBridge(driver, body, animation.Options{})
		if err != nil {
			return err
		}

		ctrl := kart.New(cfg, s.src, factory,
			kart.WithLogger(log),
			kart.WithEvents(s.events),
			kart.WithOwner(uint64(e)),
			kart.WithAnimation(rig),
		)
		if err := ctrl.OnPlay(t.Position, t.Rotation); err != nil {
			continue
		}

		car := &Car{Entity: e, Name: name, Controller: ctrl, Rig: rig}
		s.bindStats(car)
		s.cars = append(s.cars, car)
		if rv, ok := ctrl.Vehicle().(*physics.RigidVehicle); ok {
			rv.Chassis().Owner = uint64(e)
			s.byVehicle[rv] = car
		}
	}
	w.Log.Info().Int("cars", len(s.cars)).Msg("cars in play")
	return nil
}

// OnStop releases every controller
func (s *CarSystem) OnStop(w *engine.World) {
	for _, c := range s.cars {
		c.Controller.OnStop()
	}
	s.cars = nil
	clear(s.byVehicle)
}

// OnDestroy removes the entity's car from play
func (s *CarSystem) OnDestroy(w *engine.World, e engine.Entity) {
	if s.RemoveCar(e) {
		w.Log.Info().Uint64("entity", uint64(e)).Msg("car removed")
	}
}

// RemoveCar stops the entity's controller and releases its vehicle from the physics world
// Reports false if the entity has no car in play
func (s *CarSystem) RemoveCar(e engine.Entity) bool {
	idx := -1
	for i, c := range s.cars {
		if c.Entity == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	car := s.cars[idx]
	rv, isRigid := car.Controller.Vehicle().(*physics.RigidVehicle)
	car.Controller.OnStop()
	if isRigid {
		delete(s.byVehicle, rv)
		// Already gone if the world was cleaned
		_ = s.physics.RemoveVehicle(rv)
	}
	s.cars = append(s.cars[:idx], s.cars[idx+1:]...)
	return true
}

// inputTicker is a source that publishes key edges once per step
type inputTicker interface{ Tick() }

func (s *CarSystem) Update(w *engine.World, dt float64) {
	if t, ok := s.src.(inputTicker); ok {
		t.Tick()
	}
	for _, c := range s.cars {
		c.Controller.Update(dt)
		s.publish(c)
	}
}

// Cars returns the cars in play
func (s *CarSystem) Cars() []*Car { return s.cars }

// CarByVehicle resolves a physics vehicle to its car
func (s *CarSystem) CarByVehicle(v *physics.RigidVehicle) (*Car, bool) {
	c, ok := s.byVehicle[v]
	return c, ok
}

// CarByEntity finds a car by its scene entity
func (s *CarSystem) CarByEntity(e engine.Entity) (*Car, bool) {
	for _, c := range s.cars {
		if c.Entity == e {
			return c, true
		}
	}
	return nil, false
}

func (s *CarSystem) bindStats(c *Car) {
	p := c.Name + "."
	c.statKmh = s.status.Floats.Get(p + "kmh")
	c.statTime = s.status.Floats.Get(p + "time")
	c.statLap = s.status.Ints.Get(p + "lap")
	c.statCheck = s.status.Ints.Get(p + "checkpoints")
	c.statDrift = s.status.Ints.Get(p + "drift")
	c.statHitodama = s.status.Ints.Get(p + "hitodamas")
	c.statTurbo = s.status.Strings.Get(p + "turbo")
	c.statFinished = s.status.Bools.Get(p + "finished")
	s.publish(c)
}

func (s *CarSystem) publish(c *Car) {
	st := c.Controller.State()
	if v := c.Controller.Vehicle(); v != nil {
		c.statKmh.Set(v.GetKmh())
	}
	c.statTime.Set(st.RaceTime)
	c.statLap.Store(int64(st.Lap))
	c.statCheck.Store(int64(st.NumCheckpoints))
	c.statDrift.Store(int64(st.DriftTurboLevel))
	c.statHitodama.Store(int64(st.NumHitodamas))
	c.statTurbo.Store(st.CurrentTurbo.String())
	c.statFinished.Store(st.Finished)
}
