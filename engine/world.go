package engine

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/kartcore/component"
)

// System is updated once per fixed step in priority order
type System interface {
	Update(w *World, dt float64)
	Priority() int // Lower values run first
}

// Lifecycle is implemented by systems that react to play and stop
type Lifecycle interface {
	OnPlay(w *World) error
	OnStop(w *World)
}

// Destroyer is implemented by systems that own resources tied to an entity
// OnDestroy runs before the entity's components are removed
type Destroyer interface {
	OnDestroy(w *World, e Entity)
}

// ComponentStore holds one typed store per component kind
type ComponentStore struct {
	Name       *Store[string]
	UUID       *Store[string]
	Transform  *Store[component.TransformComponent]
	Car        *Store[component.CarConfig]
	Trigger    *Store[component.TriggerComponent]
	Collider   *Store[component.ColliderComponent]
	WheelLinks *Store[component.WheelLinksComponent]
}

func newComponentStore() ComponentStore {
	return ComponentStore{
		Name:       NewStore[string](),
		UUID:       NewStore[string](),
		Transform:  NewStore[component.TransformComponent](),
		Car:        NewStore[component.CarConfig](),
		Trigger:    NewStore[component.TriggerComponent](),
		Collider:   NewStore[component.ColliderComponent](),
		WheelLinks: NewStore[component.WheelLinksComponent](),
	}
}

func (c *ComponentStore) all() []AnyStore {
	return []AnyStore{c.Name, c.UUID, c.Transform, c.Car, c.Trigger, c.Collider, c.WheelLinks}
}

// World contains all entities, their components and the system list
// Single simulation goroutine; stores carry their own locks for readers such as the HUD
type World struct {
	Log        zerolog.Logger
	Components ComponentStore

	nextEntityID Entity
	extra        []AnyStore
	systems      []System
}

// NewWorld creates an empty world
func NewWorld(log zerolog.Logger) *World {
	return &World{
		Log:          log,
		Components:   newComponentStore(),
		nextEntityID: 1,
	}
}

// RegisterStore adds a system-owned store to entity destruction and Clear
func (w *World) RegisterStore(s AnyStore) {
	w.extra = append(w.extra, s)
}

// CreateEntity reserves a new entity ID
func (w *World) CreateEntity() Entity {
	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// DestroyEntity releases system resources for an entity and removes its components
func (w *World) DestroyEntity(e Entity) {
	for _, sys := range w.systems {
		if d, ok := sys.(Destroyer); ok {
			d.OnDestroy(w, e)
		}
	}
	for _, s := range w.Components.all() {
		s.Remove(e)
	}
	for _, s := range w.extra {
		s.Remove(e)
	}
}

// Clear removes all entities and components
func (w *World) Clear() {
	for _, s := range w.Components.all() {
		s.Clear()
	}
	for _, s := range w.extra {
		s.Clear()
	}
	w.nextEntityID = 1
}

// AddSystem adds a system and keeps the list sorted by priority
// Equal priorities keep registration order
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	sort.SliceStable(w.systems, func(i, j int) bool {
		return w.systems[i].Priority() < w.systems[j].Priority()
	})
}

// Systems returns a copy of all registered systems
func (w *World) Systems() []System {
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// Update runs all systems sequentially
func (w *World) Update(dt float64) {
	for _, s := range w.systems {
		s.Update(w, dt)
	}
}

// Play notifies lifecycle systems in priority order
// A failing system stops the ones already started, in reverse order
func (w *World) Play() error {
	var started []Lifecycle
	for _, s := range w.systems {
		l, ok := s.(Lifecycle)
		if !ok {
			continue
		}
		if err := l.OnPlay(w); err != nil {
			for i := len(started) - 1; i >= 0; i-- {
				started[i].OnStop(w)
			}
			return err
		}
		started = append(started, l)
	}
	return nil
}

// Stop notifies lifecycle systems in reverse priority order
func (w *World) Stop() {
	for i := len(w.systems) - 1; i >= 0; i-- {
		if l, ok := w.systems[i].(Lifecycle); ok {
			l.OnStop(w)
		}
	}
}
