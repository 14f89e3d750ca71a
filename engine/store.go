package engine

import (
	"sync"
)

// Entity is a unique identifier for an entity; 0 is never issued
type Entity uint64

// AnyStore provides type-erased operations for lifecycle management
// World uses it to destroy entities without knowing concrete component types
type AnyStore interface {
	Remove(e Entity)
	Has(e Entity) bool
	Count() int
	Clear()
}

// Store is a generic container for a specific component type T
// Keeps an entity slice beside the map for stable iteration order
type Store[T any] struct {
	mu         sync.RWMutex
	components map[Entity]T
	entities   []Entity
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[Entity]T),
		entities:   make([]Entity, 0, 16),
	}
}

// Set inserts or updates a component for an entity
func (s *Store[T]) Set(e Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
}

// Get retrieves a component for an entity
func (s *Store[T]) Get(e Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.components[e]
	return val, ok
}

// Remove deletes the entity's component, keeping insertion order of the rest
func (s *Store[T]) Remove(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
}

// Has checks if entity has this component
func (s *Store[T]) Has(e Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[e]
	return ok
}

// All returns entities with this component in insertion order
func (s *Store[T]) All() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// Count returns number of entities with this component
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Clear removes all components from this store
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = make(map[Entity]T)
	s.entities = make([]Entity, 0, 16)
}
