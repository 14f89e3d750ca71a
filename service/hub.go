package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrDuplicate  = errors.New("service already registered")
	ErrMissingDep = errors.New("service depends on unregistered service")
	ErrCycle      = errors.New("circular service dependency")
)

// Hub owns service instances and runs their lifecycle in dependency order
type Hub struct {
	mu       sync.RWMutex
	log      zerolog.Logger
	services map[string]Service
	order    []string // Registration order, keeps the sort stable
	sorted   []string
	inited   []string
	started  []string
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{log: log, services: make(map[string]Service)}
}

// Register adds a service; the cached order is recomputed on the next InitAll
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.services[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.services[name] = svc
	h.order = append(h.order, name)
	h.sorted = nil
	return nil
}

func (h *Hub) Get(name string) (Service, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	svc, ok := h.services[name]
	return svc, ok
}

// Lookup returns the named service as T
func Lookup[T any](h *Hub, name string) (T, bool) {
	var zero T
	svc, ok := h.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := svc.(T)
	return typed, ok
}

// InitAll initializes every service in dependency order
// On failure the already initialized services are stopped in reverse order
func (h *Hub) InitAll(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sorted == nil {
		order, err := h.topologicalSort()
		if err != nil {
			return err
		}
		h.sorted = order
	}

	h.inited = h.inited[:0]
	for _, name := range h.sorted {
		if err := h.services[name].Init(ctx); err != nil {
			h.stopReverse(h.inited)
			h.inited = nil
			return fmt.Errorf("service %s init: %w", name, err)
		}
		h.inited = append(h.inited, name)
		h.log.Debug().Str("service", name).Msg("service initialized")
	}
	return nil
}

// StartAll starts initialized services in dependency order
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.started = h.started[:0]
	for _, name := range h.inited {
		if err := h.services[name].Start(); err != nil {
			h.stopReverse(h.inited)
			h.started = nil
			return fmt.Errorf("service %s start: %w", name, err)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops every initialized service in reverse dependency order
// Stop errors are logged; every service still gets its Stop call
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopReverse(h.inited)
	h.inited = nil
	h.started = nil
}

func (h *Hub) stopReverse(names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		if err := h.services[names[i]].Stop(); err != nil {
			h.log.Error().Err(err).Str("service", names[i]).Msg("service stop failed")
		}
	}
}

// topologicalSort orders services with Kahn's algorithm, ties broken by registration order
func (h *Hub) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(h.services))
	dependents := make(map[string][]string)

	for _, name := range h.order {
		for _, dep := range h.services[name].Dependencies() {
			if _, ok := h.services[dep]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrMissingDep, name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for _, name := range h.order {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	result := make([]string, 0, len(h.services))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, name)
		for _, d := range dependents[name] {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(result) != len(h.services) {
		return nil, ErrCycle
	}
	return result, nil
}

// Names returns service names in registration order
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}
