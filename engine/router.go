package engine

import (
	"github.com/lixenwraith/kartcore/event"
)

// EventHandler processes specific event types
// Systems implement this interface to receive routed events
type EventHandler interface {
	// HandleEvent is called synchronously during dispatch, after the step that raised the event
	HandleEvent(w *World, ev event.GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []event.EventType
}

// Router dispatches queued events to registered handlers
//
//   - Single-threaded dispatch, so handlers may mutate the World
//   - Handlers for one type run in registration order
//   - Events are drained in FIFO order once per step
type Router struct {
	handlers map[event.EventType][]EventHandler
	queue    *event.EventQueue
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *event.EventQueue) *Router {
	return &Router{
		handlers: make(map[event.EventType][]EventHandler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(h EventHandler) {
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// Dispatch consumes all pending events and routes them; returns the event count
func (r *Router) Dispatch(w *World) int {
	events := r.queue.Consume()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(w, ev)
		}
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t event.EventType) int {
	return len(r.handlers[t])
}
