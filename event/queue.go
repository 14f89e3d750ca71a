package event

import (
	"sync/atomic"

	"github.com/lixenwraith/kartcore/parameter"
)

// GameEvent is one queued race event
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64 // Simulation tick the event was raised on
}

// Emitter accepts events; EventQueue is the production implementation
type Emitter interface {
	Push(GameEvent)
}

type slot struct {
	ev    GameEvent
	ready atomic.Bool // Set once ev is fully written, cleared by the reader
}

// EventQueue is a lock-free MPSC ring of race events
// Any goroutine may Push; only the sim loop consumes
// When full, the oldest unread events are overwritten and counted
type EventQueue struct {
	slots       [parameter.EventQueueSize]slot
	read        atomic.Uint64
	write       atomic.Uint64
	overwritten atomic.Uint64
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push claims the next write index, stores the event, then marks the slot ready
func (q *EventQueue) Push(ev GameEvent) {
	var idx uint64
	for {
		idx = q.write.Load()
		if q.write.CompareAndSwap(idx, idx+1) {
			break
		}
	}

	s := &q.slots[idx&parameter.EventBufferMask]
	s.ev = ev
	s.ready.Store(true)

	// Drag the reader forward past slots this write lapped
	floor := idx + 1 - min(idx+1, parameter.EventQueueSize)
	if r := q.read.Load(); r < floor && q.read.CompareAndSwap(r, floor) {
		q.overwritten.Add(floor - r)
	}
}

// Consume drains ready events in order; stops early at a slot still being written
func (q *EventQueue) Consume() []GameEvent {
	for {
		start, w := q.read.Load(), q.write.Load()
		if start == w {
			return nil
		}
		n := min(w-start, parameter.EventQueueSize)
		r := w - n

		out := make([]GameEvent, 0, n)
		for i := uint64(0); i < n; i++ {
			s := &q.slots[(r+i)&parameter.EventBufferMask]
			if !s.ready.Load() {
				break
			}
			out = append(out, s.ev)
			s.ready.Store(false)
		}

		if q.read.CompareAndSwap(start, r+uint64(len(out))) {
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
}

// Len is the approximate number of unread events
func (q *EventQueue) Len() int {
	r, w := q.read.Load(), q.write.Load()
	if w <= r {
		return 0
	}
	return int(min(w-r, parameter.EventQueueSize))
}

// Overwritten counts events lost to overflow since creation
func (q *EventQueue) Overwritten() uint64 { return q.overwritten.Load() }
