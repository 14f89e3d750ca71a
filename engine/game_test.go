package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/parameter"
)

// emitSystem raises one lap event per update and counts the laps it receives
type emitSystem struct {
	queue    *event.EventQueue
	received []int64
	stopped  bool
}

func (s *emitSystem) Update(w *World, dt float64) {
	s.queue.Push(event.GameEvent{Type: event.EventLap, Frame: int64(len(s.received))})
}

func (s *emitSystem) Priority() int { return parameter.PriorityCar }

func (s *emitSystem) HandleEvent(w *World, ev event.GameEvent) {
	s.received = append(s.received, ev.Frame)
}

func (s *emitSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventLap}
}

func (s *emitSystem) OnPlay(w *World) error { return nil }

func (s *emitSystem) OnStop(w *World) {
	s.stopped = true
	s.queue.Push(event.GameEvent{Type: event.EventLap, Frame: -1})
}

func TestRouterDispatch(t *testing.T) {
	q := event.NewEventQueue()
	r := NewRouter(q)
	h := &emitSystem{queue: q}
	r.Register(h)
	assert.Equal(t, 1, r.HandlerCount(event.EventLap))
	assert.Zero(t, r.HandlerCount(event.EventFinish))

	q.Push(event.GameEvent{Type: event.EventLap, Frame: 4})
	q.Push(event.GameEvent{Type: event.EventFinish})
	assert.Equal(t, 2, r.Dispatch(NewWorld(zerolog.Nop())))
	assert.Equal(t, []int64{4}, h.received)
}

func TestGameDispatchesAfterEachStep(t *testing.T) {
	g := NewGame(zerolog.Nop(), parameter.FixedTimeStep)
	s := &emitSystem{queue: g.Queue}
	g.AddSystem(s)

	require.NoError(t, g.Play())
	n := g.Tick(stepDuration(3))
	assert.Equal(t, 3, n)
	// Each step sees the events of the previous step already handled
	assert.Equal(t, []int64{0, 1, 2}, s.received)

	g.Clock.Pause()
	g.StepOnce()
	assert.Len(t, s.received, 3)

	g.Clock.TogglePause()
	g.StepOnce()
	assert.Len(t, s.received, 4)
}

func TestGameStopFlushesEvents(t *testing.T) {
	g := NewGame(zerolog.Nop(), 0)
	s := &emitSystem{queue: g.Queue}
	g.AddSystem(s)

	require.NoError(t, g.Play())
	g.Stop()
	assert.True(t, s.stopped)
	assert.Equal(t, []int64{-1}, s.received)

	g.Stop()
	assert.Len(t, s.received, 1)
}
