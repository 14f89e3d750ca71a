package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/kartcore/event"
)

// Game binds the world, its clock and the event pipeline into one loop
type Game struct {
	World  *World
	Clock  *Clock
	Queue  *event.EventQueue
	Router *Router
}

// NewGame builds a stopped game with an empty world
func NewGame(log zerolog.Logger, step float64) *Game {
	q := event.NewEventQueue()
	return &Game{
		World:  NewWorld(log),
		Clock:  NewClock(step),
		Queue:  q,
		Router: NewRouter(q),
	}
}

// AddSystem registers a system, and its event handler side when it has one
func (g *Game) AddSystem(s System) {
	g.World.AddSystem(s)
	if h, ok := s.(EventHandler); ok {
		g.Router.Register(h)
	}
}

// Play starts the clock and the lifecycle systems; resuming from pause only unpauses
func (g *Game) Play() error {
	if !g.Clock.Play() {
		return nil
	}
	if err := g.World.Play(); err != nil {
		g.Clock.Stop()
		return fmt.Errorf("play: %w", err)
	}
	g.World.Log.Info().Msg("simulation playing")
	return nil
}

// Stop halts the clock and the lifecycle systems, then flushes pending events
func (g *Game) Stop() {
	if !g.Clock.Stop() {
		return
	}
	g.World.Stop()
	g.Router.Dispatch(g.World)
	g.World.Log.Info().Msg("simulation stopped")
}

// Tick advances by frame time and returns the number of steps run
// Events raised during a step are dispatched right after it
func (g *Game) Tick(frame time.Duration) int {
	n := g.Clock.Advance(frame)
	for i := 0; i < n; i++ {
		g.World.Update(g.Clock.Step())
		g.Router.Dispatch(g.World)
	}
	return n
}

// StepOnce runs exactly one fixed step regardless of frame time
func (g *Game) StepOnce() {
	if !g.Clock.ForceStep() {
		return
	}
	g.World.Update(g.Clock.Step())
	g.Router.Dispatch(g.World)
}
