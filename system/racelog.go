package system

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/storage"
)

// ResultStore persists race results
type ResultStore interface {
	SaveLap(ctx context.Context, lap *storage.LapRecord) error
	SaveRace(ctx context.Context, session string, res *storage.RaceResult) error
}

// RaceLogSystem writes a lap record per completed lap and a result per finished race
// Store failures are logged and never stop the race
type RaceLogSystem struct {
	store   ResultStore
	scene   string
	session string

	best map[uint64]float64
}

func NewRaceLogSystem(store ResultStore, scene string) *RaceLogSystem {
	return &RaceLogSystem{store: store, scene: scene, best: make(map[uint64]float64)}
}

func (s *RaceLogSystem) Priority() int { return parameter.PriorityRaceLog }

func (s *RaceLogSystem) Update(w *engine.World, dt float64) {}

// OnPlay opens a new session; laps are grouped by session until the race result links them
func (s *RaceLogSystem) OnPlay(w *engine.World) error {
	s.session = fmt.Sprintf("%s-%s", s.scene, uuid.NewString())
	clear(s.best)
	return nil
}

func (s *RaceLogSystem) OnStop(w *engine.World) {}

// Session returns the current session key
func (s *RaceLogSystem) Session() string { return s.session }

func (s *RaceLogSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventLap, event.EventFinish}
}

func (s *RaceLogSystem) HandleEvent(w *engine.World, ev event.GameEvent) {
	p, ok := ev.Payload.(event.LapPayload)
	if !ok || s.store == nil {
		return
	}
	e := engine.Entity(p.Car)
	name, _ := w.Components.Name.Get(e)
	kartType := ""
	if cfg, ok := w.Components.Car.Get(e); ok {
		kartType = cfg.Kart.String()
	}
	ctx := context.Background()

	switch ev.Type {
	case event.EventLap:
		if b, seen := s.best[p.Car]; !seen || p.LapTime < b {
			s.best[p.Car] = p.LapTime
		}
		rec := &storage.LapRecord{
			Session:   s.session,
			Car:       name,
			Kart:      kartType,
			Scene:     s.scene,
			Lap:       p.Lap,
			LapTime:   p.LapTime,
			TotalTime: p.TotalTime,
		}
		if err := s.store.SaveLap(ctx, rec); err != nil {
			w.Log.Error().Err(err).Str("car", name).Int("lap", p.Lap).Msg("lap not saved")
			return
		}
		w.Log.Info().Str("car", name).Int("lap", p.Lap).Float64("lap_time", p.LapTime).Msg("lap completed")

	case event.EventFinish:
		res := &storage.RaceResult{
			Car:       name,
			Kart:      kartType,
			Scene:     s.scene,
			Laps:      p.Lap,
			TotalTime: p.TotalTime,
			BestLap:   s.best[p.Car],
			Finished:  time.Now(),
		}
		if err := s.store.SaveRace(ctx, s.session, res); err != nil {
			w.Log.Error().Err(err).Str("car", name).Msg("race result not saved")
			return
		}
		w.Log.Info().Str("car", name).Float64("total_time", p.TotalTime).Msg("race finished")
	}
}
