package system

import (
	"context"

	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/telemetry"
)

// TelemetrySystem records race events as OpenTelemetry metrics
type TelemetrySystem struct {
	ins *telemetry.Instruments
}

func NewTelemetrySystem(ins *telemetry.Instruments) *TelemetrySystem {
	return &TelemetrySystem{ins: ins}
}

func (s *TelemetrySystem) Priority() int { return parameter.PriorityTelemetry }

func (s *TelemetrySystem) Update(w *engine.World, dt float64) {}

func (s *TelemetrySystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventLap,
		event.EventFinish,
		event.EventTurboStart,
		event.EventDriftStart,
		event.EventReset,
		event.EventCheckpoint,
	}
}

func (s *TelemetrySystem) HandleEvent(w *engine.World, ev event.GameEvent) {
	ctx := context.Background()
	switch p := ev.Payload.(type) {
	case event.LapPayload:
		name := carName(w, p.Car)
		if ev.Type == event.EventFinish {
			s.ins.Finish(ctx, name)
		} else {
			s.ins.Lap(ctx, name, p.LapTime)
		}
	case event.TurboPayload:
		s.ins.Turbo(ctx, carName(w, p.Car), p.Kind.String())
	case event.DriftPayload:
		s.ins.Drift(ctx, carName(w, p.Car))
	case event.ResetPayload:
		s.ins.Reset(ctx, carName(w, p.Car), p.Reason.String())
	case event.CheckpointPayload:
		s.ins.Checkpoint(ctx, carName(w, p.Car))
	}
}

func carName(w *engine.World, car uint64) string {
	if name, ok := w.Components.Name.Get(engine.Entity(car)); ok {
		return name
	}
	return "car"
}
