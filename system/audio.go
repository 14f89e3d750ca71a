package system

import (
	"github.com/lixenwraith/kartcore/audio"
	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/parameter"
)

// AudioSystem turns race events into sound cues
type AudioSystem struct {
	sink    audio.Sink
	enabled bool
}

// NewAudioSystem plays through sink; a nil sink mutes the system
func NewAudioSystem(sink audio.Sink) *AudioSystem {
	return &AudioSystem{sink: sink, enabled: sink != nil}
}

func (s *AudioSystem) Priority() int { return parameter.PriorityAudio }

func (s *AudioSystem) Update(w *engine.World, dt float64) {}

// SetEnabled mutes or unmutes cues
func (s *AudioSystem) SetEnabled(on bool) { s.enabled = on && s.sink != nil }

func (s *AudioSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventCheckpoint,
		event.EventLap,
		event.EventFinish,
		event.EventReset,
		event.EventTurboStart,
		event.EventDriftStart,
		event.EventDriftLevel,
		event.EventItemPick,
	}
}

func (s *AudioSystem) HandleEvent(w *engine.World, ev event.GameEvent) {
	if !s.enabled {
		return
	}
	switch ev.Type {
	case event.EventCheckpoint:
		s.sink.Play(audio.CueCheckpoint, 0)
	case event.EventLap:
		s.sink.Play(audio.CueLap, 0)
	case event.EventFinish:
		s.sink.Play(audio.CueFinish, 0)
	case event.EventReset:
		s.sink.Play(audio.CueReset, 0)
	case event.EventTurboStart:
		if p, ok := ev.Payload.(event.TurboPayload); ok {
			s.sink.Play(audio.CueTurbo, int(p.Kind))
		}
	case event.EventDriftStart:
		s.sink.Play(audio.CueDriftStart, 0)
	case event.EventDriftLevel:
		if p, ok := ev.Payload.(event.DriftPayload); ok {
			s.sink.Play(audio.CueDriftLevel, p.Level)
		}
	case event.EventItemPick:
		s.sink.Play(audio.CueItem, 0)
	}
}
