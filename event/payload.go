package event

import "github.com/lixenwraith/kartcore/component"

// CarPayload identifies the car an event concerns
type CarPayload struct {
	Car uint64 `toml:"car"`
}

// CheckpointPayload is sent for each accepted checkpoint
type CheckpointPayload struct {
	Car   uint64 `toml:"car"`
	Index uint32 `toml:"index"`
	Count int    `toml:"count"` // Checkpoints crossed this race
}

// LapPayload carries lap timing; LapTime and TotalTime are seconds
type LapPayload struct {
	Car       uint64  `toml:"car"`
	Lap       int     `toml:"lap"`
	LapTime   float64 `toml:"lap_time"`
	TotalTime float64 `toml:"total_time"`
}

// ResetReason distinguishes why a car was teleported
type ResetReason uint8

const (
	ResetManual ResetReason = iota
	ResetTurnOver
	ResetFell
	ResetOutOfBounds
)

func (r ResetReason) String() string {
	switch r {
	case ResetManual:
		return "manual"
	case ResetTurnOver:
		return "turn_over"
	case ResetFell:
		return "fell"
	case ResetOutOfBounds:
		return "out_of_bounds"
	default:
		return "unknown"
	}
}

// ResetPayload reports a reset and whether it used the last checkpoint
type ResetPayload struct {
	Car        uint64      `toml:"car"`
	Reason     ResetReason `toml:"reason"`
	Checkpoint bool        `toml:"checkpoint"`
}

// TurboPayload names the turbo that started or ended
type TurboPayload struct {
	Car  uint64          `toml:"car"`
	Kind component.Turbo `toml:"kind"`
}

// DriftPayload carries drift direction and queued turbo level
type DriftPayload struct {
	Car   uint64 `toml:"car"`
	Left  bool   `toml:"left"`
	Level int    `toml:"level"`
}

// HitodamaPayload carries the new hitodama count
type HitodamaPayload struct {
	Car   uint64 `toml:"car"`
	Count int    `toml:"count"`
}
