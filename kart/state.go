package kart

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/component"
)

// State is a read-only snapshot of the controller for HUDs, systems and tests
type State struct {
	Kart component.KartType

	TurnCurrent float64
	TurnMax     float64
	Accel       float64
	Brake       float64
	AccelBoost  float64
	SpeedBoost  float64
	TopVelocity float64
	TurningLeft bool
	Leaning     bool
	InputLocked bool
	OnGround    bool
	Pushing     bool

	Drifting         bool
	DriftDirLeft     bool
	DriftTurboClicks int
	DriftTurboLevel  int
	DriftTurboQueued bool
	StartDriftSpeed  mgl64.Vec3

	CurrentTurbo component.Turbo
	TurboTimer   float64

	AcroOn   bool
	AcroDone bool

	Checkpoints    uint32
	NumCheckpoints int
	Lap            int
	RaceStarted    bool
	Finished       bool
	LastCheckPos   mgl64.Vec3
	RaceTime       float64

	Turned      bool
	TurnedTimer float64

	HasItem      bool
	NumHitodamas int
}

// State captures the current controller state
func (c *Controller) State() State {
	raceTime := 0.0
	if c.raceStarted {
		raceTime = c.clock - c.raceStart
	}
	return State{
		Kart:             c.cfg.Kart,
		TurnCurrent:      c.turnCurrent,
		TurnMax:          c.turnMax,
		Accel:            c.accel,
		Brake:            c.brake,
		AccelBoost:       c.accelBoost,
		SpeedBoost:       c.speedBoost,
		TopVelocity:      c.topVelocity,
		TurningLeft:      c.turningLeft,
		Leaning:          c.leaning,
		InputLocked:      c.lockInput,
		OnGround:         c.onGround,
		Pushing:          c.pushing,
		Drifting:         c.drifting,
		DriftDirLeft:     c.driftDirLeft,
		DriftTurboClicks: c.driftTurboClicks,
		DriftTurboLevel:  c.turboDriftLvl,
		DriftTurboQueued: c.toDriftTurbo,
		StartDriftSpeed:  c.startDriftSpeed,
		CurrentTurbo:     c.currentTurbo,
		TurboTimer:       c.turboTimer,
		AcroOn:           c.acroOn,
		AcroDone:         c.acroDone,
		Checkpoints:      c.checkpoints,
		NumCheckpoints:   c.nCheckpoints,
		Lap:              c.lap,
		RaceStarted:      c.raceStarted,
		Finished:         c.finished,
		LastCheckPos:     c.lastCheckPos,
		RaceTime:         raceTime,
		Turned:           c.turned,
		TurnedTimer:      c.timerStartTurned,
		HasItem:          c.hasItem,
		NumHitodamas:     c.numHitodamas,
	}
}
