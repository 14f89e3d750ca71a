package kart

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/kartcore/animation"
	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/input"
	"github.com/lixenwraith/kartcore/parameter"
)

var (
	// ErrRaceActive rejects tuning changes while the car is in play
	ErrRaceActive = errors.New("race in progress")
	ErrNoFactory  = errors.New("no vehicle factory")
)

// Animation receives the controller's state once per tick plus one-shot cues
// *animation.Bridge is the production implementation
type Animation interface {
	Update(in animation.Input, dt float64)
	Hit()
	Acrobatics()
	UseItem()
	Lean()
}

var _ Animation = (*animation.Bridge)(nil)

type nopAnimation struct{}

func (nopAnimation) Update(animation.Input, float64) {}
func (nopAnimation) Hit()                            {}
func (nopAnimation) Acrobatics()                     {}
func (nopAnimation) UseItem()                        {}
func (nopAnimation) Lean()                           {}

type nopEmitter struct{}

func (nopEmitter) Push(event.GameEvent) {}

// Option configures a Controller
type Option func(*Controller)

// WithLogger attaches a logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithEvents routes race events to an emitter
func WithEvents(e event.Emitter) Option {
	return func(c *Controller) {
		if e != nil {
			c.events = e
		}
	}
}

// WithOwner tags emitted events with the owning entity
func WithOwner(id uint64) Option {
	return func(c *Controller) { c.owner = id }
}

// WithAnimation attaches the rig driver
func WithAnimation(a Animation) Option {
	return func(c *Controller) {
		if a != nil {
			c.anim = a
		}
	}
}

// Controller turns input and collisions into vehicle forces and race state
// Not safe for concurrent use; owned by the simulation goroutine
type Controller struct {
	log     zerolog.Logger
	events  event.Emitter
	anim    Animation
	input   input.Source
	factory VehicleFactory
	owner   uint64

	cfg     component.CarConfig
	tuning  component.VehicleTuning
	turbos  [component.TurboCount]component.TurboEffect
	vehicle Vehicle

	frame int64
	clock float64

	// Kinematic
	turnCurrent float64
	turnMax     float64
	turnBoost   float64
	accel       float64
	brake       float64
	accelBoost  float64
	speedBoost  float64
	topVelocity float64
	turningLeft bool
	leaning     bool
	lockInput   bool
	onGround    bool

	// Drift
	drifting         bool
	driftDirLeft     bool
	driftTurboClicks int
	turboDriftLvl    int
	toDriftTurbo     bool
	startDriftSpeed  mgl64.Vec3

	// Turbo
	currentTurbo      component.Turbo
	lastTurbo         component.Turbo
	applied           int // Slot of the running effect, -1 for none
	turboTimer        float64
	turboAccelBoost   float64
	turboSpeedBoost   float64
	turboDeceleration float64
	turboAcceleration float64
	toTurboDecelerate bool
	speedBoostReached bool

	// Push
	pushing     bool
	pushElapsed float64

	// Acrobatics
	acroOn    bool
	acroTimer float64
	acroFront bool
	acroBack  bool
	acroDone  bool

	// Race progress
	checkpoints  uint32
	lap          int
	raceStarted  bool
	finished     bool
	nCheckpoints int
	lastCheckPos mgl64.Vec3
	lastCheckRot mgl64.Quat
	raceStart    float64
	lapStart     float64

	// Recovery
	turned           bool
	timerStartTurned float64
	resetPos         mgl64.Vec3
	resetRot         mgl64.Quat

	// Items
	hasItem      bool
	numHitodamas int
}

// New creates a controller; the vehicle is built on OnPlay
func New(cfg component.CarConfig, src input.Source, factory VehicleFactory, opts ...Option) *Controller {
	c := &Controller{
		log:          zerolog.Nop(),
		events:       nopEmitter{},
		anim:         nopAnimation{},
		input:        src,
		factory:      factory,
		applied:      -1,
		checkpoints:  parameter.CheckpointNone,
		lap:          parameter.StartLap,
		lastCheckRot: mgl64.QuatIdent(),
		resetRot:     mgl64.QuatIdent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.setConfig(cfg)
	return c
}

func (c *Controller) setConfig(cfg component.CarConfig) {
	cfg.Normalize()
	c.cfg = cfg
	c.tuning = cfg.Tunings.For(cfg.Kart)
	c.turbos = cfg.Turbos.Array()
}

// ApplyConfig swaps the record between races
func (c *Controller) ApplyConfig(cfg component.CarConfig) error {
	if c.vehicle != nil {
		return ErrRaceActive
	}
	c.setConfig(cfg)
	c.log.Debug().Stringer("kart", cfg.Kart).Msg("car config applied")
	return nil
}

// SetKartType selects the active tuning preset between races
func (c *Controller) SetKartType(k component.KartType) error {
	cfg := c.cfg
	cfg.Kart = k
	return c.ApplyConfig(cfg)
}

// Config returns a copy of the active record
func (c *Controller) Config() component.CarConfig { return c.cfg }

// Tuning returns the active preset
func (c *Controller) Tuning() component.VehicleTuning { return c.tuning }

// Vehicle returns the physics vehicle, nil outside play
func (c *Controller) Vehicle() Vehicle { return c.vehicle }

// OnPlay builds the vehicle at the spawn transform and resets race state
// Tuning is kept
func (c *Controller) OnPlay(pos mgl64.Vec3, rot mgl64.Quat) error {
	if c.vehicle == nil {
		if c.factory == nil {
			return ErrNoFactory
		}
		v, err := c.factory(VehicleInfo(c.cfg), pos, rot)
		if err != nil {
			c.log.Warn().Err(err).Msg("vehicle creation failed")
			return fmt.Errorf("create vehicle: %w", err)
		}
		c.vehicle = v
	}
	c.resetPos = pos
	c.resetRot = rot
	c.resetRaceState()
	c.log.Info().Stringer("kart", c.cfg.Kart).Msg("car in play")
	c.emit(event.EventRaceStart, event.CarPayload{Car: c.owner})
	return nil
}

// OnStop drops the vehicle reference; the caller releases it from the world
func (c *Controller) OnStop() {
	if c.vehicle == nil {
		return
	}
	c.vehicle = nil
	c.log.Info().Msg("car stopped")
	c.emit(event.EventRaceStop, event.CarPayload{Car: c.owner})
}

func (c *Controller) resetRaceState() {
	c.checkpoints = parameter.CheckpointNone
	c.lap = parameter.StartLap
	c.raceStarted = false
	c.finished = false
	c.nCheckpoints = 0
	c.lastCheckPos = c.resetPos
	c.lastCheckRot = c.resetRot
	c.lockInput = false
	c.clock = 0
	c.raceStart = 0
	c.lapStart = 0

	c.turnCurrent = 0
	c.turningLeft = false
	c.onGround = false

	c.drifting = false
	c.driftTurboClicks = 0
	c.turboDriftLvl = 0
	c.toDriftTurbo = false

	c.currentTurbo = component.TurboIdle
	c.lastTurbo = component.TurboIdle
	c.applied = -1
	c.turboTimer = 0
	c.turboSpeedBoost = 0
	c.toTurboDecelerate = false

	c.pushing = false
	c.acroOn, c.acroFront, c.acroBack, c.acroDone = false, false, false, false
	c.acroTimer = 0
	c.turned = false
	c.timerStartTurned = 0
	c.hasItem = false
	c.numHitodamas = 0
}

// BlockInput locks or unlocks player controls
func (c *Controller) BlockInput(lock bool) { c.lockInput = lock }

// Update runs one controller tick; a car out of play is skipped
func (c *Controller) Update(dt float64) {
	if c.vehicle == nil {
		return
	}
	c.frame++
	c.clock += dt

	c.checkGroundCollision()
	c.handlePlayerInput(dt)
	c.updateAnimation(dt)
	c.GameLoopCheck()
}

func (c *Controller) handlePlayerInput(dt float64) {
	c.turnMax = c.TurnMaxAt(c.vehicle.GetKmh())
	turning := false
	c.leaning = false
	c.accel, c.brake = 0, 0
	c.accelBoost, c.speedBoost, c.turnBoost = 0, 0, 0

	if c.pushing {
		c.pushUpdate(dt)
	}
	if c.drifting {
		c.turnMax = c.tuning.DriftTurnMax
	}
	if !c.lockInput && c.input != nil {
		turning = c.keyboardControls(dt)
		turning = c.joystickControls(dt) || turning
	}

	c.applyTurbo(dt)

	if c.acroOn {
		c.acroTimer += dt
		if c.acroTimer >= c.tuning.AcroTime {
			c.acroOn, c.acroFront, c.acroBack = false, false, false
			c.acroTimer = 0
		}
	}

	c.LimitTurn()
	if !turning {
		c.IdleTurn(dt)
	}
	if c.drifting {
		c.CalcDriftForces()
	}

	c.accel += c.accelBoost
	c.vehicle.Turn(c.turnCurrent)
	c.vehicle.ApplyEngineForce(c.accel)
	c.vehicle.Brake(c.brake)
	if c.accel == 0 && c.brake == 0 {
		c.vehicle.Brake(c.tuning.DecelBrake)
	}

	c.LimitSpeed()
	c.UpdateTurnOver(dt)
}

func (c *Controller) updateAnimation(dt float64) {
	c.anim.Update(animation.Input{
		TurnCurrent: c.turnCurrent,
		TurnTop:     c.turnMax + c.turnBoost,
		Drifting:    c.drifting,
		DriftLeft:   c.driftDirLeft,
		Pushing:     c.pushing,
		Leaning:     c.leaning,
		Speed:       c.vehicle.GetKmh(),
		TopSpeed:    c.topVelocity,
	}, dt)
}

func (c *Controller) checkGroundCollision() {
	last := c.onGround
	c.onGround = c.vehicle.IsVehicleInContact()
	if last == c.onGround {
		return
	}
	if !c.onGround {
		c.emit(event.EventGroundExit, event.CarPayload{Car: c.owner})
		return
	}
	if c.acroDone {
		c.currentTurbo = component.TurboMini
		c.acroDone = false
	} else if c.acroOn {
		c.acroOn = false
	}
	c.emit(event.EventGroundEnter, event.CarPayload{Car: c.owner})
}

// OnGround reports the contact state sampled this tick
func (c *Controller) OnGround() bool { return c.onGround }

// LimitSpeed clamps forward speed to the boosted top and reverse speed to min
func (c *Controller) LimitSpeed() {
	c.topVelocity = c.tuning.MaxVelocity + c.speedBoost + float64(c.numHitodamas)*c.cfg.Items.BonusHitodamas
	kmh := c.vehicle.GetKmh()
	if kmh > c.topVelocity {
		c.vehicle.SetModularSpeed(c.topVelocity * parameter.KmhToMs)
	} else if kmh < c.tuning.MinVelocity {
		c.vehicle.SetModularSpeed(-(c.tuning.MinVelocity * parameter.KmhToMs))
	}
}

func (c *Controller) emit(t event.EventType, payload any) {
	c.events.Push(event.GameEvent{Type: t, Payload: payload, Frame: c.frame})
}
