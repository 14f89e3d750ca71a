package kart

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/input"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/vmath"
)

// WentThroughCheckpoint accepts only the next checkpoint in sequence
// pos and rot become the recovery transform
func (c *Controller) WentThroughCheckpoint(n uint32, pos mgl64.Vec3, rot mgl64.Quat) bool {
	if n != c.checkpoints+1 {
		return false
	}
	c.nCheckpoints++
	c.lastCheckPos = pos
	c.lastCheckRot = rot
	c.checkpoints = n

	c.log.Debug().Uint32("checkpoint", n).Int("count", c.nCheckpoints).Msg("checkpoint accepted")
	c.emit(event.EventCheckpoint, event.CheckpointPayload{Car: c.owner, Index: n, Count: c.nCheckpoints})
	return true
}

// WentThroughEnd handles a finish line crossing with index n
// The first crossing starts the race, later ones complete laps
func (c *Controller) WentThroughEnd(n uint32, pos mgl64.Vec3, rot mgl64.Quat) bool {
	if c.finished || c.checkpoints+1 < n {
		return false
	}

	if !c.raceStarted {
		c.raceStarted = true
		c.raceStart = c.clock
		c.lapStart = c.clock
		c.log.Info().Msg("race started")
	} else {
		c.lap++
		lapTime := c.clock - c.lapStart
		c.lapStart = c.clock
		lap := event.LapPayload{Car: c.owner, Lap: c.lap - 1, LapTime: lapTime, TotalTime: c.clock - c.raceStart}
		c.log.Info().Int("lap", lap.Lap).Float64("time", lapTime).Msg("lap completed")
		c.emit(event.EventLap, lap)

		if c.lap >= parameter.FinishLap {
			c.finished = true
			c.BlockInput(true)
			c.log.Info().Float64("total", lap.TotalTime).Msg("race finished")
			c.emit(event.EventFinish, lap)
		}
	}

	c.nCheckpoints++
	c.checkpoints = 0
	c.lastCheckPos = pos
	c.lastCheckRot = rot
	return true
}

// Reset teleports to the last checkpoint, or the spawn when none was passed, and stops the car
func (c *Controller) Reset() { c.reset(event.ResetManual) }

// TurnOver resets a car that stayed upside down
func (c *Controller) TurnOver() { c.reset(event.ResetTurnOver) }

func (c *Controller) reset(reason event.ResetReason) {
	if c.vehicle == nil {
		return
	}
	fromCheckpoint := c.checkpoints < parameter.CheckpointNoneThreshold
	if fromCheckpoint {
		c.vehicle.SetPos(c.lastCheckPos)
		c.vehicle.SetRotation(c.lastCheckRot)
	} else {
		c.vehicle.SetPos(c.resetPos)
		c.vehicle.SetRotation(c.resetRot)
	}
	c.vehicle.SetLinearSpeed(mgl64.Vec3{})
	c.vehicle.SetAngularSpeed(mgl64.Vec3{})

	c.log.Debug().Stringer("reason", reason).Bool("checkpoint", fromCheckpoint).Msg("car reset")
	c.emit(event.EventReset, event.ResetPayload{Car: c.owner, Reason: reason, Checkpoint: fromCheckpoint})
}

// UpdateTurnOver tracks time spent upside down and resets past the limit
func (c *Controller) UpdateTurnOver(dt float64) {
	upY := vmath.Up(c.vehicle.Rotation()).Y()
	if upY < 0 && !c.turned {
		c.turned = true
	} else if c.turned {
		if upY < 0 {
			c.timerStartTurned += dt
		} else if upY > 0 {
			c.turned = false
			c.timerStartTurned = 0
		}
	}
	if c.timerStartTurned >= c.cfg.TurnOverResetTime {
		c.TurnOver()
		c.timerStartTurned = 0
		c.turned = false
	}
}

// GameLoopCheck resets a car that fell below the lose height
func (c *Controller) GameLoopCheck() {
	if c.vehicle.Position().Y() <= c.cfg.LoseHeight {
		c.reset(event.ResetFell)
	}
}

// OnCollision reacts to a trigger volume; every matching flag fires
func (c *Controller) OnCollision(flags component.TriggerFlags, index uint32, pos mgl64.Vec3, rot mgl64.Quat) {
	if flags.Has(component.FlagCheckpoint) {
		c.WentThroughCheckpoint(index, pos, rot)
	}
	if flags.Has(component.FlagFinishLine) {
		c.WentThroughEnd(index, pos, rot)
	}
	if flags.Has(component.FlagItem) {
		c.PickItem()
	}
	if flags.Has(component.FlagTurboPad) {
		c.SetTurbo(component.TurboPad)
	}
	if flags.Has(component.FlagOutOfBounds) {
		c.reset(event.ResetOutOfBounds)
	}
}

// PickItem stores an item; a held item is not replaced
func (c *Controller) PickItem() bool {
	if c.hasItem {
		return false
	}
	c.hasItem = true
	c.emit(event.EventItemPick, event.CarPayload{Car: c.owner})
	return true
}

// UseItem spends the held item on a rocket turbo
func (c *Controller) UseItem() bool {
	if !c.hasItem {
		return false
	}
	c.hasItem = false
	c.currentTurbo = component.TurboRocket
	c.anim.UseItem()
	c.emit(event.EventItemUse, event.CarPayload{Car: c.owner})
	return true
}

// ReleaseItem cuts a running rocket short
func (c *Controller) ReleaseItem() {
	if c.currentTurbo == component.TurboRocket {
		c.currentTurbo = component.TurboIdle
	}
}

// AddHitodama collects one hitodama up to the configured cap
func (c *Controller) AddHitodama() bool {
	if c.numHitodamas >= c.cfg.Items.MaxHitodamas {
		return false
	}
	c.numHitodamas++
	c.emit(event.EventHitodama, event.HitodamaPayload{Car: c.owner, Count: c.numHitodamas})
	return true
}

// RemoveHitodama drops one hitodama if any are held
func (c *Controller) RemoveHitodama() bool {
	if c.numHitodamas <= 0 {
		return false
	}
	c.numHitodamas--
	c.emit(event.EventHitodama, event.HitodamaPayload{Car: c.owner, Count: c.numHitodamas})
	return true
}

// OnGetHit stops the car and plays the hit reaction
func (c *Controller) OnGetHit() {
	c.vehicle.SetLinearSpeed(mgl64.Vec3{})
	c.anim.Hit()
	c.emit(event.EventHit, event.CarPayload{Car: c.owner})
}

// Push starts a push-off when slow enough; every call restarts the push window
func (c *Controller) Push() {
	if c.vehicle.GetKmh() < c.tuning.MaxVelocity/100*c.tuning.PushSpeedPer {
		c.pushing = true
	}
	c.pushElapsed = 0
}

func (c *Controller) pushUpdate(dt float64) {
	c.pushElapsed += dt
	if c.pushElapsed >= parameter.PushDuration {
		c.pushing = false
		return
	}
	c.accelBoost += c.tuning.PushForce
}

// Leaning plays the lean pose while moving without a turbo
func (c *Controller) Leaning() {
	if c.vehicle.GetKmh() > 0 && c.currentTurbo == component.TurboIdle {
		c.anim.Lean()
		c.leaning = true
	}
}

// Acrobatics registers one player's trick input while airborne
// Both players within the window complete the trick; landing then grants a mini turbo
func (c *Controller) Acrobatics(p input.Player) {
	if c.onGround {
		return
	}
	changed := false
	if p == c.frontPlayer() && !c.acroFront {
		c.acroFront = true
		changed = true
	} else if p == c.backPlayer() && !c.acroBack {
		c.acroBack = true
		changed = true
	}

	if c.acroFront && c.acroBack {
		c.acroDone = true
		c.acroFront, c.acroBack = false, false
		return
	}
	if changed {
		c.acroTimer = 0
		c.acroOn = true
		c.anim.Acrobatics()
	}
}
