package kart

import (
	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/vmath"
)

// StartDrift enters a drift toward the current turn side
// Rejected below drift_min_speed or when already drifting
func (c *Controller) StartDrift() bool {
	if c.drifting || c.vehicle.GetKmh() < c.tuning.DriftMinSpeed {
		return false
	}
	c.drifting = true
	c.driftDirLeft = c.turningLeft
	c.startDriftSpeed = c.vehicle.LinearVelocity()
	c.vehicle.SetFriction(0)

	c.log.Debug().Bool("left", c.driftDirLeft).Msg("drift started")
	c.emit(event.EventDriftStart, event.DriftPayload{Car: c.owner, Left: c.driftDirLeft})
	return true
}

// CalcDriftForces steers the drift velocity between the lateral and forward axes
// Leaving the ground ends the drift
func (c *Controller) CalcDriftForces() {
	if !c.onGround {
		c.EndDrift()
		return
	}
	c.vehicle.ClearForces()

	m := c.vehicle.GetTransform()
	front := vmath.WorldZ(m)
	left := vmath.WorldX(m)
	if c.driftDirLeft {
		left = left.Mul(-1)
	}

	dir := vmath.Lerp(left, front, c.tuning.DriftRatio)
	vel := dir.Mul(c.startDriftSpeed.Len() * c.tuning.DriftMult)
	c.vehicle.SetLinearSpeed(vmath.Flatten(vel))
}

// EndDrift restores grip, carries the entry speed forward and fires a queued drift turbo
// In the air a queued level is kept for a later drift
func (c *Controller) EndDrift() {
	if !c.drifting {
		return
	}
	c.vehicle.Turn(0)
	c.turnCurrent = 0
	c.vehicle.SetFriction(c.cfg.Suspension.FrictionSlip)

	forward := vmath.Forward(c.vehicle.Rotation())
	c.vehicle.SetLinearSpeed(forward.Mul(c.startDriftSpeed.Len()))
	c.drifting = false

	level := 0
	if c.toDriftTurbo && c.onGround {
		level = c.turboDriftLvl
		switch level {
		case 1:
			c.currentTurbo = component.TurboMini
		case 2:
			c.currentTurbo = component.TurboDrift2
		case 3:
			c.currentTurbo = component.TurboDrift3
		}
		c.turboDriftLvl = 0
		c.toDriftTurbo = false
	}
	c.driftTurboClicks = 0

	c.log.Debug().Int("level", level).Msg("drift ended")
	c.emit(event.EventDriftEnd, event.DriftPayload{Car: c.owner, Left: c.driftDirLeft, Level: level})
}

// DriftTurbo counts one drift-turbo click; enough clicks queue the next level
func (c *Controller) DriftTurbo() {
	if !c.drifting {
		return
	}
	c.driftTurboClicks++
	if c.driftTurboClicks < c.cfg.ClicksToDriftTurbo {
		return
	}
	c.driftTurboClicks = 0
	c.toDriftTurbo = true
	if c.turboDriftLvl < parameter.MaxDriftTurboLevel {
		c.turboDriftLvl++
	}
	c.emit(event.EventDriftLevel, event.DriftPayload{Car: c.owner, Left: c.driftDirLeft, Level: c.turboDriftLvl})
}
