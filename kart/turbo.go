package kart

import (
	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/vmath"
)

// SetTurbo selects the turbo applied on the next tick
// Re-selecting the running turbo does not restart it
func (c *Controller) SetTurbo(t component.Turbo) { c.currentTurbo = t }

// CurrentTurbo returns the selected turbo
func (c *Controller) CurrentTurbo() component.Turbo { return c.currentTurbo }

// AppliedTurbo returns the running effect, nil when idle
func (c *Controller) AppliedTurbo() *component.TurboEffect {
	if c.applied < 0 {
		return nil
	}
	return &c.turbos[c.applied]
}

// applyTurbo runs the turbo machine for one tick
// A change of selection starts the new effect; expiry returns to idle
func (c *Controller) applyTurbo(dt float64) {
	start := c.lastTurbo != c.currentTurbo
	if start {
		if c.applied >= 0 {
			c.emit(event.EventTurboEnd, event.TurboPayload{Car: c.owner, Kind: c.lastTurbo})
		}
		c.applied = c.currentTurbo.Slot()
	}
	c.lastTurbo = c.currentTurbo

	if c.applied >= 0 {
		t := &c.turbos[c.applied]
		if start {
			c.startTurbo(t)
		}
		if c.turboTimer < t.Time {
			if t.SpeedDirect && t.SpeedIncrease && !c.speedBoostReached {
				kmh := c.vehicle.GetKmh()
				c.speedBoostReached = kmh > c.topVelocity
				c.vehicle.SetVelocity(vmath.Forward(c.vehicle.Rotation()), kmh+c.turboAcceleration*dt)
			}
			c.accelBoost += c.turboAccelBoost
			c.speedBoost += c.turboSpeedBoost
			c.turboTimer += dt
		} else {
			c.log.Debug().Stringer("turbo", c.currentTurbo).Msg("turbo expired")
			c.emit(event.EventTurboEnd, event.TurboPayload{Car: c.owner, Kind: c.currentTurbo})
			c.currentTurbo = component.TurboIdle
			c.lastTurbo = component.TurboIdle
			c.applied = -1
		}
	}

	if c.currentTurbo == component.TurboIdle && c.toTurboDecelerate && c.turboSpeedBoost > 0 {
		c.turboSpeedBoost -= c.turboDeceleration * dt
		if c.turboSpeedBoost < 0 {
			c.turboSpeedBoost = 0
		}
		c.speedBoost += c.turboSpeedBoost
	}
}

func (c *Controller) startTurbo(t *component.TurboEffect) {
	c.turboTimer = 0

	c.turboAccelBoost = t.AccelBoost
	if t.PerAccel {
		c.turboAccelBoost = c.tuning.AccelForce / 100 * t.AccelBoost
	}
	c.turboSpeedBoost = t.SpeedBoost
	if t.PerSpeed {
		c.turboSpeedBoost = c.tuning.MaxVelocity / 100 * t.SpeedBoost
	}

	if t.SpeedDirect && !t.SpeedIncrease {
		kmh := c.tuning.MaxVelocity + c.turboSpeedBoost - parameter.TurboDirectSpeedOffset
		c.vehicle.SetVelocity(vmath.Forward(c.vehicle.Rotation()), kmh)
	}

	c.turboDeceleration = t.Deceleration
	c.turboAcceleration = t.FakeAccel
	c.toTurboDecelerate = t.SpeedDecrease
	c.speedBoostReached = false

	c.log.Debug().Stringer("turbo", c.currentTurbo).
		Float64("accel_boost", c.turboAccelBoost).
		Float64("speed_boost", c.turboSpeedBoost).
		Msg("turbo started")
	c.emit(event.EventTurboStart, event.TurboPayload{Car: c.owner, Kind: c.currentTurbo})
}
