package kart

import (
	"math"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/input"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/vmath"
)

func (c *Controller) frontPlayer() input.Player { return input.Player(c.cfg.Players.Front) }
func (c *Controller) backPlayer() input.Player  { return input.Player(c.cfg.Players.Back) }

// keyboardControls reads one tick of keys and reports turn intent
func (c *Controller) keyboardControls(dt float64) bool {
	in := c.input
	turning := false
	inverse := c.cfg.Players.Inverted

	if in.Key(input.KeyDriftTurbo) == input.KeyDown {
		if c.drifting {
			c.DriftTurbo()
		} else {
			c.Push()
		}
	}
	if in.Key(input.KeyLean).Held() {
		c.Leaning()
	}
	if in.Key(input.KeyHit) == input.KeyDown {
		c.OnGetHit()
	}
	switch in.Key(input.KeyItem) {
	case input.KeyDown:
		c.UseItem()
	case input.KeyUp:
		c.ReleaseItem()
	}
	if in.Key(input.KeyFullBrake).Held() {
		c.FullBrake()
	}

	keys := input.FrontKeys(c.frontPlayer())
	if in.Key(keys.Accelerate).Held() {
		c.Accelerate(false, 0)
	}
	if in.Key(keys.Right).Held() {
		turning = c.Turn(inverse, dt)
	}
	if in.Key(keys.Left).Held() {
		turning = c.Turn(!inverse, dt)
	}
	if in.Key(keys.Brake).Held() {
		c.Brake(false, 0)
	}

	if in.Key(input.KeyReset) == input.KeyDown {
		c.Reset()
	}
	if in.Key(input.KeyBackAcro) == input.KeyDown {
		c.Acrobatics(c.backPlayer())
	}

	switch in.Key(input.KeyDrift) {
	case input.KeyDown:
		if turning {
			if c.onGround {
				c.StartDrift()
			} else {
				c.Acrobatics(c.frontPlayer())
			}
		}
	case input.KeyUp:
		if c.drifting {
			c.EndDrift()
		}
	}
	return turning
}

// joystickControls reads pads when any are connected and reports turn intent
// The back player steers while drifting
func (c *Controller) joystickControls(dt float64) bool {
	in := c.input
	if in.NumJoysticks() == 0 {
		return false
	}
	front, back := c.frontPlayer(), c.backPlayer()
	inverse := c.cfg.Players.Inverted

	steer := front
	if c.drifting {
		steer = back
	}
	turning := c.JoystickTurn(in.Axis(steer, input.AxisLeftX), dt)

	if in.Button(steer, input.ButtonDpadRight).Held() {
		turning = c.Turn(inverse, dt)
	}
	if in.Button(steer, input.ButtonDpadLeft).Held() {
		turning = c.Turn(!inverse, dt)
	}

	switch in.Button(front, input.ButtonX) {
	case input.KeyDown:
		if c.onGround && turning {
			c.StartDrift()
		} else if !c.onGround {
			c.Acrobatics(front)
		}
	case input.KeyUp:
		if c.drifting {
			c.EndDrift()
		}
	}
	if in.Button(back, input.ButtonX) == input.KeyDown {
		c.Acrobatics(back)
	}
	if in.Button(back, input.ButtonA) == input.KeyDown {
		if c.drifting {
			c.DriftTurbo()
		} else {
			c.Push()
		}
	}
	switch in.Button(back, input.ButtonB) {
	case input.KeyDown:
		c.UseItem()
	case input.KeyUp:
		c.ReleaseItem()
	}

	if rt := in.Axis(front, input.AxisRightTrigger); rt != 0 {
		c.Accelerate(true, rt)
	}
	if lt := in.Axis(front, input.AxisLeftTrigger); lt != 0 {
		c.Brake(true, lt)
	}
	return turning
}

// triggerValue maps a trigger axis from [-1, 1] to [0, 1]
func triggerValue(axis float64) float64 {
	return (axis + 1) / 2
}

// Accelerate adds engine force, scaled by the trigger when one is used
func (c *Controller) Accelerate(withTrigger bool, axis float64) {
	if !withTrigger {
		c.accel += c.tuning.AccelForce
		return
	}
	v := triggerValue(axis)
	if math.Abs(v) > parameter.TriggerDeadZone {
		c.accel += c.tuning.AccelForce * v
	}
}

// Brake reverses when stopped or rolling back, otherwise brakes
func (c *Controller) Brake(withTrigger bool, axis float64) {
	back, brake := c.tuning.BackForce, c.tuning.BrakeForce
	if withTrigger {
		v := triggerValue(axis)
		if math.Abs(v) <= parameter.TriggerDeadZone {
			return
		}
		back *= v
		brake *= v
	}
	if c.vehicle.GetKmh() <= 0 {
		c.accel = -back
	} else {
		c.brake = brake
	}
}

// FullBrake applies the hard brake while moving forward
func (c *Controller) FullBrake() {
	if c.vehicle.GetKmh() > 0 {
		c.brake = c.tuning.FullBrakeForce
	}
}

// Turn steps the steering angle toward one side and reports turn intent
// While drifting the angle stays on the drift side of zero
func (c *Controller) Turn(left bool, dt float64) bool {
	top := c.turnMax + c.turnBoost
	speed := c.tuning.TurnSpeed

	if !c.drifting {
		c.turningLeft = left
	}
	if !left {
		speed = -speed
	}
	c.turnCurrent += speed * dt

	if c.drifting {
		c.clampDriftTurn(top)
	} else {
		c.turnCurrent = vmath.Clamp(c.turnCurrent, -top, top)
	}
	return true
}

// JoystickTurn steers from an analog axis in [-1, 1]; inside the dead zone it does nothing
func (c *Controller) JoystickTurn(x, dt float64) bool {
	if math.Abs(x) <= parameter.JoystickDeadZone {
		return false
	}
	top := c.turnMax + c.turnBoost
	if !c.drifting {
		c.turningLeft = x < 0
		c.turnCurrent += c.tuning.TurnSpeedJoystick * -x * dt
		c.turnCurrent = vmath.Clamp(c.turnCurrent, -top, top)
		return true
	}
	c.turnCurrent = -top * x
	c.clampDriftTurn(top)
	return true
}

func (c *Controller) clampDriftTurn(top float64) {
	if c.driftDirLeft {
		c.turnCurrent = vmath.Clamp(c.turnCurrent, 0, top)
	} else {
		c.turnCurrent = vmath.Clamp(c.turnCurrent, -top, 0)
	}
}

// LimitTurn pulls the angle back inside the current top after turn_max shrank
func (c *Controller) LimitTurn() {
	top := c.turnMax + c.turnBoost
	c.turnCurrent = vmath.Clamp(c.turnCurrent, -top, top)
}

// IdleTurn recenters the wheel without crossing zero
func (c *Controller) IdleTurn(dt float64) {
	rate := c.tuning.TurnSpeed
	if c.tuning.IdleTurnByInterpolation && c.tuning.TimeToIdle > 0 {
		rate = c.turnMax / c.tuning.TimeToIdle
	}
	c.turnCurrent = vmath.ApproachZero(c.turnCurrent, rate*dt)
}

// TurnMaxAt evaluates the speed-to-turn-max curve at v km/h
func (c *Controller) TurnMaxAt(v float64) float64 {
	t := c.tuning
	if v <= t.VelocityToBeginChange {
		return t.BaseTurnMax
	}
	if c.cfg.TurnChange.Mode == component.TurnChangeByInterpolation {
		span := t.MaxVelocity - t.VelocityToBeginChange
		if v >= t.MaxVelocity || span <= 0 {
			return t.TurnMaxLimit
		}
		return t.BaseTurnMax + (t.TurnMaxLimit-t.BaseTurnMax)/span*(v-t.VelocityToBeginChange)
	}

	dif := v - t.VelocityToBeginChange
	turnMax := t.BaseTurnMax + dif*t.BaseMaxTurnChangeSpeed
	if c.cfg.TurnChange.Accelerated {
		turnMax += t.BaseMaxTurnChangeAccel / 2 * dif * dif
	}
	if turnMax < t.TurnMaxLimit {
		turnMax = t.TurnMaxLimit
	}
	return turnMax
}
