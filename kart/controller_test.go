package kart

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/input"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/physics"
)

func TestTurnMaxBelowThreshold(t *testing.T) {
	for _, mode := range []component.TurnChangeMode{component.TurnChangeBySpeed, component.TurnChangeByInterpolation} {
		r := newRig(t, func(c *component.CarConfig) { c.TurnChange.Mode = mode })
		tu := r.c.Tuning()
		for v := -20.0; v <= tu.VelocityToBeginChange; v += 0.5 {
			assert.Equal(t, tu.BaseTurnMax, r.c.TurnMaxAt(v), "mode %s v %v", mode, v)
		}
	}
}

func TestTurnMaxInterpolationReachesLimit(t *testing.T) {
	r := newRig(t, func(c *component.CarConfig) {
		c.TurnChange.Mode = component.TurnChangeByInterpolation
		c.Tunings.Koji.BaseTurnMax = 0.2
		c.Tunings.Koji.TurnMaxLimit = 0.8
	})
	tu := r.c.Tuning()

	prev := r.c.TurnMaxAt(tu.VelocityToBeginChange)
	for v := tu.VelocityToBeginChange; v <= tu.MaxVelocity; v += 0.25 {
		cur := r.c.TurnMaxAt(v)
		assert.GreaterOrEqual(t, cur, prev, "v %v", v)
		prev = cur
	}
	assert.Equal(t, tu.TurnMaxLimit, r.c.TurnMaxAt(tu.MaxVelocity))
	assert.Equal(t, tu.TurnMaxLimit, r.c.TurnMaxAt(tu.MaxVelocity+50))
}

func TestTurnMaxSpeedModeFloorsAtLimit(t *testing.T) {
	r := newRig(t, nil)
	tu := r.c.Tuning()
	v := tu.VelocityToBeginChange + 10
	assert.InDelta(t, tu.BaseTurnMax+10*tu.BaseMaxTurnChangeSpeed, r.c.TurnMaxAt(v), 1e-12)
	assert.Equal(t, tu.TurnMaxLimit, r.c.TurnMaxAt(1e6))
}

func TestCheckpointSequence(t *testing.T) {
	r := newRig(t, nil)
	p1 := mgl64.Vec3{10, 0, 0}

	assert.False(t, r.c.WentThroughCheckpoint(2, mgl64.Vec3{99, 0, 0}, mgl64.QuatIdent()))
	s := r.c.State()
	assert.Equal(t, parameter.CheckpointNone, s.Checkpoints)
	assert.Equal(t, 0, s.NumCheckpoints)
	assert.Equal(t, spawn, s.LastCheckPos)

	require.True(t, r.c.WentThroughEnd(1, mgl64.Vec3{}, mgl64.QuatIdent()))
	require.True(t, r.c.WentThroughCheckpoint(1, p1, mgl64.QuatIdent()))
	assert.False(t, r.c.WentThroughCheckpoint(1, mgl64.Vec3{50, 0, 0}, mgl64.QuatIdent()), "duplicate")
	assert.False(t, r.c.WentThroughCheckpoint(3, mgl64.Vec3{60, 0, 0}, mgl64.QuatIdent()), "skip")

	s = r.c.State()
	assert.Equal(t, uint32(1), s.Checkpoints)
	assert.Equal(t, 2, s.NumCheckpoints)
	assert.Equal(t, p1, s.LastCheckPos)
	assert.Equal(t, 1, r.rec.count(event.EventCheckpoint))
}

func TestFinishLineNeedsAllCheckpoints(t *testing.T) {
	r := newRig(t, nil)
	require.True(t, r.c.WentThroughEnd(3, mgl64.Vec3{}, mgl64.QuatIdent()))
	assert.False(t, r.c.WentThroughEnd(3, mgl64.Vec3{}, mgl64.QuatIdent()))

	require.True(t, r.c.WentThroughCheckpoint(1, mgl64.Vec3{}, mgl64.QuatIdent()))
	require.True(t, r.c.WentThroughCheckpoint(2, mgl64.Vec3{}, mgl64.QuatIdent()))
	assert.True(t, r.c.WentThroughEnd(3, mgl64.Vec3{}, mgl64.QuatIdent()))
	assert.Equal(t, 2, r.c.State().Lap)
}

func TestFourCrossingsFinishAndLockInput(t *testing.T) {
	r := newRig(t, nil)
	for i := 0; i < 4; i++ {
		r.tick(30)
		require.True(t, r.c.WentThroughEnd(1, mgl64.Vec3{}, mgl64.QuatIdent()), "crossing %d", i)
		if i == 0 {
			s := r.c.State()
			assert.True(t, s.RaceStarted)
			assert.Equal(t, parameter.StartLap, s.Lap)
		}
	}

	s := r.c.State()
	assert.Equal(t, parameter.FinishLap, s.Lap)
	assert.True(t, s.Finished)
	assert.True(t, s.InputLocked)
	assert.Equal(t, 3, r.rec.count(event.EventLap))
	assert.Equal(t, 1, r.rec.count(event.EventFinish))

	ev, ok := r.rec.last(event.EventFinish)
	require.True(t, ok)
	lap := ev.Payload.(event.LapPayload)
	assert.Equal(t, 3, lap.Lap)
	assert.InDelta(t, 0.5, lap.LapTime, 1e-9)
	assert.InDelta(t, 1.5, lap.TotalTime, 1e-9)

	assert.False(t, r.c.WentThroughEnd(1, mgl64.Vec3{}, mgl64.QuatIdent()))
	assert.Equal(t, parameter.FinishLap, r.c.State().Lap)

	r.in.SetKey(input.KeyW, true)
	r.tick(3)
	assert.Equal(t, 0.0, r.v.lastEngine())
}

func TestTurboReselectDoesNotRestart(t *testing.T) {
	r := newRig(t, nil)
	r.tick(1)

	r.c.SetTurbo(component.TurboMini)
	r.tick(1)
	assert.InDelta(t, dt, r.c.State().TurboTimer, 1e-12)

	r.c.SetTurbo(component.TurboMini)
	r.tick(1)
	assert.InDelta(t, 2*dt, r.c.State().TurboTimer, 1e-12)
	assert.Equal(t, 1, r.rec.count(event.EventTurboStart))

	want := r.c.Tuning().AccelForce / 100 * r.c.Config().Turbos.Mini.AccelBoost
	assert.InDelta(t, want, r.c.State().AccelBoost, 1e-9)
	require.NotNil(t, r.c.AppliedTurbo())
	assert.Equal(t, "mini", r.c.AppliedTurbo().Name)
}

func TestTurboExpiresToIdle(t *testing.T) {
	r := newRig(t, nil)
	r.c.SetTurbo(component.TurboPad)
	n := int(r.c.Config().Turbos.Pad.Time/dt) + 3
	r.tick(n)

	assert.Equal(t, component.TurboIdle, r.c.CurrentTurbo())
	assert.Nil(t, r.c.AppliedTurbo())
	assert.Equal(t, 1, r.rec.count(event.EventTurboEnd))
	assert.Equal(t, 0.0, r.c.State().AccelBoost)

	// Same kind again after expiry starts a fresh effect
	r.c.SetTurbo(component.TurboPad)
	r.tick(1)
	assert.Equal(t, 2, r.rec.count(event.EventTurboStart))
}

func TestTurboDecayAfterExpiry(t *testing.T) {
	r := newRig(t, func(c *component.CarConfig) {
		c.Turbos.Mini.SpeedDecrease = true
		c.Turbos.Mini.PerSpeed = false
		c.Turbos.Mini.SpeedBoost = 10
		c.Turbos.Mini.Deceleration = 60
		c.Turbos.Mini.Time = 0.1
	})
	r.c.SetTurbo(component.TurboMini)
	r.tick(int(0.1/dt) + 3)
	require.Equal(t, component.TurboIdle, r.c.CurrentTurbo())

	decaying := r.c.State().SpeedBoost
	assert.Greater(t, decaying, 0.0)
	assert.Less(t, decaying, 10.0)

	r.tick(60)
	assert.Equal(t, 0.0, r.c.State().SpeedBoost)
}

func TestDirectTurboSetsVelocity(t *testing.T) {
	r := newRig(t, func(c *component.CarConfig) {
		c.Turbos.Pad.SpeedDirect = true
		c.Turbos.Pad.PerSpeed = false
		c.Turbos.Pad.SpeedBoost = 20
	})
	r.c.SetTurbo(component.TurboPad)
	r.tick(1)

	want := r.c.Tuning().MaxVelocity + 20 - parameter.TurboDirectSpeedOffset
	assert.InDelta(t, want, r.v.kmh, 1e-9)
	assert.InDelta(t, want*parameter.KmhToMs, r.v.vel.Z(), 1e-9)
}

func TestProgressiveTurboRampsWithDt(t *testing.T) {
	r := newRig(t, func(c *component.CarConfig) {
		c.Turbos.Pad.SpeedDirect = true
		c.Turbos.Pad.SpeedIncrease = true
		c.Turbos.Pad.FakeAccel = 120
		c.Turbos.Pad.Time = 1
	})
	r.v.kmh = 30
	r.c.SetTurbo(component.TurboPad)

	r.tick(1)
	assert.InDelta(t, 30+120*dt, r.v.kmh, 1e-9)

	r.tick(9)
	assert.InDelta(t, 30+10*120*dt, r.v.kmh, 1e-9)
}

func TestAccelerateHoldsEngineForce(t *testing.T) {
	r := newRig(t, func(c *component.CarConfig) { c.Tunings.Koji.AccelForce = 500 })
	r.v.gain = 0.05

	r.in.SetKey(input.KeyW, true)
	for i := 0; i < parameter.DefaultTickRate; i++ {
		r.tick(1)
		assert.Equal(t, 500.0, r.v.lastEngine(), "tick %d", i)
		assert.LessOrEqual(t, r.v.kmh, r.c.State().TopVelocity+1e-9, "tick %d", i)
	}
	assert.InDelta(t, r.c.Tuning().MaxVelocity, r.v.kmh, 1e-9)
}

func TestPassiveDecelerationBrake(t *testing.T) {
	r := newRig(t, nil)
	r.tick(1)
	require.NotEmpty(t, r.v.brakes)
	assert.Equal(t, r.c.Tuning().DecelBrake, r.v.brakes[len(r.v.brakes)-1])
}

func TestBrakeReversesWhenStopped(t *testing.T) {
	r := newRig(t, nil)
	r.in.SetKey(input.KeyS, true)
	r.tick(1)
	assert.Equal(t, -r.c.Tuning().BackForce, r.v.lastEngine())

	r.v.kmh = 40
	r.tick(1)
	assert.Equal(t, 0.0, r.v.lastEngine())
	assert.Equal(t, r.c.Tuning().BrakeForce, r.c.State().Brake)
}

func TestReverseSpeedClampedToMin(t *testing.T) {
	r := newRig(t, nil)
	r.v.kmh = -50
	r.tick(1)
	assert.InDelta(t, r.c.Tuning().MinVelocity, r.v.kmh, 1e-9)
}

func TestLoseHeightResetsToSpawnThenCheckpoint(t *testing.T) {
	r := newRig(t, nil)
	r.v.pos = mgl64.Vec3{5, -20, 5}
	r.tick(1)
	assert.Equal(t, spawn, r.v.pos)

	cp := mgl64.Vec3{30, 2, -4}
	require.True(t, r.c.WentThroughEnd(1, mgl64.Vec3{}, mgl64.QuatIdent()))
	require.True(t, r.c.WentThroughCheckpoint(1, cp, mgl64.QuatIdent()))
	r.v.pos = mgl64.Vec3{0, r.c.Config().LoseHeight, 0}
	r.tick(1)
	assert.Equal(t, cp, r.v.pos)

	ev, ok := r.rec.last(event.EventReset)
	require.True(t, ok)
	p := ev.Payload.(event.ResetPayload)
	assert.Equal(t, event.ResetFell, p.Reason)
	assert.True(t, p.Checkpoint)
}

func TestTurnOverResetsAfterTimeout(t *testing.T) {
	r := newRig(t, nil)
	r.v.rot = mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 0, 1})

	limit := int(r.c.Config().TurnOverResetTime/dt) - 5
	r.tick(limit)
	assert.True(t, r.c.State().Turned)
	assert.Equal(t, 0, r.rec.count(event.EventReset))

	r.tick(20)
	assert.Equal(t, 1, r.rec.count(event.EventReset))
	assert.False(t, r.c.State().Turned)
	assert.Equal(t, spawn, r.v.pos)

	ev, _ := r.rec.last(event.EventReset)
	assert.Equal(t, event.ResetTurnOver, ev.Payload.(event.ResetPayload).Reason)
}

func TestTurnOverCancelledWhenUpright(t *testing.T) {
	r := newRig(t, nil)
	r.v.rot = mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 0, 1})
	r.tick(60)
	require.Greater(t, r.c.State().TurnedTimer, 0.0)

	r.v.rot = mgl64.QuatIdent()
	r.tick(1)
	s := r.c.State()
	assert.False(t, s.Turned)
	assert.Equal(t, 0.0, s.TurnedTimer)
}

func TestKeyboardSteeringAndRecentering(t *testing.T) {
	r := newRig(t, nil)
	top := r.c.Tuning().BaseTurnMax

	r.in.SetKey(input.KeyD, true)
	r.tick(60)
	s := r.c.State()
	assert.InDelta(t, -top, s.TurnCurrent, 1e-12)
	assert.False(t, s.TurningLeft)
	assert.InDelta(t, -top, r.v.turn, 1e-12)

	r.in.SetKey(input.KeyD, false)
	r.tick(1)
	assert.Less(t, r.c.State().TurnCurrent, 0.0)
	r.tick(30)
	assert.Equal(t, 0.0, r.c.State().TurnCurrent)
}

func TestInvertedControls(t *testing.T) {
	r := newRig(t, func(c *component.CarConfig) { c.Players.Inverted = true })
	r.in.SetKey(input.KeyD, true)
	r.tick(5)
	s := r.c.State()
	assert.Greater(t, s.TurnCurrent, 0.0)
	assert.True(t, s.TurningLeft)
}

func TestSecondPlayerUsesArrowKeys(t *testing.T) {
	r := newRig(t, func(c *component.CarConfig) { c.Players.Front = 1; c.Players.Back = 0 })
	r.in.SetKey(input.KeyW, true)
	r.tick(1)
	assert.Equal(t, 0.0, r.v.lastEngine())

	r.in.SetKey(input.KeyArrowUp, true)
	r.tick(1)
	assert.Equal(t, r.c.Tuning().AccelForce, r.v.lastEngine())
}

func TestJoystickDeadZoneAndSteer(t *testing.T) {
	r := newRig(t, nil)
	r.in.SetJoysticks(1)

	r.in.SetAxis(input.Player1, input.AxisLeftX, 0.1)
	r.tick(1)
	assert.Equal(t, 0.0, r.c.State().TurnCurrent)

	r.in.SetAxis(input.Player1, input.AxisLeftX, -1)
	r.tick(1)
	s := r.c.State()
	assert.InDelta(t, r.c.Tuning().TurnSpeedJoystick*dt, s.TurnCurrent, 1e-12)
	assert.True(t, s.TurningLeft)
}

func TestTriggerAccelerate(t *testing.T) {
	r := newRig(t, nil)
	r.in.SetJoysticks(1)

	r.in.SetAxis(input.Player1, input.AxisRightTrigger, 1)
	r.tick(1)
	assert.Equal(t, r.c.Tuning().AccelForce, r.v.lastEngine())

	r.in.SetAxis(input.Player1, input.AxisRightTrigger, -0.8)
	r.tick(1)
	assert.Equal(t, 0.0, r.v.lastEngine(), "inside dead zone")

	r.in.SetAxis(input.Player1, input.AxisRightTrigger, 0)
	r.tick(1)
	assert.Equal(t, 0.0, r.v.lastEngine(), "resting trigger")
}

func TestDriftRejectedBelowMinSpeed(t *testing.T) {
	r := newRig(t, nil)
	r.v.kmh = r.c.Tuning().DriftMinSpeed - 1

	r.in.SetKey(input.KeyA, true)
	r.tick(1)
	r.in.SetKey(input.KeySpace, true)
	r.tick(1)

	assert.False(t, r.c.State().Drifting)
	assert.Equal(t, 0, r.v.frictionCalls)
	assert.Equal(t, 0, r.rec.count(event.EventDriftStart))
}

func TestDriftRoundTripRestoresFriction(t *testing.T) {
	r := newRig(t, nil)
	r.v.kmh = 50
	r.v.vel = mgl64.Vec3{0, 0, 50 * parameter.KmhToMs}

	r.in.SetKey(input.KeyA, true)
	r.tick(1)
	r.in.SetKey(input.KeySpace, true)
	r.tick(1)

	s := r.c.State()
	require.True(t, s.Drifting)
	assert.True(t, s.DriftDirLeft)
	assert.Equal(t, 0.0, r.v.friction)

	r.tick(10)
	s = r.c.State()
	assert.Equal(t, 0.0, r.v.vel.Y())
	assert.Equal(t, r.c.Tuning().DriftTurnMax, s.TurnMax)
	assert.GreaterOrEqual(t, s.TurnCurrent, 0.0)

	r.in.SetKey(input.KeySpace, false)
	r.tick(1)
	assert.False(t, r.c.State().Drifting)
	assert.Equal(t, r.c.Config().Suspension.FrictionSlip, r.v.friction)
	assert.InDelta(t, 50*parameter.KmhToMs, r.v.vel.Len(), 1e-9)
	assert.Equal(t, 1, r.rec.count(event.EventDriftEnd))
}

func TestDriftForcesFlattenVelocity(t *testing.T) {
	r := newRig(t, nil)
	r.tick(1)
	r.v.kmh = 60
	r.v.vel = mgl64.Vec3{0, 3, 60 * parameter.KmhToMs}
	r.c.turningLeft = true
	require.True(t, r.c.StartDrift())

	r.c.CalcDriftForces()
	assert.Equal(t, 0.0, r.v.vel.Y())
	assert.Greater(t, r.v.cleared, 0)

	speed := r.c.State().StartDriftSpeed.Len() * r.c.Tuning().DriftMult
	dir := r.v.vel.Normalize()
	assert.Less(t, dir.X(), 0.0, "left drift slides toward -X")
	assert.Greater(t, dir.Z(), 0.0)
	assert.LessOrEqual(t, r.v.vel.Len(), speed)
}

func TestDriftEndsWhenAirborne(t *testing.T) {
	r := newRig(t, nil)
	r.tick(1)
	r.v.kmh = 60
	require.True(t, r.c.StartDrift())

	r.v.contact = false
	r.tick(1)
	assert.False(t, r.c.State().Drifting)
}

func TestDriftTurboClicks(t *testing.T) {
	r := newRig(t, nil)
	r.tick(1)
	r.v.kmh = 60
	require.True(t, r.c.StartDrift())
	require.Equal(t, 3, r.c.Config().ClicksToDriftTurbo)

	levels := []int{0, 0, 1, 1, 1}
	for i, want := range levels {
		r.c.DriftTurbo()
		assert.Equal(t, want, r.c.State().DriftTurboLevel, "click %d", i+1)
	}
	assert.Equal(t, 2, r.c.State().DriftTurboClicks)
	r.c.DriftTurbo()
	assert.Equal(t, 2, r.c.State().DriftTurboLevel)

	for i := 0; i < 20; i++ {
		r.c.DriftTurbo()
	}
	assert.Equal(t, parameter.MaxDriftTurboLevel, r.c.State().DriftTurboLevel)
}

func TestDriftExitGrantsQueuedTurbo(t *testing.T) {
	tests := []struct {
		clicks int
		want   component.Turbo
	}{
		{3, component.TurboMini},
		{6, component.TurboDrift2},
		{9, component.TurboDrift3},
		{30, component.TurboDrift3},
	}
	for _, tt := range tests {
		r := newRig(t, nil)
		r.tick(1)
		r.v.kmh = 60
		require.True(t, r.c.StartDrift())
		for i := 0; i < tt.clicks; i++ {
			r.c.DriftTurbo()
		}
		r.c.EndDrift()

		s := r.c.State()
		assert.Equal(t, tt.want, s.CurrentTurbo, "clicks %d", tt.clicks)
		assert.Equal(t, 0, s.DriftTurboLevel)
		assert.False(t, s.DriftTurboQueued)
	}
}

func TestKeyboardPush(t *testing.T) {
	r := newRig(t, nil)
	r.tick(1)

	r.in.SetKey(input.KeyK, true)
	r.tick(1)
	assert.True(t, r.c.State().Pushing)
	r.tick(1)
	assert.Equal(t, r.c.Tuning().PushForce, r.v.lastEngine())

	r.in.SetKey(input.KeyK, false)
	r.tick(int(parameter.PushDuration/dt) + 2)
	assert.False(t, r.c.State().Pushing)
	assert.Equal(t, 0.0, r.v.lastEngine())
}

func TestPushIgnoredWhenFast(t *testing.T) {
	r := newRig(t, nil)
	tu := r.c.Tuning()
	r.v.kmh = tu.MaxVelocity/100*tu.PushSpeedPer + 1
	r.c.Push()
	assert.False(t, r.c.State().Pushing)
}

func TestFullBrakeOnlyForward(t *testing.T) {
	r := newRig(t, nil)
	r.in.SetKey(input.KeyX, true)
	r.tick(1)
	assert.Equal(t, 0.0, r.c.State().Brake)

	r.v.kmh = 30
	r.tick(1)
	assert.Equal(t, r.c.Tuning().FullBrakeForce, r.c.State().Brake)
}

func TestItems(t *testing.T) {
	r := newRig(t, nil)
	assert.False(t, r.c.UseItem())
	assert.True(t, r.c.PickItem())
	assert.False(t, r.c.PickItem())

	r.in.SetKey(input.KeyQ, true)
	r.tick(1)
	assert.Equal(t, component.TurboRocket, r.c.CurrentTurbo())
	assert.False(t, r.c.State().HasItem)

	r.in.SetKey(input.KeyQ, false)
	r.tick(1)
	assert.Equal(t, component.TurboIdle, r.c.CurrentTurbo())

	r.c.SetTurbo(component.TurboPad)
	r.c.ReleaseItem()
	assert.Equal(t, component.TurboPad, r.c.CurrentTurbo())
}

func TestHitodamasClampAndRaiseTopSpeed(t *testing.T) {
	r := newRig(t, nil)
	max := r.c.Config().Items.MaxHitodamas

	assert.False(t, r.c.RemoveHitodama())
	for i := 0; i < max+3; i++ {
		r.c.AddHitodama()
	}
	assert.Equal(t, max, r.c.State().NumHitodamas)

	r.tick(1)
	want := r.c.Tuning().MaxVelocity + float64(max)*r.c.Config().Items.BonusHitodamas
	assert.Equal(t, want, r.c.State().TopVelocity)

	assert.True(t, r.c.RemoveHitodama())
	assert.Equal(t, max-1, r.c.State().NumHitodamas)
}

func TestAcrobaticsLandingGrantsMini(t *testing.T) {
	r := newRig(t, nil)
	r.tick(1)
	r.v.contact = false
	r.tick(1)

	r.c.Acrobatics(input.Player1)
	assert.True(t, r.c.State().AcroOn)
	r.c.Acrobatics(input.Player2)
	assert.True(t, r.c.State().AcroDone)

	r.v.contact = true
	r.tick(1)
	s := r.c.State()
	assert.Equal(t, component.TurboMini, s.CurrentTurbo)
	assert.False(t, s.AcroDone)
	assert.Equal(t, 1, r.rec.count(event.EventTurboStart))
}

func TestAcrobaticsIgnoredOnGround(t *testing.T) {
	r := newRig(t, nil)
	r.tick(1)
	r.c.Acrobatics(input.Player1)
	assert.False(t, r.c.State().AcroOn)
}

func TestAcrobaticsWindowExpires(t *testing.T) {
	r := newRig(t, nil)
	r.v.contact = false
	r.tick(1)
	r.c.Acrobatics(input.Player1)
	r.tick(int(r.c.Tuning().AcroTime/dt) + 2)
	assert.False(t, r.c.State().AcroOn)
}

func TestOnCollisionFiresEveryFlag(t *testing.T) {
	r := newRig(t, nil)
	require.True(t, r.c.WentThroughEnd(1, mgl64.Vec3{}, mgl64.QuatIdent()))

	pos := mgl64.Vec3{3, 0, 3}
	r.c.OnCollision(component.FlagTrigger|component.FlagCheckpoint|component.FlagItem|component.FlagTurboPad, 1, pos, mgl64.QuatIdent())

	s := r.c.State()
	assert.Equal(t, uint32(1), s.Checkpoints)
	assert.True(t, s.HasItem)
	assert.Equal(t, component.TurboPad, s.CurrentTurbo)

	r.v.pos = mgl64.Vec3{100, 0, 100}
	r.c.OnCollision(component.FlagTrigger|component.FlagOutOfBounds, 0, mgl64.Vec3{}, mgl64.QuatIdent())
	assert.Equal(t, pos, r.v.pos)
}

func TestOnGetHitStopsCar(t *testing.T) {
	r := newRig(t, nil)
	r.v.vel = mgl64.Vec3{0, 0, 10}
	r.v.kmh = 36
	r.in.SetKey(input.KeyL, true)
	r.tick(1)
	assert.Equal(t, mgl64.Vec3{}, r.v.vel)
	assert.Equal(t, 1, r.rec.count(event.EventHit))
}

func TestApplyConfigOnlyBetweenRaces(t *testing.T) {
	r := newRig(t, nil)
	err := r.c.SetKartType(component.KartWood)
	assert.ErrorIs(t, err, ErrRaceActive)
	assert.Equal(t, component.KartKoji, r.c.Config().Kart)

	r.c.OnStop()
	assert.Nil(t, r.c.Vehicle())
	require.NoError(t, r.c.SetKartType(component.KartWood))
	assert.Equal(t, component.WoodTuning(), r.c.Tuning())
	assert.Equal(t, 1, r.rec.count(event.EventRaceStop))
}

func TestOnPlayResetsRace(t *testing.T) {
	r := newRig(t, nil)
	require.True(t, r.c.WentThroughEnd(1, mgl64.Vec3{}, mgl64.QuatIdent()))
	r.c.PickItem()
	r.c.BlockInput(true)

	require.NoError(t, r.c.OnPlay(spawn, mgl64.QuatIdent()))
	s := r.c.State()
	assert.Equal(t, parameter.CheckpointNone, s.Checkpoints)
	assert.Equal(t, parameter.StartLap, s.Lap)
	assert.False(t, s.RaceStarted)
	assert.False(t, s.InputLocked)
	assert.False(t, s.HasItem)
}

func TestUpdateWithoutVehicle(t *testing.T) {
	c := New(component.DefaultCarConfig(), input.NewTracker(), nil)
	assert.NotPanics(t, func() {
		c.Update(dt)
		c.Reset()
		c.OnStop()
	})
	assert.Error(t, c.OnPlay(spawn, mgl64.QuatIdent()))
}

func TestOnPlayFactoryError(t *testing.T) {
	boom := errors.New("boom")
	c := New(component.DefaultCarConfig(), input.NewTracker(),
		func(physics.VehicleInfo, mgl64.Vec3, mgl64.Quat) (Vehicle, error) { return nil, boom })
	err := c.OnPlay(spawn, mgl64.QuatIdent())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, c.Vehicle())
}

func TestControllerDrivesPhysicsVehicle(t *testing.T) {
	w := physics.NewWorld()
	tr := input.NewTracker()
	c := New(component.DefaultCarConfig(), tr, WorldFactory(w))
	require.NoError(t, c.OnPlay(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent()))

	tr.SetKey(input.KeyW, true)
	for i := 0; i < 180; i++ {
		tr.Tick()
		c.Update(dt)
		w.Step(dt)
	}
	assert.Greater(t, c.Vehicle().GetKmh(), 1.0)
	assert.True(t, c.OnGround())
	assert.Equal(t, 1, w.NumVehicles())
}
