// Package animation drives the driver and body rigs of a kart from controller state
package animation

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/lixenwraith/kartcore/engine/fsm"
	"github.com/lixenwraith/kartcore/parameter"
)

//go:embed driver.toml
var driverConfig []byte

//go:embed body.toml
var bodyConfig []byte

// Animator plays clips on one rig
type Animator interface {
	Play(clip int, blend float64)
	Playing() bool
	LockRatio(ratio float64)
	SetTicksPerSecond(tps float64)
}

// advancer is implemented by animators that keep their own clip clock
type advancer interface {
	Advance(dt float64)
}

// Input is the controller state the rigs follow each tick
type Input struct {
	TurnCurrent float64
	TurnTop     float64 // turn_max + turn_boost
	Drifting    bool
	DriftLeft   bool
	Pushing     bool
	Leaning     bool
	Speed       float64 // km/h
	TopSpeed    float64 // km/h, max_velocity + speed_boost
}

// Context is what guards and actions of both machines see
type Context struct {
	Input
	Driver Animator
	Body   Animator
}

// One-shot triggers shared by both rig tables
const (
	TriggerHit fsm.Trigger = iota + 1
	TriggerAcrobatics
	TriggerUseItem
	TriggerLean
)

// Bridge owns the two rig state machines
type Bridge struct {
	ctx    *Context
	driver *fsm.Machine[*Context]
	body   *fsm.Machine[*Context]
}

// Options selects rig tables; empty paths use the embedded definitions
type Options struct {
	DriverTable string
	BodyTable   string
}

// NewBridge builds both machines; nil animators are replaced by a no-op rig
func NewBridge(driver, body Animator, opts Options) (*Bridge, error) {
	if driver == nil {
		driver = nopAnimator{}
	}
	if body == nil {
		body = nopAnimator{}
	}
	b := &Bridge{
		ctx:    &Context{Driver: driver, Body: body},
		driver: newMachine(),
		body:   newMachine(),
	}
	if err := b.driver.LoadConfigAuto(opts.DriverTable, driverConfig); err != nil {
		return nil, fmt.Errorf("driver rig: %w", err)
	}
	if err := b.body.LoadConfigAuto(opts.BodyTable, bodyConfig); err != nil {
		return nil, fmt.Errorf("body rig: %w", err)
	}
	if err := b.driver.Init(b.ctx); err != nil {
		return nil, fmt.Errorf("driver rig: %w", err)
	}
	if err := b.body.Init(b.ctx); err != nil {
		return nil, fmt.Errorf("body rig: %w", err)
	}
	return b, nil
}

// newMachine registers every guard, action and trigger either table may use
func newMachine() *fsm.Machine[*Context] {
	m := fsm.NewMachine[*Context]()

	m.RegisterTrigger("Hit", TriggerHit)
	m.RegisterTrigger("Acrobatics", TriggerAcrobatics)
	m.RegisterTrigger("UseItem", TriggerUseItem)
	m.RegisterTrigger("Lean", TriggerLean)

	m.RegisterGuard("AtMaxLeft", func(c *Context) bool { return c.TurnCurrent >= c.TurnTop })
	m.RegisterGuard("AtMaxRight", func(c *Context) bool { return c.TurnCurrent <= -c.TurnTop })
	m.RegisterGuard("BelowMaxLeft", func(c *Context) bool { return c.TurnCurrent < c.TurnTop })
	m.RegisterGuard("BelowMaxRight", func(c *Context) bool { return c.TurnCurrent > -c.TurnTop })
	m.RegisterGuard("DriverDone", func(c *Context) bool { return !c.Driver.Playing() })
	m.RegisterGuard("BodyDone", func(c *Context) bool { return !c.Body.Playing() })
	m.RegisterGuard("BodyDonePushing", func(c *Context) bool { return !c.Body.Playing() && c.Pushing })
	m.RegisterGuard("DriftingLeft", func(c *Context) bool { return c.Drifting && c.DriftLeft })
	m.RegisterGuard("DriftingRight", func(c *Context) bool { return c.Drifting && !c.DriftLeft })
	m.RegisterGuard("NotDrifting", func(c *Context) bool { return !c.Drifting })
	m.RegisterGuard("Pushing", func(c *Context) bool { return c.Pushing })
	m.RegisterGuard("NotPushing", func(c *Context) bool { return !c.Pushing })
	m.RegisterGuard("NotLeaning", func(c *Context) bool { return !c.Leaning })

	m.RegisterAction("PlayDriver", func(c *Context, args map[string]any) {
		c.Driver.Play(fsm.ArgInt(args, "clip", 0), fsm.ArgFloat(args, "blend", parameter.AnimationBlend))
	})
	m.RegisterAction("PlayBody", func(c *Context, args map[string]any) {
		c.Body.Play(fsm.ArgInt(args, "clip", parameter.BodyClipIdle), fsm.ArgFloat(args, "blend", parameter.AnimationBlend))
	})
	m.RegisterAction("LockTurnRatio", func(c *Context, _ map[string]any) {
		c.Driver.LockRatio(TurnRatio(c.TurnCurrent, c.TurnTop))
	})
	m.RegisterAction("IdleSpeed", func(c *Context, _ map[string]any) {
		c.Body.SetTicksPerSecond(IdleTicksPerSecond(c.Speed, c.TopSpeed))
	})
	return m
}

// TurnRatio maps a wheel angle in [-top, top] to a clip position in [0, 1], full left at 0
func TurnRatio(turn, top float64) float64 {
	if top == 0 {
		return 0.5
	}
	return (-turn + top) / (2 * top)
}

// IdleTicksPerSecond scales body idle playback with speed
func IdleTicksPerSecond(speed, top float64) float64 {
	if top == 0 {
		return parameter.BodyIdleTicksBase
	}
	return parameter.BodyIdleTicksBase + parameter.BodyIdleTicksSpan*(speed/top)
}

// Update feeds controller state to both rigs and advances them one tick
func (b *Bridge) Update(in Input, dt float64) {
	b.ctx.Input = in
	if a, ok := b.ctx.Driver.(advancer); ok {
		a.Advance(dt)
	}
	if a, ok := b.ctx.Body.(advancer); ok {
		a.Advance(dt)
	}
	d := time.Duration(dt * float64(time.Second))
	b.driver.Update(b.ctx, d)
	b.body.Update(b.ctx, d)
}

// Hit plays the hit reaction on both rigs
func (b *Bridge) Hit() {
	b.driver.HandleEvent(b.ctx, TriggerHit)
	b.body.HandleEvent(b.ctx, TriggerHit)
}

// Acrobatics plays the acrobatics clip on both rigs
func (b *Bridge) Acrobatics() {
	b.driver.HandleEvent(b.ctx, TriggerAcrobatics)
	b.body.HandleEvent(b.ctx, TriggerAcrobatics)
}

// UseItem plays the item throw on the body rig
func (b *Bridge) UseItem() {
	b.body.HandleEvent(b.ctx, TriggerUseItem)
}

// Lean enters the body lean pose; it holds while Input.Leaning stays true
func (b *Bridge) Lean() {
	b.ctx.Leaning = true
	b.body.HandleEvent(b.ctx, TriggerLean)
}

// DriverState returns the driver rig state name
func (b *Bridge) DriverState() string { return b.driver.Current() }

// BodyState returns the body rig state name
func (b *Bridge) BodyState() string { return b.body.Current() }

// Reset returns both rigs to Idle
func (b *Bridge) Reset() error {
	b.ctx.Input = Input{}
	if err := b.driver.Reset(b.ctx); err != nil {
		return err
	}
	return b.body.Reset(b.ctx)
}

type nopAnimator struct{}

func (nopAnimator) Play(int, float64)         {}
func (nopAnimator) Playing() bool             { return false }
func (nopAnimator) LockRatio(float64)         {}
func (nopAnimator) SetTicksPerSecond(float64) {}
