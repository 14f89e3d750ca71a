package fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lightCtx struct {
	power bool
	log   []string
}

const triggerToggle Trigger = 1

const lightConfig = `
initial = "Off"

[states.Powered]

[states.Off]
on_enter = [{ action = "Log", args = { msg = "off" } }]
[[states.Off.transitions]]
trigger = "Tick"
target = "Dim"
guard = "HasPower"

[states.Dim]
parent = "Powered"
on_enter = [{ action = "Log", args = { msg = "dim" } }]
on_exit = [{ action = "Log", args = { msg = "leave-dim" } }]
[[states.Dim.transitions]]
trigger = "Toggle"
target = "Bright"
[[states.Dim.transitions]]
trigger = "Tick"
target = "Bright"
guard = "StateTimeExceeds"
guard_args = { ms = 100 }

[states.Bright]
parent = "Powered"
on_enter = [{ action = "Log", args = { msg = "bright" } }]

[[states.Powered.transitions]]
trigger = "Tick"
target = "Off"
guard = "NoPower"
`

func newLightMachine(t *testing.T) *Machine[*lightCtx] {
	t.Helper()
	m := NewMachine[*lightCtx]()
	m.RegisterTrigger("Toggle", triggerToggle)
	m.RegisterGuard("HasPower", func(c *lightCtx) bool { return c.power })
	m.RegisterGuard("NoPower", func(c *lightCtx) bool { return !c.power })
	m.RegisterAction("Log", func(c *lightCtx, args map[string]any) {
		c.log = append(c.log, args["msg"].(string))
	})
	require.NoError(t, m.LoadConfig([]byte(lightConfig)))
	return m
}

func TestMachineTransitions(t *testing.T) {
	m := newLightMachine(t)
	ctx := &lightCtx{}
	require.NoError(t, m.Init(ctx))
	assert.Equal(t, "Off", m.Current())

	m.Update(ctx, time.Millisecond)
	assert.Equal(t, "Off", m.Current())

	ctx.power = true
	m.Update(ctx, time.Millisecond)
	assert.Equal(t, "Dim", m.Current())
	assert.True(t, m.IsIn("Powered"))

	assert.True(t, m.HandleEvent(ctx, triggerToggle))
	assert.Equal(t, "Bright", m.Current())
	assert.False(t, m.HandleEvent(ctx, triggerToggle))

	// Inherited from parent
	ctx.power = false
	m.Update(ctx, time.Millisecond)
	assert.Equal(t, "Off", m.Current())
	assert.Equal(t, []string{"off", "dim", "leave-dim", "bright", "off"}, ctx.log)
}

func TestMachineStateTimeGuard(t *testing.T) {
	m := newLightMachine(t)
	ctx := &lightCtx{power: true}
	require.NoError(t, m.Init(ctx))
	m.Update(ctx, 0)
	require.Equal(t, "Dim", m.Current())

	m.Update(ctx, 50*time.Millisecond)
	assert.Equal(t, "Dim", m.Current())
	m.Update(ctx, 60*time.Millisecond)
	assert.Equal(t, "Bright", m.Current())
	assert.Equal(t, time.Duration(0), m.TimeInState())
}

func TestMachineReenterRestartsActiveState(t *testing.T) {
	const triggerFlash Trigger = 2
	m := NewMachine[*lightCtx]()
	m.RegisterTrigger("Flash", triggerFlash)
	m.RegisterTrigger("Toggle", triggerToggle)
	m.RegisterAction("Log", func(c *lightCtx, args map[string]any) {
		c.log = append(c.log, args["msg"].(string))
	})
	require.NoError(t, m.LoadConfig([]byte(`
initial = "Idle"

[[states.Root.transitions]]
trigger = "Flash"
target = "Flash"
reenter = true

[[states.Root.transitions]]
trigger = "Toggle"
target = "Idle"

[states.Idle]

[states.Flash]
on_enter = [{ action = "Log", args = { msg = "enter" } }]
on_exit = [{ action = "Log", args = { msg = "exit" } }]
`)))

	ctx := &lightCtx{}
	require.NoError(t, m.Init(ctx))
	require.True(t, m.HandleEvent(ctx, triggerFlash))
	m.Update(ctx, 40*time.Millisecond)

	assert.True(t, m.HandleEvent(ctx, triggerFlash))
	assert.Equal(t, "Flash", m.Current())
	assert.Equal(t, time.Duration(0), m.TimeInState())
	assert.Equal(t, []string{"enter", "exit", "enter"}, ctx.log)

	// Without the flag a self-transition is still a no-op
	require.True(t, m.HandleEvent(ctx, triggerToggle))
	assert.False(t, m.HandleEvent(ctx, triggerToggle))
}

func TestMachineReset(t *testing.T) {
	m := newLightMachine(t)
	ctx := &lightCtx{power: true}
	require.NoError(t, m.Init(ctx))
	m.Update(ctx, 0)
	require.NoError(t, m.Reset(ctx))
	assert.Equal(t, "Off", m.Current())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  string
	}{
		{"unknown initial", `initial = "Nope"
[states.A]`},
		{"unknown parent", `initial = "A"
[states.A]
parent = "Ghost"`},
		{"unknown target", `initial = "A"
[[states.A.transitions]]
trigger = "Tick"
target = "B"`},
		{"unknown guard", `initial = "A"
[states.B]
[[states.A.transitions]]
trigger = "Tick"
target = "B"
guard = "Missing"`},
		{"unknown trigger", `initial = "A"
[states.B]
[[states.A.transitions]]
trigger = "Explode"
target = "B"`},
		{"unknown action", `initial = "A"
[states.A]
on_enter = [{ action = "Dance" }]`},
		{"bad toml", `initial = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine[*lightCtx]()
			assert.Error(t, m.LoadConfig([]byte(tt.cfg)))
		})
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{"i": int64(3), "f": 0.5}
	assert.Equal(t, 3, ArgInt(args, "i", 0))
	assert.Equal(t, 0.5, ArgFloat(args, "f", 0))
	assert.Equal(t, 3.0, ArgFloat(args, "i", 0))
	assert.Equal(t, 7, ArgInt(args, "missing", 7))
}
