package component

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kartcore/parameter"
)

func TestLoadCarConfigKeepsDefaults(t *testing.T) {
	src := `
kart_type = "wood"
lose_height = -3.5

[kart.wood]
max_speed = 120.0

[turbo.pad]
time = 0.75
speed_direct = true
`
	cfg, err := LoadCarConfig(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, KartWood, cfg.Kart)
	assert.Equal(t, -3.5, cfg.LoseHeight)
	assert.Equal(t, 120.0, cfg.Tunings.Wood.MaxVelocity)
	assert.Equal(t, parameter.WoodAccelForce, cfg.Tunings.Wood.AccelForce, "unset key keeps default")
	assert.Equal(t, 0.75, cfg.Turbos.Pad.Time)
	assert.True(t, cfg.Turbos.Pad.SpeedDirect)
	assert.Equal(t, parameter.PadTurboSpeedBoost, cfg.Turbos.Pad.SpeedBoost)
}

func TestLoadCarConfigResetTimeFloor(t *testing.T) {
	cfg, err := LoadCarConfig(strings.NewReader("turn_over_reset_time = 0.1\n"))
	require.NoError(t, err)
	assert.Equal(t, parameter.DefaultTurnOverResetTime, cfg.TurnOverResetTime)

	cfg, err = LoadCarConfig(strings.NewReader("turn_over_reset_time = 1.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.TurnOverResetTime)
}

func TestLoadCarConfigPermissive(t *testing.T) {
	// Nonsense values load untouched
	cfg, err := LoadCarConfig(strings.NewReader("[kart.koji]\nmax_speed = -5.0\ntime_to_idle = 0.0\n"))
	require.NoError(t, err)
	assert.Equal(t, -5.0, cfg.Tunings.Koji.MaxVelocity)
	assert.Equal(t, 0.0, cfg.Tunings.Koji.TimeToIdle)
}

func TestLoadCarConfigRejectsUnknownKart(t *testing.T) {
	_, err := LoadCarConfig(strings.NewReader(`kart_type = "steel"`))
	assert.Error(t, err)
}

func TestSaveLoadCarConfig(t *testing.T) {
	cfg := DefaultCarConfig()
	cfg.Kart = KartWood
	cfg.TurnChange.Mode = TurnChangeByInterpolation
	cfg.Wheels.FrontLeft = "wheel-fl"
	cfg.Items.MaxHitodamas = 9

	var buf bytes.Buffer
	require.NoError(t, SaveCarConfig(&buf, cfg))
	assert.Contains(t, buf.String(), "interpolation")

	got, err := LoadCarConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, KartWood, got.Kart)
	assert.Equal(t, TurnChangeByInterpolation, got.TurnChange.Mode)
	assert.Equal(t, "wheel-fl", got.Wheels.FrontLeft)
	assert.Equal(t, 9, got.Items.MaxHitodamas)
	assert.Equal(t, cfg.Tunings, got.Tunings)
}

func TestTurboSlots(t *testing.T) {
	assert.Equal(t, -1, TurboIdle.Slot())
	assert.Equal(t, 0, TurboMini.Slot())
	assert.Equal(t, 4, TurboRocket.Slot())

	arr := DefaultTurbos().Array()
	assert.Equal(t, "drift3", arr[TurboDrift3.Slot()].Name)
	assert.Equal(t, parameter.Drift3TurboTime, arr[TurboDrift3.Slot()].Time)
	assert.Equal(t, parameter.RocketTurboAccelBoost, arr[TurboRocket.Slot()].AccelBoost)
}

func TestTriggerFlags(t *testing.T) {
	f := FlagTrigger | FlagCheckpoint | FlagOutOfBounds
	assert.True(t, f.Has(FlagCheckpoint))
	assert.True(t, f.Has(FlagCheckpoint|FlagOutOfBounds))
	assert.False(t, f.Has(FlagItem))
}
