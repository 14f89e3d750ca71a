package component

import (
	"fmt"

	"github.com/lixenwraith/kartcore/parameter"
)

// Turbo selects one of the fixed turbo effects, or none
type Turbo uint8

const (
	TurboIdle Turbo = iota
	TurboMini
	TurboDrift2
	TurboDrift3
	TurboPad
	TurboRocket
)

// TurboCount is the number of selectable effects (TurboIdle excluded)
const TurboCount = 5

var turboNames = [...]string{"idle", "mini", "drift2", "drift3", "pad", "rocket"}

func (t Turbo) String() string {
	if int(t) < len(turboNames) {
		return turboNames[t]
	}
	return fmt.Sprintf("turbo(%d)", uint8(t))
}

// Slot returns the index into a TurboSet, -1 for TurboIdle
func (t Turbo) Slot() int {
	if t == TurboIdle || t > TurboRocket {
		return -1
	}
	return int(t) - 1
}

// TurboEffect is a timed speed/acceleration modifier
type TurboEffect struct {
	Name          string  `toml:"-"`
	AccelBoost    float64 `toml:"accel_boost"`
	SpeedBoost    float64 `toml:"speed_boost"`
	Time          float64 `toml:"time"`
	Deceleration  float64 `toml:"deceleration"`
	PerAccel      bool    `toml:"accel_per"`
	PerSpeed      bool    `toml:"speed_per"`
	SpeedDirect   bool    `toml:"speed_direct"`
	SpeedDecrease bool    `toml:"speed_decrease"`
	SpeedIncrease bool    `toml:"speed_increase"`
	FakeAccel     float64 `toml:"fake_accel"`
}

// NewTurboEffect builds a percentage-based additive effect
func NewTurboEffect(name string, accelBoost, speedBoost, seconds float64) TurboEffect {
	return TurboEffect{
		Name:         name,
		AccelBoost:   accelBoost,
		SpeedBoost:   speedBoost,
		Time:         seconds,
		Deceleration: parameter.TurboDeceleration,
		PerAccel:     true,
		PerSpeed:     true,
		FakeAccel:    parameter.TurboFakeAccel,
	}
}

// TurboSet holds the five named effects in selector order
type TurboSet struct {
	Mini   TurboEffect `toml:"mini"`
	Drift2 TurboEffect `toml:"drift2"`
	Drift3 TurboEffect `toml:"drift3"`
	Pad    TurboEffect `toml:"pad"`
	Rocket TurboEffect `toml:"rocket"`
}

// DefaultTurbos returns the stock effect table
func DefaultTurbos() TurboSet {
	return TurboSet{
		Mini:   NewTurboEffect("mini", parameter.MiniTurboAccelBoost, parameter.MiniTurboSpeedBoost, parameter.MiniTurboTime),
		Drift2: NewTurboEffect("drift2", parameter.Drift2TurboAccelBoost, parameter.Drift2TurboSpeedBoost, parameter.Drift2TurboTime),
		Drift3: NewTurboEffect("drift3", parameter.Drift3TurboAccelBoost, parameter.Drift3TurboSpeedBoost, parameter.Drift3TurboTime),
		Pad:    NewTurboEffect("pad", parameter.PadTurboAccelBoost, parameter.PadTurboSpeedBoost, parameter.PadTurboTime),
		Rocket: NewTurboEffect("rocket", parameter.RocketTurboAccelBoost, parameter.RocketTurboSpeedBoost, parameter.RocketTurboTime),
	}
}

// Array flattens the set for slot indexing, restoring names dropped by persistence
func (s TurboSet) Array() [TurboCount]TurboEffect {
	arr := [TurboCount]TurboEffect{s.Mini, s.Drift2, s.Drift3, s.Pad, s.Rocket}
	for i := range arr {
		arr[i].Name = turboNames[i+1]
	}
	return arr
}
