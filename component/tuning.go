package component

import (
	"fmt"

	"github.com/lixenwraith/kartcore/parameter"
)

// KartType selects which tuning preset drives a car
type KartType uint8

const (
	KartWood KartType = parameter.KartWood
	KartKoji KartType = parameter.KartKoji
)

func (k KartType) String() string {
	switch k {
	case KartWood:
		return "wood"
	case KartKoji:
		return "koji"
	default:
		return fmt.Sprintf("kart(%d)", uint8(k))
	}
}

func (k KartType) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *KartType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "wood":
		*k = KartWood
	case "koji":
		*k = KartKoji
	default:
		return fmt.Errorf("unknown kart type %q", string(b))
	}
	return nil
}

// VehicleTuning is the per-kart-type parameter set
// Values are read as-is; out-of-range numbers are not rejected
type VehicleTuning struct {
	AccelForce  float64 `toml:"acceleration"`
	MaxVelocity float64 `toml:"max_speed"`
	MinVelocity float64 `toml:"min_speed"`
	DecelBrake  float64 `toml:"fake_break"`

	BaseTurnMax             float64 `toml:"base_turn_max"`
	TurnSpeed               float64 `toml:"turn_speed"`
	TurnSpeedJoystick       float64 `toml:"turn_speed_joystick"`
	TimeToIdle              float64 `toml:"time_to_idle"`
	IdleTurnByInterpolation bool    `toml:"idle_turn_by_interpolation"`
	VelocityToBeginChange   float64 `toml:"velocity_to_change"`
	TurnMaxLimit            float64 `toml:"turn_max_limit"`
	BaseMaxTurnChangeSpeed  float64 `toml:"base_max_turn_change_speed"`
	BaseMaxTurnChangeAccel  float64 `toml:"base_max_turn_change_accel"`

	PushForce    float64 `toml:"push_force"`
	PushSpeedPer float64 `toml:"push_speed_per"`

	BrakeForce     float64 `toml:"brake_force"`
	BackForce      float64 `toml:"back_force"`
	FullBrakeForce float64 `toml:"full_brake_force"`

	DriftRatio    float64 `toml:"drift_ratio"`
	DriftMult     float64 `toml:"drift_mult"`
	DriftBoost    float64 `toml:"drift_boost"`
	DriftMinSpeed float64 `toml:"drift_min_speed"`
	DriftTurnMax  float64 `toml:"drift_turn_max"`

	AcroTime float64 `toml:"acro_time"`
}

// WoodTuning returns the wood kart preset
func WoodTuning() VehicleTuning {
	return VehicleTuning{
		AccelForce:             parameter.WoodAccelForce,
		MaxVelocity:            parameter.WoodMaxVelocity,
		MinVelocity:            parameter.WoodMinVelocity,
		DecelBrake:             parameter.WoodDecelBrake,
		BaseTurnMax:            parameter.WoodBaseTurnMax,
		TurnSpeed:              parameter.WoodTurnSpeed,
		TurnSpeedJoystick:      parameter.WoodTurnSpeedJoystick,
		TimeToIdle:             parameter.WoodTimeToIdle,
		VelocityToBeginChange:  parameter.WoodVelocityToBeginChange,
		TurnMaxLimit:           parameter.WoodTurnMaxLimit,
		BaseMaxTurnChangeSpeed: parameter.WoodBaseMaxTurnChangeSpeed,
		BaseMaxTurnChangeAccel: parameter.WoodBaseMaxTurnChangeAccel,
		PushForce:              parameter.WoodPushForce,
		PushSpeedPer:           parameter.WoodPushSpeedPer,
		BrakeForce:             parameter.WoodBrakeForce,
		BackForce:              parameter.WoodBackForce,
		FullBrakeForce:         parameter.WoodFullBrakeForce,
		DriftRatio:             parameter.WoodDriftRatio,
		DriftMult:              parameter.WoodDriftMult,
		DriftBoost:             parameter.WoodDriftBoost,
		DriftMinSpeed:          parameter.WoodDriftMinSpeed,
		DriftTurnMax:           parameter.WoodDriftTurnMax,
		AcroTime:               parameter.WoodAcroTime,
	}
}

// KojiTuning returns the koji kart preset
func KojiTuning() VehicleTuning {
	return VehicleTuning{
		AccelForce:             parameter.KojiAccelForce,
		MaxVelocity:            parameter.KojiMaxVelocity,
		MinVelocity:            parameter.KojiMinVelocity,
		DecelBrake:             parameter.KojiDecelBrake,
		BaseTurnMax:            parameter.KojiBaseTurnMax,
		TurnSpeed:              parameter.KojiTurnSpeed,
		TurnSpeedJoystick:      parameter.KojiTurnSpeedJoystick,
		TimeToIdle:             parameter.KojiTimeToIdle,
		VelocityToBeginChange:  parameter.KojiVelocityToBeginChange,
		TurnMaxLimit:           parameter.KojiTurnMaxLimit,
		BaseMaxTurnChangeSpeed: parameter.KojiBaseMaxTurnChangeSpeed,
		BaseMaxTurnChangeAccel: parameter.KojiBaseMaxTurnChangeAccel,
		PushForce:              parameter.KojiPushForce,
		PushSpeedPer:           parameter.KojiPushSpeedPer,
		BrakeForce:             parameter.KojiBrakeForce,
		BackForce:              parameter.KojiBackForce,
		FullBrakeForce:         parameter.KojiFullBrakeForce,
		DriftRatio:             parameter.KojiDriftRatio,
		DriftMult:              parameter.KojiDriftMult,
		DriftBoost:             parameter.KojiDriftBoost,
		DriftMinSpeed:          parameter.KojiDriftMinSpeed,
		DriftTurnMax:           parameter.KojiDriftTurnMax,
		AcroTime:               parameter.KojiAcroTime,
	}
}
