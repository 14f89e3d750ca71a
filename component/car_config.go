package component

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/kartcore/parameter"
)

// TurnChangeMode selects the speed-to-turn-max curve
type TurnChangeMode uint8

const (
	TurnChangeBySpeed TurnChangeMode = iota
	TurnChangeByInterpolation
)

func (m TurnChangeMode) String() string {
	if m == TurnChangeByInterpolation {
		return "interpolation"
	}
	return "speed"
}

func (m TurnChangeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *TurnChangeMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "speed":
		*m = TurnChangeBySpeed
	case "interpolation":
		*m = TurnChangeByInterpolation
	default:
		return fmt.Errorf("unknown turn change mode %q", string(b))
	}
	return nil
}

// TurnChangeConfig parameterizes the turn-max curve shared by both karts
type TurnChangeConfig struct {
	Mode            TurnChangeMode `toml:"mode"`
	Accelerated     bool           `toml:"accelerated_change"`
	LimitToATurnMax bool           `toml:"limit_to_a_turn_max"`
}

// TuningSet holds one preset per kart type
type TuningSet struct {
	Wood VehicleTuning `toml:"wood"`
	Koji VehicleTuning `toml:"koji"`
}

// For returns the preset for a kart type, wood for unknown values
func (s *TuningSet) For(k KartType) VehicleTuning {
	if k == KartKoji {
		return s.Koji
	}
	return s.Wood
}

// ChassisConfig describes the collision box
type ChassisConfig struct {
	Size   [3]float64 `toml:"size"`
	Offset [3]float64 `toml:"offset"`
	Mass   float64    `toml:"mass"`
}

// SuspensionConfig is passed through to the raycast vehicle
type SuspensionConfig struct {
	Stiffness    float64 `toml:"stiffness"`
	Compression  float64 `toml:"compression"`
	Damping      float64 `toml:"damping"`
	RestLength   float64 `toml:"rest_length"`
	MaxTravelCm  float64 `toml:"max_travel_cm"`
	FrictionSlip float64 `toml:"friction_slip"`
	MaxForce     float64 `toml:"max_force"`
}

// WheelConfig lays out the four wheels and names their visual entities
// Link IDs are raw UUIDs resolved after the whole scene is loaded
type WheelConfig struct {
	ConnectionHeight float64 `toml:"connection_height"`
	Radius           float64 `toml:"radius"`
	Width            float64 `toml:"width"`

	FrontLeft  string `toml:"front_left,omitempty"`
	FrontRight string `toml:"front_right,omitempty"`
	BackLeft   string `toml:"back_left,omitempty"`
	BackRight  string `toml:"back_right,omitempty"`
}

// LinkIDs returns wheel visual IDs in wheel index order
func (w WheelConfig) LinkIDs() [parameter.WheelCount]string {
	return [parameter.WheelCount]string{w.FrontLeft, w.FrontRight, w.BackLeft, w.BackRight}
}

// ItemConfig bounds hitodama collection
type ItemConfig struct {
	MaxHitodamas   int     `toml:"max_hitodamas"`
	BonusHitodamas float64 `toml:"bonus_hitodamas"`
}

// PlayerConfig assigns controller slots
type PlayerConfig struct {
	Front    int  `toml:"front"`
	Back     int  `toml:"back"`
	Inverted bool `toml:"inverted_controls"`
}

// CarConfig is the persisted per-car record
type CarConfig struct {
	Kart   KartType `toml:"kart_type"`
	Active bool     `toml:"active"`

	LoseHeight         float64          `toml:"lose_height"`
	TurnOverResetTime  float64          `toml:"turn_over_reset_time"`
	ClicksToDriftTurbo int              `toml:"clicks_to_drift_turbo"`
	TurnChange         TurnChangeConfig `toml:"turn_change"`

	Tunings    TuningSet        `toml:"kart"`
	Turbos     TurboSet         `toml:"turbo"`
	Chassis    ChassisConfig    `toml:"chassis"`
	Suspension SuspensionConfig `toml:"suspension"`
	Wheels     WheelConfig      `toml:"wheels"`
	Items      ItemConfig       `toml:"items"`
	Players    PlayerConfig     `toml:"players"`
}

// DefaultCarConfig returns a complete record with stock values
func DefaultCarConfig() CarConfig {
	return CarConfig{
		Kart:               KartKoji,
		Active:             true,
		LoseHeight:         parameter.DefaultLoseHeight,
		TurnOverResetTime:  parameter.DefaultTurnOverResetTime,
		ClicksToDriftTurbo: parameter.DefaultClicksToDriftTurbo,
		Tunings:            TuningSet{Wood: WoodTuning(), Koji: KojiTuning()},
		Turbos:             DefaultTurbos(),
		Chassis: ChassisConfig{
			Size: [3]float64{parameter.ChassisSizeX, parameter.ChassisSizeY, parameter.ChassisSizeZ},
			Mass: parameter.VehicleMass,
		},
		Suspension: SuspensionConfig{
			Stiffness:    parameter.SuspensionStiffness,
			Compression:  parameter.SuspensionCompression,
			Damping:      parameter.SuspensionDamping,
			RestLength:   parameter.SuspensionRestLength,
			MaxTravelCm:  parameter.MaxSuspensionTravelCm,
			FrictionSlip: parameter.FrictionSlip,
			MaxForce:     parameter.MaxSuspensionForce,
		},
		Wheels: WheelConfig{
			ConnectionHeight: parameter.WheelConnectionHeight,
			Radius:           parameter.WheelRadius,
			Width:            parameter.WheelWidth,
		},
		Items: ItemConfig{
			MaxHitodamas:   parameter.DefaultMaxHitodamas,
			BonusHitodamas: parameter.DefaultBonusHitodamas,
		},
		Players: PlayerConfig{Front: 0, Back: 1},
	}
}

// Normalize applies load-time fixups; it never rejects values
func (c *CarConfig) Normalize() {
	if c.TurnOverResetTime < parameter.MinTurnOverResetTime {
		c.TurnOverResetTime = parameter.DefaultTurnOverResetTime
	}
}

// LoadCarConfig decodes a record over the defaults, so missing keys keep stock values
func LoadCarConfig(r io.Reader) (CarConfig, error) {
	cfg := DefaultCarConfig()
	if err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return CarConfig{}, fmt.Errorf("decode car config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// SaveCarConfig encodes the full record
func SaveCarConfig(w io.Writer, cfg CarConfig) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode car config: %w", err)
	}
	return nil
}
