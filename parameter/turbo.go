package parameter

// Turbo presets: accel boost, speed boost (percent of base stat), duration in seconds
const (
	MiniTurboAccelBoost = 300.0
	MiniTurboSpeedBoost = 25.0
	MiniTurboTime       = 1.0

	Drift2TurboAccelBoost = 300.0
	Drift2TurboSpeedBoost = 35.0
	Drift2TurboTime       = 1.0

	Drift3TurboAccelBoost = 300.0
	Drift3TurboSpeedBoost = 45.0
	Drift3TurboTime       = 2.0

	PadTurboAccelBoost = 300.0
	PadTurboSpeedBoost = 200.0
	PadTurboTime       = 1.5

	RocketTurboAccelBoost = 0.0
	RocketTurboSpeedBoost = 50.0
	RocketTurboTime       = 5.0

	// TurboDeceleration is the residual speed boost decay rate, km/h per second
	TurboDeceleration = 10.0

	// TurboFakeAccel is the ramp used by progressive direct turbos, km/h per second
	TurboFakeAccel = 300.0
)
