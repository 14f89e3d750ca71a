package parameter

// Kart type discriminator values
const (
	KartWood = 0
	KartKoji = 1
)

// Wood kart preset
const (
	WoodAccelForce              = 1000.0
	WoodMaxVelocity             = 80.0
	WoodMinVelocity             = -20.0
	WoodDecelBrake              = 15.0
	WoodBaseTurnMax             = 0.7
	WoodTurnSpeed               = 2.0
	WoodTurnSpeedJoystick       = 2.0
	WoodTimeToIdle              = 0.2
	WoodVelocityToBeginChange   = 10.0
	WoodTurnMaxLimit            = 0.2
	WoodBaseMaxTurnChangeSpeed  = -0.01
	WoodBaseMaxTurnChangeAccel  = 0.0
	WoodPushForce               = 1000.0
	WoodPushSpeedPer            = 30.0
	WoodBrakeForce              = 20.0
	WoodBackForce               = 500.0
	WoodFullBrakeForce          = 60.0
	WoodDriftRatio              = 0.7
	WoodDriftMult               = 1.0
	WoodDriftBoost              = 0.0
	WoodDriftMinSpeed           = 20.0
	WoodDriftTurnMax            = 0.5
	WoodAcroTime                = 0.5
)

// Koji kart preset: faster, heavier steering
const (
	KojiAccelForce             = 1200.0
	KojiMaxVelocity            = 90.0
	KojiMinVelocity            = -20.0
	KojiDecelBrake             = 12.0
	KojiBaseTurnMax            = 0.6
	KojiTurnSpeed              = 1.8
	KojiTurnSpeedJoystick      = 1.8
	KojiTimeToIdle             = 0.25
	KojiVelocityToBeginChange  = 15.0
	KojiTurnMaxLimit           = 0.25
	KojiBaseMaxTurnChangeSpeed = -0.008
	KojiBaseMaxTurnChangeAccel = 0.0
	KojiPushForce              = 1200.0
	KojiPushSpeedPer           = 25.0
	KojiBrakeForce             = 25.0
	KojiBackForce              = 600.0
	KojiFullBrakeForce         = 70.0
	KojiDriftRatio             = 0.65
	KojiDriftMult              = 1.05
	KojiDriftBoost             = 0.0
	KojiDriftMinSpeed          = 25.0
	KojiDriftTurnMax           = 0.45
	KojiAcroTime               = 0.5
)

// Controller defaults shared by both karts
const (
	// PushDuration is how long a push keeps adding push_force, seconds
	PushDuration = 0.5

	// TurboDirectSpeedOffset keeps a direct turbo just under the speed cap, km/h
	TurboDirectSpeedOffset = 0.5

	DefaultClicksToDriftTurbo = 3
	MaxDriftTurboLevel        = 3

	DefaultLoseHeight        = -10.0
	DefaultTurnOverResetTime = 4.0

	// MinTurnOverResetTime is the smallest persisted reset time accepted on load
	MinTurnOverResetTime = 0.2

	DefaultMaxHitodamas   = 5
	DefaultBonusHitodamas = 2
)
