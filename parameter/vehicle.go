package parameter

// Chassis and wheel layout defaults
const (
	ChassisSizeX = 1.0
	ChassisSizeY = 0.2
	ChassisSizeZ = 2.0

	WheelConnectionHeight = 0.1
	WheelRadius           = 0.3
	WheelWidth            = 0.2

	// WheelInsetFactor pulls the connection point in by a fraction of wheel width
	WheelInsetFactor = 0.1

	WheelCount = 4
)

// Rigid body and suspension defaults
const (
	VehicleMass           = 400.0
	SuspensionStiffness   = 100.0
	SuspensionCompression = 0.83
	SuspensionDamping     = 20.0
	SuspensionRestLength  = 0.3
	MaxSuspensionTravelCm = 1000.0
	FrictionSlip          = 50.5
	MaxSuspensionForce    = 6000.0
)

// World defaults
const (
	Gravity = -10.0

	// HeightfieldMin and HeightfieldMax bound terrain collider heights
	HeightfieldMin = -300.0
	HeightfieldMax = 300.0

	DefaultTerrainMaxHeight = 100.0

	// MinTerrainMaxHeight rejects degenerate terrain scaling
	MinTerrainMaxHeight = 0.1

	DefaultTerrainSmoothLevels = 1

	// LinearDamping and AngularDamping bleed energy from free bodies each step
	LinearDamping  = 0.01
	AngularDamping = 0.05

	// ConstraintIterations is the solver pass count per substep
	ConstraintIterations = 8

	// ContactCorrection is the share of penetration removed per substep
	ContactCorrection = 0.8

	// ChassisNoseScale sizes the nose box relative to the chassis
	ChassisNoseScale = 0.5
)

// Unit conversion
const (
	KmhToMs = 1.0 / 3.6
	MsToKmh = 3.6
)
