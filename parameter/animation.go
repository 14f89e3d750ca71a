package parameter

// Driver rig clip indices
const (
	DriverClipTurn     = 0
	DriverClipMaxLeft  = 1
	DriverClipMaxRight = 2
	DriverClipHit      = 3
	DriverClipAcro     = 4
)

// Body rig clip indices
const (
	BodyClipDriftRight = 1
	BodyClipDriftLeft  = 2
	BodyClipIdle       = 3
	BodyClipPushStart  = 4
	BodyClipPushLoop   = 5
	BodyClipPushEnd    = 6
	BodyClipLeaning    = 7
	BodyClipHit        = 8
	BodyClipUseItem    = 9
	BodyClipAcro       = 10
)

// Blend and playback rates
const (
	AnimationBlend = 0.5

	// Body idle playback scales with speed: base + span * (v / top)
	BodyIdleTicksBase = 8.0
	BodyIdleTicksSpan = 24.0
)
