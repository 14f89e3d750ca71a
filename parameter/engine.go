package parameter

import "math"

// Simulation timing
const (
	// FixedTimeStep is the internal physics step (60 Hz)
	FixedTimeStep = 1.0 / 60.0

	// MaxSubSteps caps catch-up steps per frame
	MaxSubSteps = 15

	// DefaultTickRate is the game loop rate used by drivers
	DefaultTickRate = 60
)

// Event queue sizing
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)

// Race rules
const (
	// CheckpointNone marks "no checkpoint passed yet" in the checkpoint counter
	CheckpointNone uint32 = math.MaxUint32 - 10

	// CheckpointNoneThreshold is the lowest value still read as CheckpointNone
	CheckpointNoneThreshold uint32 = math.MaxUint32 - 20

	// FinishLap is the lap number that ends the race
	FinishLap = 4

	// StartLap is the lap number at race start
	StartLap = 1
)

// System Execution Priorities (lower runs first)
const (
	PriorityCar       = 10
	PriorityPhysics   = 20
	PrioritySync      = 30
	PriorityRaceLog   = 40
	PriorityTelemetry = 50
	PriorityAudio     = 60
)
