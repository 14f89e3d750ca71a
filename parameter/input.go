package parameter

import "time"

// Analog input thresholds
const (
	JoystickDeadZone = 0.2
	TriggerDeadZone  = 0.2
)

// Player slots
const (
	MaxPlayers = 4
)

// TerminalKeyRelease is how long a terminal key counts as held after its last repeat
// Terminals report no key-up, so holds are synthesized from autorepeat
const TerminalKeyRelease = 120 * time.Millisecond
