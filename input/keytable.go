package input

// DriveKeys are the front player's driving keys
type DriveKeys struct {
	Accelerate Key
	Left       Key
	Right      Key
	Brake      Key
}

// FrontKeys returns WASD for player 1 and the arrow keys for anyone else
func FrontKeys(p Player) DriveKeys {
	if p == Player1 {
		return DriveKeys{Accelerate: KeyW, Left: KeyA, Right: KeyD, Brake: KeyS}
	}
	return DriveKeys{Accelerate: KeyArrowUp, Left: KeyArrowLeft, Right: KeyArrowRight, Brake: KeyArrowDown}
}

// Back player and shared bindings
const (
	KeyDriftTurbo = KeyK     // Drift turbo click, or push when not drifting
	KeyLean       = KeyJ     // Lean while held
	KeyHit        = KeyL     // Debug hit reaction
	KeyItem       = KeyQ     // Use item while held, release on up
	KeyFullBrake  = KeyX     // Hard brake when moving forward
	KeyReset      = KeyR     // Teleport to last checkpoint
	KeyBackAcro   = KeyE     // Back player acrobatics
	KeyDrift      = KeySpace // Drift on ground, front acrobatics in the air
)
