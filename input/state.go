package input

// KeyState is the per-tick edge state of a key or button
type KeyState uint8

const (
	KeyIdle   KeyState = iota // Not held
	KeyDown                   // Pressed this tick
	KeyRepeat                 // Held since an earlier tick
	KeyUp                     // Released this tick
)

func (s KeyState) String() string {
	switch s {
	case KeyDown:
		return "down"
	case KeyRepeat:
		return "repeat"
	case KeyUp:
		return "up"
	default:
		return "idle"
	}
}

// Held reports Down or Repeat
func (s KeyState) Held() bool { return s == KeyDown || s == KeyRepeat }

// Key is a keyboard key the kart controls read
type Key uint8

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeySpace
	KeyE
	KeyJ
	KeyK
	KeyL
	KeyQ
	KeyR
	KeyX
	KeyP
	KeyEscape
	keyCount
)

// Player is a joystick slot, 0-3
type Player uint8

const (
	Player1 Player = iota
	Player2
	Player3
	Player4
)

// Axis is an analog joystick axis in [-1, 1]
type Axis uint8

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisLeftTrigger
	AxisRightTrigger
	axisCount
)

// Button is a digital joystick button
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonDpadLeft
	ButtonDpadRight
	buttonCount
)

// Source is everything a controller reads from input devices for one tick
type Source interface {
	Key(k Key) KeyState
	NumJoysticks() int
	Axis(p Player, a Axis) float64
	Button(p Player, b Button) KeyState
}
