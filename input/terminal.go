package input

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/kartcore/parameter"
)

// TerminalSource feeds tcell key events into a Tracker
// Terminals send presses and auto-repeats but no releases; a key counts as held
// until no event for it arrives within the release timeout
type TerminalSource struct {
	*Tracker
	lastSeen [keyCount]time.Time
	timeout  time.Duration
}

// NewTerminalSource creates a source with the default release timeout
func NewTerminalSource() *TerminalSource {
	return &TerminalSource{Tracker: NewTracker(), timeout: parameter.TerminalKeyRelease}
}

// HandleEvent records a key event; returns false for events it does not map
func (s *TerminalSource) HandleEvent(ev *tcell.EventKey, now time.Time) bool {
	k, ok := MapTerminalKey(ev)
	if !ok {
		return false
	}
	s.lastSeen[k] = now
	s.SetKey(k, true)
	return true
}

// Tick releases timed-out keys and publishes edges
func (s *TerminalSource) Tick(now time.Time) {
	for k := Key(0); k < keyCount; k++ {
		if s.heldKeys[k] && now.Sub(s.lastSeen[k]) > s.timeout {
			s.SetKey(k, false)
		}
	}
	s.Tracker.Tick()
}

// MapTerminalKey converts a tcell key event to a Key
func MapTerminalKey(ev *tcell.EventKey) (Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyArrowUp, true
	case tcell.KeyDown:
		return KeyArrowDown, true
	case tcell.KeyLeft:
		return KeyArrowLeft, true
	case tcell.KeyRight:
		return KeyArrowRight, true
	case tcell.KeyEscape:
		return KeyEscape, true
	case tcell.KeyRune:
	default:
		return 0, false
	}

	switch ev.Rune() {
	case 'w', 'W':
		return KeyW, true
	case 'a', 'A':
		return KeyA, true
	case 's', 'S':
		return KeyS, true
	case 'd', 'D':
		return KeyD, true
	case ' ':
		return KeySpace, true
	case 'e', 'E':
		return KeyE, true
	case 'j', 'J':
		return KeyJ, true
	case 'k', 'K':
		return KeyK, true
	case 'l', 'L':
		return KeyL, true
	case 'q', 'Q':
		return KeyQ, true
	case 'r', 'R':
		return KeyR, true
	case 'x', 'X':
		return KeyX, true
	case 'p', 'P':
		return KeyP, true
	}
	return 0, false
}
