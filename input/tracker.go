package input

import "github.com/lixenwraith/kartcore/parameter"

// Tracker turns raw held flags into per-tick edge states
// Set* record the physical state; Tick publishes edges for the next reads
type Tracker struct {
	heldKeys [keyCount]bool
	prevKeys [keyCount]bool
	keys     [keyCount]KeyState

	pads int
	axes [parameter.MaxPlayers][axisCount]float64

	heldButtons [parameter.MaxPlayers][buttonCount]bool
	prevButtons [parameter.MaxPlayers][buttonCount]bool
	buttons     [parameter.MaxPlayers][buttonCount]KeyState
}

// NewTracker creates a tracker with no joysticks connected
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetKey records whether a key is physically held
func (t *Tracker) SetKey(k Key, held bool) {
	if k < keyCount {
		t.heldKeys[k] = held
	}
}

// SetJoysticks sets the connected pad count, clamped to MaxPlayers
func (t *Tracker) SetJoysticks(n int) {
	t.pads = max(0, min(n, parameter.MaxPlayers))
}

// SetAxis records an analog axis value
func (t *Tracker) SetAxis(p Player, a Axis, v float64) {
	if int(p) < parameter.MaxPlayers && a < axisCount {
		t.axes[p][a] = v
	}
}

// SetButton records whether a pad button is physically held
func (t *Tracker) SetButton(p Player, b Button, held bool) {
	if int(p) < parameter.MaxPlayers && b < buttonCount {
		t.heldButtons[p][b] = held
	}
}

// ReleaseAll clears every held key and button
func (t *Tracker) ReleaseAll() {
	t.heldKeys = [keyCount]bool{}
	t.heldButtons = [parameter.MaxPlayers][buttonCount]bool{}
}

// Tick publishes edge states from the held flags
func (t *Tracker) Tick() {
	for i := range t.heldKeys {
		t.keys[i] = edge(t.prevKeys[i], t.heldKeys[i])
		t.prevKeys[i] = t.heldKeys[i]
	}
	for p := range t.heldButtons {
		for b := range t.heldButtons[p] {
			t.buttons[p][b] = edge(t.prevButtons[p][b], t.heldButtons[p][b])
			t.prevButtons[p][b] = t.heldButtons[p][b]
		}
	}
}

func edge(was, is bool) KeyState {
	switch {
	case is && !was:
		return KeyDown
	case is && was:
		return KeyRepeat
	case was:
		return KeyUp
	default:
		return KeyIdle
	}
}

func (t *Tracker) Key(k Key) KeyState {
	if k >= keyCount {
		return KeyIdle
	}
	return t.keys[k]
}

func (t *Tracker) NumJoysticks() int { return t.pads }

func (t *Tracker) Axis(p Player, a Axis) float64 {
	if int(p) >= t.pads || a >= axisCount {
		return 0
	}
	return t.axes[p][a]
}

func (t *Tracker) Button(p Player, b Button) KeyState {
	if int(p) >= t.pads || b >= buttonCount {
		return KeyIdle
	}
	return t.buttons[p][b]
}
