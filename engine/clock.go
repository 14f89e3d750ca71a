package engine

import (
	"time"

	"github.com/lixenwraith/kartcore/parameter"
)

// ClockState is the editor-style run state of the simulation
type ClockState uint8

const (
	ClockStopped ClockState = iota
	ClockPlaying
	ClockPaused
)

func (s ClockState) String() string {
	switch s {
	case ClockPlaying:
		return "playing"
	case ClockPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Clock turns wall-clock frame time into whole fixed steps
// Paused and stopped clocks produce no steps; leftover time carries to the next frame
type Clock struct {
	state       ClockState
	step        float64
	maxSteps    int
	accumulator float64
	elapsed     float64
	frame       int64
}

// NewClock creates a stopped clock; step <= 0 selects the default fixed step
func NewClock(step float64) *Clock {
	if step <= 0 {
		step = parameter.FixedTimeStep
	}
	return &Clock{step: step, maxSteps: parameter.MaxSubSteps}
}

// Play starts or resumes; it reports true only when leaving the stopped state
func (c *Clock) Play() bool {
	started := c.state == ClockStopped
	if started {
		c.accumulator = 0
		c.elapsed = 0
		c.frame = 0
	}
	c.state = ClockPlaying
	return started
}

// Pause freezes simulation time
func (c *Clock) Pause() {
	if c.state == ClockPlaying {
		c.state = ClockPaused
	}
}

// TogglePause flips between playing and paused
func (c *Clock) TogglePause() {
	switch c.state {
	case ClockPlaying:
		c.state = ClockPaused
	case ClockPaused:
		c.state = ClockPlaying
	}
}

// Stop ends the run; it reports true when the clock was running or paused
func (c *Clock) Stop() bool {
	if c.state == ClockStopped {
		return false
	}
	c.state = ClockStopped
	c.accumulator = 0
	return true
}

// Advance adds frame time and returns how many fixed steps to run
// A frame needing more than the step cap drops the excess
func (c *Clock) Advance(frame time.Duration) int {
	if c.state != ClockPlaying {
		return 0
	}
	c.accumulator += frame.Seconds()
	n := 0
	for c.accumulator >= c.step-1e-9 && n < c.maxSteps {
		c.accumulator -= c.step
		n++
	}
	if n == c.maxSteps {
		c.accumulator = 0
	}
	c.elapsed += float64(n) * c.step
	c.frame += int64(n)
	return n
}

// ForceStep counts one step without touching the accumulator; false unless playing
func (c *Clock) ForceStep() bool {
	if c.state != ClockPlaying {
		return false
	}
	c.elapsed += c.step
	c.frame++
	return true
}

// State returns the run state
func (c *Clock) State() ClockState { return c.state }

// Step returns the fixed step in seconds
func (c *Clock) Step() float64 { return c.step }

// Elapsed returns simulated seconds since Play
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Frame returns fixed steps run since Play
func (c *Clock) Frame() int64 { return c.frame }
