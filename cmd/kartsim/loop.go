package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/input"
	"github.com/lixenwraith/kartcore/status"
	"github.com/lixenwraith/kartcore/storage"
)

// steppedTerminal releases timed-out keys once per simulation step
type steppedTerminal struct {
	*input.TerminalSource
}

func (s steppedTerminal) Tick() { s.TerminalSource.Tick(time.Now()) }

const scriptPeriod = 300

// driveScript holds throttle and drifts right through one corner per period,
// clicking the drift turbo key while drifting
func driveScript(tr *input.Tracker, step int) {
	s := step % scriptPeriod
	turning := s >= 120 && s < 200
	tr.SetKey(input.KeyW, true)
	tr.SetKey(input.KeyD, turning)
	tr.SetKey(input.KeyDrift, turning)
	tr.SetKey(input.KeyDriftTurbo, turning && s%20 == 10)
}

func runHeadless(ctx context.Context, game *engine.Game, tr *input.Tracker, reg *status.Registry, store *storage.Store, ticks int, log zerolog.Logger) error {
	for i := 0; i < ticks; i++ {
		driveScript(tr, i)
		game.StepOnce()
		if i%scriptPeriod == scriptPeriod-1 {
			logSnapshot(log, reg)
		}
	}
	logSnapshot(log, reg)

	best, err := store.BestLaps(ctx, 5)
	if err != nil {
		return fmt.Errorf("best laps: %w", err)
	}
	for _, lap := range best {
		fmt.Printf("%-12s lap %d  %.3fs\n", lap.Car, lap.Lap, lap.LapTime)
	}
	for _, line := range hudLines(game, reg) {
		fmt.Println(line)
	}
	return nil
}

// pumpEvents forwards polled events until poll returns nil or done closes
func pumpEvents(poll func() tcell.Event, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func runTerminal(game *engine.Game, term *input.TerminalSource, reg *status.Registry, tickRate int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(screen.PollEvent, events, done)

	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if ev.Key() == tcell.KeyRune && (ev.Rune() == 'p' || ev.Rune() == 'P') {
					game.Clock.TogglePause()
					continue
				}
				term.HandleEvent(ev, time.Now())
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			game.Tick(now.Sub(last))
			last = now
			drawHUD(screen, hudLines(game, reg))
		}
	}
}
