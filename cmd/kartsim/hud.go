package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/kartcore/engine"
	"github.com/lixenwraith/kartcore/status"
)

const hudHelp = "WASD drive  Space drift  K turbo  Q item  R reset  P pause  Esc quit"

// hudLines renders the clock header, every published metric, and the key help
func hudLines(game *engine.Game, reg *status.Registry) []string {
	lines := []string{
		fmt.Sprintf("kartsim  %-8s  %7.2fs  frame %d", game.Clock.State(), game.Clock.Elapsed(), game.Clock.Frame()),
		"",
	}
	for _, e := range reg.Snapshot() {
		lines = append(lines, fmt.Sprintf("%-20s %s", e.Key, e.Value))
	}
	return append(lines, "", hudHelp)
}

func drawHUD(screen tcell.Screen, lines []string) {
	screen.Clear()
	header := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	body := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	help := tcell.StyleDefault.Foreground(tcell.ColorGray)

	for y, line := range lines {
		style := body
		switch {
		case y == 0:
			style = header
		case y == len(lines)-1:
			style = help
		}
		x := 0
		for _, r := range line {
			screen.SetContent(x, y, r, nil, style)
			x++
		}
	}
	screen.Show()
}
