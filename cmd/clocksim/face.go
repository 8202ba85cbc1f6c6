package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thatsimonsguy/ledclock/internal/model"
	"github.com/thatsimonsguy/ledclock/internal/render"
)

// Segment indices a..g.
const (
	segA = iota
	segB
	segC
	segD
	segE
	segF
	segG
)

var unlitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#27272a"))

// cell draws one LED as ch in its colour, or dimmed when off.
func cell(f render.Frame, led int, ch string) string {
	c := f[led]
	if c == model.Black {
		return unlitStyle.Render(ch)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.String())).Render(ch)
}

// digitRows draws a digit three rows high:
//
//	 _
//	|_|
//	|_|
func digitRows(f render.Frame, d int) [3]string {
	led := func(s int) int { return render.DigitLED(d, s) }
	return [3]string{
		" " + cell(f, led(segA), "_") + " ",
		cell(f, led(segF), "|") + cell(f, led(segG), "_") + cell(f, led(segB), "|"),
		cell(f, led(segE), "|") + cell(f, led(segD), "_") + cell(f, led(segC), "|"),
	}
}

// drawFace lays out the four digits, the colon and the PM and alarm
// indicators.
func drawFace(f render.Frame) string {
	var rows [3]strings.Builder
	for d := 0; d < 4; d++ {
		dr := digitRows(f, d)
		for i := range rows {
			rows[i].WriteString(dr[i])
			rows[i].WriteString(" ")
		}
		if d == 1 {
			rows[0].WriteString("  ")
			rows[1].WriteString(cell(f, render.ColonUpperLED, "o") + " ")
			rows[2].WriteString(cell(f, render.ColonLowerLED, "o") + " ")
		}
	}
	rows[0].WriteString(" " + cell(f, render.PMLED, "PM"))
	rows[2].WriteString(" " + cell(f, render.AlarmLED, "AL"))

	return rows[0].String() + "\n" + rows[1].String() + "\n" + rows[2].String()
}
