package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/ledclock/internal/model"
	"github.com/thatsimonsguy/ledclock/internal/render"
)

func TestDrawFaceLayout(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var f render.Frame
	f[render.DigitLED(0, segA)] = model.White

	rows := strings.Split(drawFace(f), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, " _   _     _   _   PM", rows[0])
	assert.Equal(t, "|_| |_| o |_| |_| ", rows[1])
	assert.Equal(t, "|_| |_| o |_| |_|  AL", rows[2])
}

func TestDigitRowsFollowSegments(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var f render.Frame
	dr := digitRows(f, 2)
	assert.Equal(t, [3]string{" _ ", "|_|", "|_|"}, dr)
}
