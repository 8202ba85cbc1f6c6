package render

import "github.com/thatsimonsguy/ledclock/internal/model"

const (
	digitGroupMultiplier = 1.0 / 6
	segmentMultiplier    = 1.0 / LEDCount
	digitColourStep      = 0.005
	segmentColourStep    = 0.002

	flashOnSteps = 75
	pulseSteps   = 100
)

// Focus selects which groups the Menu pattern highlights.
type Focus int

const (
	FocusNone Focus = iota
	FocusHours
	FocusMinutes
	FocusRadioWhole
	FocusRadioFraction
	FocusRed
	FocusGreen
	FocusBlue
)

// Period is the number of animation steps before a pattern repeats. Zero means
// the pattern is static.
func Period(p model.DisplayPattern) int {
	switch p {
	case model.Flashing:
		return 100
	case model.Pulsing, model.Menu, model.RainbowDigits:
		return 2 * pulseSteps
	case model.RainbowSegments:
		return 500
	default:
		return 0
	}
}

// Advance returns the animation step that follows step for pattern p.
func Advance(p model.DisplayPattern, step int) int {
	period := Period(p)
	if period == 0 {
		return step
	}
	return (step + 1) % period
}

func triangle(step int) float64 {
	frac := float64(step) / pulseSteps
	if frac > 1 {
		frac = 2 - frac
	}
	return frac
}

// groupColour computes the colour of a digit group (0,1,3,4 left to right),
// the colon (2) or the indicators (5).
func groupColour(group int, v View) HSL {
	switch v.Pattern {
	case model.RainbowDigits:
		return HSL{
			H: wrapHue(rainbowRed.H + (1 - float64(group)*digitGroupMultiplier) + float64(v.Step)*digitColourStep),
			S: rainbowRed.S,
			L: rainbowRed.L,
		}
	case model.Flashing:
		if v.Step < flashOnSteps {
			return FromColour(v.Colour)
		}
		return black
	case model.Pulsing:
		return Blend(black, FromColour(v.Colour), triangle(v.Step))
	case model.Menu:
		if focused(v.Focus, group) {
			return menuBright
		}
		if group == 0 {
			switch v.Focus {
			case FocusRed:
				return FromColour(model.Red)
			case FocusGreen:
				return FromColour(model.Green)
			case FocusBlue:
				return FromColour(model.Blue)
			}
		}
		return Blend(menuDim, menuBright, triangle(v.Step))
	default:
		return FromColour(v.Colour)
	}
}

func focused(f Focus, group int) bool {
	switch f {
	case FocusHours:
		return group <= 1
	case FocusMinutes:
		return group == 3 || group == 4
	case FocusRadioWhole:
		return group < 4
	case FocusRadioFraction:
		return group == 4
	default:
		return false
	}
}

// segmentColour computes the colour of the index-th lit LED in left-to-right
// stroke order.
func segmentColour(index int, step int) HSL {
	return HSL{
		H: wrapHue(rainbowRed.H + (1 - float64(index)*segmentMultiplier) + float64(step)*segmentColourStep),
		S: rainbowRed.S,
		L: rainbowRed.L,
	}
}
