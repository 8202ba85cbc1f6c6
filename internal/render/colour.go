package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

// HSL holds hue as a fraction of a turn in [0,1).
type HSL struct {
	H, S, L float64
}

var (
	black      = HSL{}
	rainbowRed = HSL{H: 0, S: 1, L: 0.5}
	menuBright = FromColour(model.Colour{R: 255, G: 255, B: 255})
	menuDim    = FromColour(model.Colour{R: 64, G: 64, B: 64})
)

func FromColour(c model.Colour) HSL {
	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := col.Hsl()
	return HSL{H: wrapHue(h / 360), S: s, L: l}
}

func (c HSL) Colour() model.Colour {
	r, g, b := colorful.Hsl(c.H*360, c.S, c.L).Clamped().RGB255()
	return model.Colour{R: r, G: g, B: b}
}

// Blend interpolates linearly between a and b, moving hue the short way round.
func Blend(a, b HSL, frac float64) HSL {
	dh := b.H - a.H
	if dh > 0.5 {
		dh -= 1
	} else if dh < -0.5 {
		dh += 1
	}
	return HSL{
		H: wrapHue(a.H + dh*frac),
		S: a.S + (b.S-a.S)*frac,
		L: a.L + (b.L-a.L)*frac,
	}
}

func wrapHue(h float64) float64 {
	return h - math.Floor(h)
}

// ScaleBrightness combines an ambient-light sample (0..MaxLightSample) with
// the configured brightness into a display brightness, rounded up and never
// below MinBrightness.
func ScaleBrightness(sample, configured int) int {
	if sample < 0 {
		sample = 0
	}
	// ceil(sample/Max * configured/15 * 15) in integer arithmetic.
	b := (sample*configured + MaxLightSample - 1) / MaxLightSample
	if b < model.MinBrightness {
		b = model.MinBrightness
	}
	if b > model.MaxBrightness {
		b = model.MaxBrightness
	}
	return b
}

const MaxLightSample = 4095
