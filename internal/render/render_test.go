package render

import (
	"math/bits"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

func TestSegmentOrderRowsArePermutations(t *testing.T) {
	for g := Glyph(0); g < glyphCount; g++ {
		t.Run(g.String(), func(t *testing.T) {
			lit := font[g]
			var orders []int
			for s := 0; s < segmentsPerDigit; s++ {
				on := lit&(1<<s) != 0
				o := segmentOrder[g][s]
				if on {
					require.NotEqual(t, uint8(unlit), o, "segment %d lit but unordered", s)
					orders = append(orders, int(o))
				} else {
					assert.Equal(t, uint8(unlit), o, "segment %d unlit but ordered", s)
				}
			}
			sort.Ints(orders)
			for i, o := range orders {
				assert.Equal(t, i, o)
			}
			assert.Len(t, orders, bits.OnesCount8(lit))
		})
	}
}

func TestSegmentIndicesCoverLitLEDsOnce(t *testing.T) {
	scenes := []Scene{
		{Digits: [4]Glyph{Glyph1, Glyph2, Glyph3, Glyph4}, Colon: true, PM: true, AlarmSet: true},
		{Digits: [4]Glyph{GlyphBlank, Glyph8, Glyph0, Glyph9}, Colon: true},
		{Digits: [4]Glyph{GlyphBlank, Glyph0, GlyphF, GlyphF}},
		{Digits: [4]Glyph{Glyph0, Glyphn, Glyphc, GlyphE}, AlarmSet: true},
	}

	for _, sc := range scenes {
		idx := SegmentIndices(sc)

		seen := map[int]bool{}
		lit := 0
		for _, i := range idx {
			if i < 0 {
				continue
			}
			assert.False(t, seen[i], "duplicate index %d", i)
			seen[i] = true
			lit++
		}
		for i := 0; i < lit; i++ {
			assert.True(t, seen[i], "missing index %d", i)
		}

		// Each physical group is numbered after everything to its left.
		groups := [][]int{
			rangeLEDs(0, 7), rangeLEDs(7, 14), rangeLEDs(14, 16),
			rangeLEDs(16, 23), rangeLEDs(23, 30), {30}, {31},
		}
		prevMax := -1
		for _, g := range groups {
			lo, hi := 1<<30, -1
			for _, led := range g {
				if idx[led] >= 0 {
					lo = min(lo, idx[led])
					hi = max(hi, idx[led])
				}
			}
			if hi < 0 {
				continue
			}
			assert.Greater(t, lo, prevMax)
			prevMax = hi
		}
	}
}

func rangeLEDs(from, to int) []int {
	var leds []int
	for i := from; i < to; i++ {
		leds = append(leds, i)
	}
	return leds
}

func TestRainbowSegmentsHueStrictlyDecreasesWithIndex(t *testing.T) {
	sc := Scene{Digits: [4]Glyph{Glyph1, Glyph2, Glyph3, Glyph4}, Colon: true, PM: true, AlarmSet: true}
	idx := SegmentIndices(sc)

	byIndex := map[int]float64{}
	for _, i := range idx {
		if i >= 0 {
			byIndex[i] = segmentColour(i, 0).H
		}
	}
	// At step 0 the hue is 1 - i/32 wrapped, so index 0 is hue 0 and the rest
	// fall from just under 1.
	assert.InDelta(t, 0, byIndex[0], 1e-9)
	for i := 2; i < len(byIndex); i++ {
		assert.Less(t, byIndex[i], byIndex[i-1])
	}
}

func TestSolidColourLightsOnlyFontSegments(t *testing.T) {
	r := NewRenderer()
	v := View{
		Scene:   Scene{Digits: [4]Glyph{GlyphBlank, Glyph1, Glyph0, Glyph0}, Colon: true},
		Pattern: model.SolidColour,
		Colour:  model.Red,
	}
	f := r.Render(v, true)

	for led := 0; led < 7; led++ {
		assert.Equal(t, model.Black, f[led], "blank digit led %d", led)
	}
	assert.Equal(t, model.Black, f[7])
	assert.Equal(t, model.Red, f[8])
	assert.Equal(t, model.Red, f[9])
	assert.Equal(t, model.Red, f[14])
	assert.Equal(t, model.Red, f[15])
	assert.Equal(t, model.Black, f[16+6], "g segment of 0")
	assert.Equal(t, model.Black, f[PMLED])
	assert.Equal(t, model.Black, f[AlarmLED])
}

func TestBrightnessScalesLightness(t *testing.T) {
	r := NewRenderer()
	r.SetBrightness(1)
	v := View{Scene: Scene{Digits: [4]Glyph{Glyph8, Glyph8, Glyph8, Glyph8}}, Pattern: model.SolidColour, Colour: model.White}
	f := r.Render(v, true)

	// White at 1/15 lightness is a dim grey.
	assert.Equal(t, f[0].R, f[0].G)
	assert.InDelta(t, 17, int(f[0].R), 1)

	r.SetBrightness(99)
	assert.Equal(t, model.MaxBrightness, r.Brightness())
	r.SetBrightness(0)
	assert.Equal(t, model.MinBrightness, r.Brightness())
}

func TestFlashingTurnsOffAfterOnSteps(t *testing.T) {
	r := NewRenderer()
	v := View{Scene: Scene{Digits: [4]Glyph{Glyph8, Glyph8, Glyph8, Glyph8}}, Pattern: model.Flashing, Colour: model.Blue}

	v.Step = 74
	assert.Equal(t, model.Blue, r.Render(v, true)[0])
	v.Step = 75
	assert.Equal(t, model.Black, r.Render(v, true)[0])
}

func TestPulsingTriangle(t *testing.T) {
	assert.InDelta(t, 0, triangle(0), 1e-9)
	assert.InDelta(t, 0.5, triangle(50), 1e-9)
	assert.InDelta(t, 1, triangle(100), 1e-9)
	assert.InDelta(t, 0.5, triangle(150), 1e-9)

	r := NewRenderer()
	v := View{Scene: Scene{Digits: [4]Glyph{Glyph8, Glyph8, Glyph8, Glyph8}}, Pattern: model.Pulsing, Colour: model.Green}
	v.Step = 0
	assert.Equal(t, model.Black, r.Render(v, true)[0])
	v.Step = 100
	assert.Equal(t, model.Green, r.Render(v, true)[0])
}

func TestBlendTakesShortestHue(t *testing.T) {
	a := HSL{H: 0.8, S: 1, L: 0.5}
	b := HSL{H: 0.0, S: 1, L: 0.5}
	mid := Blend(a, b, 0.5)
	assert.InDelta(t, 0.9, mid.H, 1e-9)

	back := Blend(b, a, 0.5)
	assert.InDelta(t, 0.9, back.H, 1e-9)
}

func TestRainbowDigitsGroupHues(t *testing.T) {
	v := View{Pattern: model.RainbowDigits}
	assert.InDelta(t, 0, groupColour(0, v).H, 1e-9)
	assert.InDelta(t, 5.0/6, groupColour(1, v).H, 1e-9)
	assert.InDelta(t, 1.0/6, groupColour(5, v).H, 1e-9)

	v.Step = 100
	assert.InDelta(t, 0.5, groupColour(0, v).H, 1e-9)
}

func TestMenuFocus(t *testing.T) {
	v := View{Pattern: model.Menu, Focus: FocusRadioFraction, Step: 0}
	assert.Equal(t, menuBright, groupColour(4, v))
	assert.Equal(t, menuDim, groupColour(0, v))

	v.Focus = FocusHours
	assert.Equal(t, menuBright, groupColour(1, v))
	assert.Equal(t, menuDim, groupColour(3, v))

	v.Focus = FocusGreen
	assert.Equal(t, model.Green, groupColour(0, v).Colour())
}

func TestInvalidViewHoldsLastFrame(t *testing.T) {
	r := NewRenderer()
	v := View{Scene: Scene{Digits: [4]Glyph{Glyph1, Glyph2, Glyph3, Glyph4}, Colon: true}, Pattern: model.SolidColour, Colour: model.White}
	first := r.Render(v, true)

	held := r.Render(View{}, false)
	assert.Equal(t, first, held)
	assert.Equal(t, first, r.Last())
}

func TestPeriodAndAdvance(t *testing.T) {
	assert.Equal(t, 0, Advance(model.SolidColour, 0))
	assert.Equal(t, 0, Advance(model.Flashing, 99))
	assert.Equal(t, 1, Advance(model.Menu, 0))
	assert.Equal(t, 0, Advance(model.RainbowSegments, 499))
	assert.Equal(t, 200, Period(model.RainbowDigits))
}

func TestScaleBrightness(t *testing.T) {
	tests := []struct {
		sample, configured, want int
	}{
		{4095, 15, 15},
		{0, 15, 1},
		{2048, 15, 8},
		{4095, 5, 5},
		{100, 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScaleBrightness(tt.sample, tt.configured))
	}
}

func TestHexGlyphs(t *testing.T) {
	assert.Equal(t, Glyph9, Hex(9))
	assert.Equal(t, GlyphA, Hex(10))
	assert.Equal(t, GlyphF, Hex(15))
	assert.Equal(t, "b", Hex(11).String())
}

func TestDigitLED(t *testing.T) {
	assert.Equal(t, 0, DigitLED(0, 0))
	assert.Equal(t, 13, DigitLED(1, 6))
	assert.Equal(t, 16, DigitLED(2, 0))
	assert.Equal(t, 29, DigitLED(3, 6))
}
