// Package render turns a display view into colours for the 32 LEDs of the
// clock face.
package render

import (
	"math/bits"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

const LEDCount = 32

// Physical LED layout. Each digit occupies seven consecutive LEDs in
// segment order a..g.
var digitStart = [4]int{0, 7, 16, 23}

// DigitLED is the LED of segment (0 for a through 6 for g) of digit d.
func DigitLED(d, segment int) int {
	return digitStart[d] + segment
}

const (
	ColonUpperLED = 14
	ColonLowerLED = 15
	PMLED         = 30
	AlarmLED      = 31
)

var digitGroup = [4]int{0, 1, 3, 4}

const (
	colonGroup     = 2
	indicatorGroup = 5
)

// Frame is the colour of every LED, indexed by LED number.
type Frame [LEDCount]model.Colour

// Scene is what the face shows, independent of colour.
type Scene struct {
	Digits   [4]Glyph
	Colon    bool
	PM       bool
	AlarmSet bool
}

// View is a scene plus everything that decides its colours.
type View struct {
	Scene
	Pattern model.DisplayPattern
	Colour  model.Colour
	Focus   Focus
	Step    int
}

type Renderer struct {
	brightness int
	last       Frame
}

func NewRenderer() *Renderer {
	return &Renderer{brightness: model.MaxBrightness}
}

func (r *Renderer) SetBrightness(b int) {
	if b < model.MinBrightness {
		b = model.MinBrightness
	}
	if b > model.MaxBrightness {
		b = model.MaxBrightness
	}
	r.brightness = b
}

func (r *Renderer) Brightness() int {
	return r.brightness
}

// Last returns the most recently rendered frame.
func (r *Renderer) Last() Frame {
	return r.last
}

// Render draws v. When ok is false there is nothing new to draw and the
// previous frame is returned unchanged.
func (r *Renderer) Render(v View, ok bool) Frame {
	if !ok {
		return r.last
	}

	var f Frame
	if v.Pattern == model.RainbowSegments {
		idx := SegmentIndices(v.Scene)
		for led, i := range idx {
			if i >= 0 {
				r.set(&f, led, segmentColour(i, v.Step))
			}
		}
	} else {
		r.drawGroups(&f, v)
	}

	r.last = f
	return f
}

func (r *Renderer) drawGroups(f *Frame, v View) {
	for d, g := range v.Digits {
		c := groupColour(digitGroup[d], v)
		lit := g.bits()
		for s := 0; s < segmentsPerDigit; s++ {
			if lit&(1<<s) != 0 {
				r.set(f, digitStart[d]+s, c)
			}
		}
	}
	if v.Colon {
		c := groupColour(colonGroup, v)
		r.set(f, ColonUpperLED, c)
		r.set(f, ColonLowerLED, c)
	}
	if v.PM || v.AlarmSet {
		c := groupColour(indicatorGroup, v)
		if v.PM {
			r.set(f, PMLED, c)
		}
		if v.AlarmSet {
			r.set(f, AlarmLED, c)
		}
	}
}

func (r *Renderer) set(f *Frame, led int, c HSL) {
	c.L = c.L * float64(r.brightness) / model.MaxBrightness
	f[led] = c.Colour()
}

// SegmentIndices numbers every lit LED of s in left-to-right order: digits by
// their stroke order, then colon, PM and alarm LEDs. Unlit LEDs get -1.
func SegmentIndices(s Scene) [LEDCount]int {
	var idx [LEDCount]int
	for i := range idx {
		idx[i] = -1
	}

	next := 0
	number := func(led int) {
		idx[led] = next
		next++
	}

	for d, g := range s.Digits[:2] {
		next = numberDigit(&idx, digitStart[d], g, next)
	}
	if s.Colon {
		number(ColonUpperLED)
		number(ColonLowerLED)
	}
	for d, g := range s.Digits[2:] {
		next = numberDigit(&idx, digitStart[d+2], g, next)
	}
	if s.PM {
		number(PMLED)
	}
	if s.AlarmSet {
		number(AlarmLED)
	}
	return idx
}

func numberDigit(idx *[LEDCount]int, start int, g Glyph, base int) int {
	lit := g.bits()
	for s := 0; s < segmentsPerDigit; s++ {
		if lit&(1<<s) != 0 {
			idx[start+s] = base + int(g.order(s))
		}
	}
	return base + bits.OnesCount8(lit)
}
