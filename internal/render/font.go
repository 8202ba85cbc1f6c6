package render

import "fmt"

// Glyph is a character the 7-segment font can draw.
type Glyph uint8

const (
	Glyph0 Glyph = iota
	Glyph1
	Glyph2
	Glyph3
	Glyph4
	Glyph5
	Glyph6
	Glyph7
	Glyph8
	Glyph9
	GlyphA
	Glyphb
	Glyphc
	Glyphd
	GlyphE
	GlyphF
	GlyphG
	GlyphH
	Glyphi
	GlyphL
	Glyphn
	Glyphr
	GlyphDash
	GlyphBlank

	glyphCount
)

const segmentsPerDigit = 7

// Segment bits: a..g are bits 0..6.
const (
	segA = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
)

var font = [glyphCount]uint8{
	Glyph0:     segA | segB | segC | segD | segE | segF,
	Glyph1:     segB | segC,
	Glyph2:     segA | segB | segD | segE | segG,
	Glyph3:     segA | segB | segC | segD | segG,
	Glyph4:     segB | segC | segF | segG,
	Glyph5:     segA | segC | segD | segF | segG,
	Glyph6:     segA | segC | segD | segE | segF | segG,
	Glyph7:     segA | segB | segC,
	Glyph8:     segA | segB | segC | segD | segE | segF | segG,
	Glyph9:     segA | segB | segC | segD | segF | segG,
	GlyphA:     segA | segB | segC | segE | segF | segG,
	Glyphb:     segC | segD | segE | segF | segG,
	Glyphc:     segD | segE | segG,
	Glyphd:     segB | segC | segD | segE | segG,
	GlyphE:     segA | segD | segE | segF | segG,
	GlyphF:     segA | segE | segF | segG,
	GlyphG:     segA | segC | segD | segE | segF,
	GlyphH:     segB | segC | segE | segF | segG,
	Glyphi:     segC,
	GlyphL:     segD | segE | segF,
	Glyphn:     segC | segE | segG,
	Glyphr:     segE | segG,
	GlyphDash:  segG,
	GlyphBlank: 0,
}

// unlit marks a segment with no place in the lighting order.
const unlit = 9

// segmentOrder gives, per glyph and segment a..g, the position of that segment
// in the glyph's stroke order. Each row is a permutation of 0..n-1 over its
// lit segments.
var segmentOrder = [glyphCount][segmentsPerDigit]uint8{
	Glyph0:     {0, 1, 2, 3, 4, 5, unlit},
	Glyph1:     {unlit, 0, 1, unlit, unlit, unlit, unlit},
	Glyph2:     {0, 1, unlit, 4, 3, unlit, 2},
	Glyph3:     {0, 1, 3, 4, unlit, unlit, 2},
	Glyph4:     {unlit, 2, 3, unlit, unlit, 0, 1},
	Glyph5:     {0, unlit, 3, 4, unlit, 1, 2},
	Glyph6:     {0, unlit, 3, 4, 5, 1, 2},
	Glyph7:     {0, 1, 2, unlit, unlit, unlit, unlit},
	Glyph8:     {0, 1, 2, 3, 4, 5, 6},
	Glyph9:     {2, 3, 4, 5, unlit, 1, 0},
	GlyphA:     {2, 3, 4, unlit, 0, 1, 5},
	Glyphb:     {unlit, unlit, 2, 3, 4, 0, 1},
	Glyphc:     {unlit, unlit, unlit, 0, 1, unlit, 2},
	Glyphd:     {unlit, 0, 1, 2, 3, unlit, 4},
	GlyphE:     {0, unlit, unlit, 4, 3, 1, 2},
	GlyphF:     {0, unlit, unlit, unlit, 3, 1, 2},
	GlyphG:     {0, unlit, 4, 3, 2, 1, unlit},
	GlyphH:     {unlit, 3, 4, unlit, 1, 0, 2},
	Glyphi:     {unlit, unlit, 0, unlit, unlit, unlit, unlit},
	GlyphL:     {unlit, unlit, unlit, 2, 1, 0, unlit},
	Glyphn:     {unlit, unlit, 2, unlit, 0, unlit, 1},
	Glyphr:     {unlit, unlit, unlit, unlit, 0, unlit, 1},
	GlyphDash:  {unlit, unlit, unlit, unlit, unlit, unlit, 0},
	GlyphBlank: {unlit, unlit, unlit, unlit, unlit, unlit, unlit},
}

// Digit returns the glyph for n%10.
func Digit(n int) Glyph {
	if n < 0 {
		n = -n
	}
	return Glyph(n % 10)
}

// Hex returns the glyph for a value 0..15, using the font's lower-case letters
// where the font has no capital.
func Hex(n int) Glyph {
	switch n & 0x0F {
	case 10:
		return GlyphA
	case 11:
		return Glyphb
	case 12:
		return Glyphc
	case 13:
		return Glyphd
	case 14:
		return GlyphE
	case 15:
		return GlyphF
	default:
		return Digit(n & 0x0F)
	}
}

func (g Glyph) bits() uint8 {
	if g >= glyphCount {
		return 0
	}
	return font[g]
}

func (g Glyph) order(segment int) uint8 {
	if g >= glyphCount {
		return unlit
	}
	return segmentOrder[g][segment]
}

func (g Glyph) String() string {
	const chars = "0123456789AbcdEFGHiLnr- "
	if g >= glyphCount {
		return fmt.Sprintf("glyph(%d)", uint8(g))
	}
	return chars[g : g+1]
}
