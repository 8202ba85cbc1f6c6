package input

import "sync/atomic"

// RotationSign converts raw encoder motion into menu direction. The encoder on
// this board is wired so that physical clockwise counts down.
const RotationSign = -1

// transitions is indexed by prev<<2 | curr, where each state is A<<1 | B.
// Entries for unchanged or double-bit (bounce) transitions are zero.
var transitions = [16]int8{
	0, -1, 1, 0,
	1, 0, 0, -1,
	-1, 0, 0, 1,
	0, 1, -1, 0,
}

// Encoder decodes quadrature edges into a position counter. OnEdge is the
// only writer and may run on the GPIO event goroutine; Position may be read
// from anywhere.
type Encoder struct {
	position atomic.Int64
	state    uint8
}

func NewEncoder(a, b bool) *Encoder {
	return &Encoder{state: levels(a, b)}
}

// Seed sets the line levels the next edge is decoded against, without moving
// the position. It must not run concurrently with OnEdge.
func (e *Encoder) Seed(a, b bool) {
	e.state = levels(a, b)
}

// OnEdge is called with the current A and B levels after any edge on either line.
func (e *Encoder) OnEdge(a, b bool) {
	curr := levels(a, b)
	step := transitions[e.state<<2|curr]
	e.state = curr
	if step != 0 {
		e.position.Add(int64(step))
	}
}

func (e *Encoder) Position() int64 {
	return e.position.Load()
}

func levels(a, b bool) uint8 {
	var s uint8
	if a {
		s |= 2
	}
	if b {
		s |= 1
	}
	return s
}
