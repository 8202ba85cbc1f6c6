// Package input turns encoder edges and button levels into UI events.
package input

import (
	"fmt"
	"time"
)

type Kind int

const (
	Rotate Kind = iota + 1
	Click
	DoubleClick
	LongPress
)

func (k Kind) String() string {
	switch k {
	case Rotate:
		return "rotate"
	case Click:
		return "click"
	case DoubleClick:
		return "double_click"
	case LongPress:
		return "long_press"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Event struct {
	Kind  Kind
	Delta int
}

type ButtonState int

const (
	Idle ButtonState = iota
	Pressed
	LongPressed
	AwaitingSecondClick
)

type Timings struct {
	Debounce       time.Duration
	LongPress      time.Duration
	DoubleClick    time.Duration
	StepsPerDetent int
}

func DefaultTimings() Timings {
	return Timings{
		Debounce:       25 * time.Millisecond,
		LongPress:      2000 * time.Millisecond,
		DoubleClick:    300 * time.Millisecond,
		StepsPerDetent: 1,
	}
}

// Classifier is polled once per tick. Only OnEncoderEdge may be called from
// another goroutine.
type Classifier struct {
	timings Timings
	encoder *Encoder
	lastPos int64

	state      ButtonState
	rawLevel   bool
	rawSince   time.Time
	stable     bool
	pressedAt  time.Time
	releasedAt time.Time
}

func NewClassifier(t Timings, enc *Encoder) *Classifier {
	if t.StepsPerDetent < 1 {
		t.StepsPerDetent = 1
	}
	if enc == nil {
		enc = NewEncoder(false, false)
	}
	return &Classifier{timings: t, encoder: enc, lastPos: enc.Position()}
}

func (c *Classifier) OnEncoderEdge(a, b bool) {
	c.encoder.OnEdge(a, b)
}

func (c *Classifier) State() ButtonState {
	return c.state
}

// PollRotation reports the detents turned since the last poll, with
// RotationSign applied. Partial detents carry over to the next poll.
func (c *Classifier) PollRotation() (Event, bool) {
	raw := c.encoder.Position() - c.lastPos
	detents := raw / int64(c.timings.StepsPerDetent)
	if detents == 0 {
		return Event{}, false
	}
	c.lastPos += detents * int64(c.timings.StepsPerDetent)
	return Event{Kind: Rotate, Delta: int(detents) * RotationSign}, true
}

// PollButton feeds the raw button level sampled at now and returns at most one
// classified event.
func (c *Classifier) PollButton(pressed bool, now time.Time) (Event, bool) {
	pressEdge, releaseEdge := c.debounce(pressed, now)

	switch c.state {
	case Idle:
		if pressEdge {
			c.state = Pressed
			c.pressedAt = now
		}

	case Pressed:
		held := now.Sub(c.pressedAt)
		if held >= c.timings.LongPress {
			if releaseEdge {
				c.state = Idle
			} else {
				c.state = LongPressed
			}
			return Event{Kind: LongPress}, true
		}
		if releaseEdge {
			c.state = AwaitingSecondClick
			c.releasedAt = now
		}

	case LongPressed:
		if releaseEdge {
			c.state = Idle
		}

	case AwaitingSecondClick:
		inWindow := now.Sub(c.releasedAt) <= c.timings.DoubleClick
		if pressEdge && inWindow {
			c.state = Idle
			return Event{Kind: DoubleClick}, true
		}
		if !inWindow {
			c.state = Idle
			if pressEdge {
				c.state = Pressed
				c.pressedAt = now
			}
			return Event{Kind: Click}, true
		}
	}

	return Event{}, false
}

func (c *Classifier) debounce(pressed bool, now time.Time) (pressEdge, releaseEdge bool) {
	if pressed != c.rawLevel {
		c.rawLevel = pressed
		c.rawSince = now
	}
	if c.rawLevel == c.stable {
		return false, false
	}
	if c.timings.Debounce > 0 && now.Sub(c.rawSince) < c.timings.Debounce {
		return false, false
	}
	c.stable = c.rawLevel
	return c.stable, !c.stable
}
