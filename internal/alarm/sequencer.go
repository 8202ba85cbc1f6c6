// Package alarm sounds the alarm: a buzzer beep sequence stepped by the loop
// tick, or the FM radio when one is installed and selected.
package alarm

import "time"

const (
	shortBeep = 60 * time.Millisecond
	longGap   = 540 * time.Millisecond
)

// Sequencer steps through seven short beeps and gaps and one long gap. The
// buzzer is on during even steps.
type Sequencer struct {
	steps     []int
	step      int
	remaining int
	active    bool
}

func NewSequencer(tick time.Duration) *Sequencer {
	short := ticksFor(shortBeep, tick)
	steps := []int{short, short, short, short, short, short, short, ticksFor(longGap, tick)}
	return &Sequencer{steps: steps}
}

func ticksFor(d, tick time.Duration) int {
	n := int(d / tick)
	if n < 1 {
		n = 1
	}
	return n
}

// Start restarts the sequence at the first beep. The buzzer should be on.
func (s *Sequencer) Start() {
	s.step = 0
	s.remaining = s.steps[0]
	s.active = true
}

func (s *Sequencer) Stop() {
	s.active = false
	s.remaining = 0
}

func (s *Sequencer) Active() bool {
	return s.active
}

// On reports the buzzer level for the current step.
func (s *Sequencer) On() bool {
	return s.active && s.step%2 == 0
}

// Tick advances one loop tick and reports whether the buzzer level changed.
func (s *Sequencer) Tick() bool {
	if !s.active {
		return false
	}
	if s.remaining == 1 {
		s.step = (s.step + 1) % len(s.steps)
		s.remaining = s.steps[s.step]
		return true
	}
	if s.remaining > 0 {
		s.remaining--
	}
	return false
}
