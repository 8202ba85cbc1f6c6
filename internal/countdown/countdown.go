// Package countdown provides a one-shot tick-down timer.
package countdown

// Timer fires once, on the tick its remaining count reaches zero, and is then
// inert until started again.
type Timer struct {
	remaining int
	active    bool
}

// Start arms the timer. A timer started with zero ticks fires on the next Tick.
func (t *Timer) Start(ticks int) {
	if ticks < 0 {
		ticks = 0
	}
	t.remaining = ticks
	t.active = true
}

func (t *Timer) Cancel() {
	t.remaining = 0
	t.active = false
}

func (t *Timer) Active() bool {
	return t.active
}

func (t *Timer) Remaining() int {
	return t.remaining
}

// Tick advances the timer and reports true exactly once per Start.
func (t *Timer) Tick() bool {
	if !t.active {
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.active = false
		return true
	}
	return false
}
