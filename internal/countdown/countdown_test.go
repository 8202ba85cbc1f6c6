package countdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimerFiresExactlyOnce(t *testing.T) {
	var timer Timer
	timer.Start(3)

	assert.False(t, timer.Tick())
	assert.False(t, timer.Tick())
	assert.True(t, timer.Tick())
	assert.False(t, timer.Active())

	for i := 0; i < 5; i++ {
		assert.False(t, timer.Tick(), "inert timer must not fire again")
	}
}

func TestTimerZeroFiresOnNextTickOnly(t *testing.T) {
	var timer Timer
	timer.Start(0)

	assert.True(t, timer.Active())
	assert.True(t, timer.Tick())
	assert.False(t, timer.Tick())
}

func TestTimerCancel(t *testing.T) {
	var timer Timer
	timer.Start(2)
	timer.Tick()
	timer.Cancel()

	assert.False(t, timer.Tick())
	assert.False(t, timer.Active())
	assert.Equal(t, 0, timer.Remaining())
}

func TestTimerRestart(t *testing.T) {
	var timer Timer
	timer.Start(1)
	assert.True(t, timer.Tick())

	timer.Start(2)
	assert.False(t, timer.Tick())
	assert.True(t, timer.Tick())
}

func TestIndependentTimers(t *testing.T) {
	var a, b Timer
	a.Start(1)
	b.Start(2)

	assert.True(t, a.Tick())
	assert.False(t, b.Tick())
	assert.False(t, a.Tick())
	assert.True(t, b.Tick())
}
