package gpio

import "sync"

// FakePanel is a test double whose inputs are set directly. It is safe for
// use from the simulator's UI goroutine and the clock loop at once.
type FakePanel struct {
	mu sync.Mutex

	Pressed      bool
	SwitchOn     bool
	NoAlarm      bool
	Buzzer       bool
	BuzzerWrites int
	Closed       bool

	// ReadError, if set, is returned by every read.
	ReadError error
}

// NewFakePanel returns a panel with the alarm switch on and nothing pressed.
func NewFakePanel() *FakePanel {
	return &FakePanel{SwitchOn: true}
}

func (f *FakePanel) Press(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Pressed = down
}

func (f *FakePanel) SetSwitch(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SwitchOn = on
}

func (f *FakePanel) ButtonPressed() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Pressed, f.ReadError
}

func (f *FakePanel) AlarmSwitchEnabled() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SwitchOn, f.ReadError
}

func (f *FakePanel) AlarmsDisabled() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.NoAlarm, f.ReadError
}

func (f *FakePanel) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Buzzer = on
	f.BuzzerWrites++
	return nil
}

// BuzzerOn reports the last level written to the buzzer.
func (f *FakePanel) BuzzerOn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Buzzer
}

func (f *FakePanel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	f.Buzzer = false
	return nil
}
