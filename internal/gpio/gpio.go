// Package gpio reads the clock's front panel and drives the buzzer. The real
// implementation uses the Linux GPIO character device; the fake one is
// scripted for tests and the simulator.
package gpio

// Panel is the encoder button, the alarm switches and the buzzer line.
type Panel interface {
	ButtonPressed() (bool, error)

	// AlarmSwitchEnabled reads the alarm enable switch on the case.
	AlarmSwitchEnabled() (bool, error)

	// AlarmsDisabled reads the jumper that turns the alarm off for good.
	AlarmsDisabled() (bool, error)

	// Set drives the buzzer.
	Set(on bool) error

	Close() error
}

// Pins are BCM line offsets on the GPIO chip.
type Pins struct {
	EncoderA    int
	EncoderB    int
	Button      int
	AlarmSwitch int
	NoAlarm     int
	Buzzer      int
}

// Decoder receives the encoder A and B levels. Seed is called once with the
// levels read at start, before any edge is delivered to OnEdge.
type Decoder interface {
	Seed(a, b bool)
	OnEdge(a, b bool)
}
