package clock

import (
	"time"

	"github.com/thatsimonsguy/ledclock/internal/input"
	"github.com/thatsimonsguy/ledclock/internal/model"
)

// Event is anything the clock reacts to.
type Event interface {
	isEvent()
}

// Input carries a classified encoder or button event.
type Input struct {
	input.Event
}

// Tick is sent once per loop pass, before any input for that pass.
type Tick struct{}

// TimeSynced reports that the wall clock has been set from a time source.
type TimeSynced struct {
	Now time.Time
}

// WallClock carries the current time; the clock acts once per new second.
type WallClock struct {
	Now time.Time
}

// AlarmSwitch reports the level of the alarm enable switch.
type AlarmSwitch struct {
	Enabled bool
}

// ConfigWritten replaces the committed configuration from outside the menus.
type ConfigWritten struct {
	Config model.Configuration
}

// NetworkReady starts the IP address display.
type NetworkReady struct {
	IP [4]byte
}

// EnterSetup opens the setup menu, as when the button is held at power-on.
type EnterSetup struct{}

func (Input) isEvent()         {}
func (Tick) isEvent()          {}
func (TimeSynced) isEvent()    {}
func (WallClock) isEvent()     {}
func (AlarmSwitch) isEvent()   {}
func (ConfigWritten) isEvent() {}
func (NetworkReady) isEvent()  {}
func (EnterSetup) isEvent()    {}

// Command is a side effect for the caller to carry out.
type Command interface {
	isCommand()
}

// StartAlarm starts the buzzer, or tunes and unmutes the radio when UseRadio is set.
type StartAlarm struct {
	UseRadio  bool
	Frequency int
}

// SnoozeAlarm silences the output while the snooze counts down.
type SnoozeAlarm struct {
	UseRadio bool
}

// StopAlarm silences the output.
type StopAlarm struct {
	UseRadio bool
}

// PersistConfig asks for the committed configuration to be stored.
type PersistConfig struct {
	Config model.Configuration
}

func (StartAlarm) isCommand()    {}
func (SnoozeAlarm) isCommand()   {}
func (StopAlarm) isCommand()     {}
func (PersistConfig) isCommand() {}
