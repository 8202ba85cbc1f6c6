package clock

import "fmt"

type State int

const (
	Initialising State = iota
	ShowIP1
	ShowIP2
	ShowIP3
	ShowIP4
	Running
	ShowAlarm
	ShowSnooze
	MenuAlarmHours
	MenuAlarmMinutes
	MenuAlarmDays
	SetupMenuRadioWhole
	SetupMenuRadioFraction
	SetupMenu1224Hours
	SetupMenuBrightness
	SetupMenuDayColourIntro
	SetupMenuDayColourR
	SetupMenuDayColourG
	SetupMenuDayColourB
	SetupMenuNightColourIntro
	SetupMenuNightColourR
	SetupMenuNightColourG
	SetupMenuNightColourB
	SetupMenuAlarmPattern
	Cancelled

	stateCount
)

var stateNames = [stateCount]string{
	"initialising", "show_ip_1", "show_ip_2", "show_ip_3", "show_ip_4",
	"running", "show_alarm", "show_snooze",
	"menu_alarm_hours", "menu_alarm_minutes", "menu_alarm_days",
	"setup_radio_whole", "setup_radio_fraction", "setup_12_24_hours", "setup_brightness",
	"setup_day_colour_intro", "setup_day_colour_r", "setup_day_colour_g", "setup_day_colour_b",
	"setup_night_colour_intro", "setup_night_colour_r", "setup_night_colour_g", "setup_night_colour_b",
	"setup_alarm_pattern", "cancelled",
}

func (s State) String() string {
	if s < 0 || s >= stateCount {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// InMenu reports whether s belongs to the alarm or setup menu.
func (s State) InMenu() bool {
	return s >= MenuAlarmHours && s <= SetupMenuAlarmPattern
}

// menuNext is the Click order inside the menus. States missing from the map
// end the session.
var menuNext = map[State]State{
	MenuAlarmMinutes:          MenuAlarmHours,
	MenuAlarmHours:            MenuAlarmDays,
	SetupMenuRadioWhole:       SetupMenuRadioFraction,
	SetupMenuRadioFraction:    SetupMenu1224Hours,
	SetupMenu1224Hours:        SetupMenuBrightness,
	SetupMenuBrightness:       SetupMenuDayColourIntro,
	SetupMenuDayColourIntro:   SetupMenuDayColourR,
	SetupMenuDayColourR:       SetupMenuDayColourG,
	SetupMenuDayColourG:       SetupMenuDayColourB,
	SetupMenuDayColourB:       SetupMenuNightColourIntro,
	SetupMenuNightColourIntro: SetupMenuNightColourR,
	SetupMenuNightColourR:     SetupMenuNightColourG,
	SetupMenuNightColourG:     SetupMenuNightColourB,
	SetupMenuNightColourB:     SetupMenuAlarmPattern,
}

type AlarmState int

const (
	AlarmInactive AlarmState = iota
	AlarmActive
	AlarmSnooze
)

func (a AlarmState) String() string {
	switch a {
	case AlarmActive:
		return "active"
	case AlarmSnooze:
		return "snooze"
	default:
		return "inactive"
	}
}

// Durations in ticks are for the default 10 ms tick.
const (
	ShowIPTicks     = 100
	ShowAlarmTicks  = 300
	ShowSnoozeTicks = 300
	CancelledTicks  = 300
	IntroTicks      = 300

	AlarmDuration  = 600  // seconds
	SnoozeDuration = 300  // seconds
	MaxSnooze      = 5999 // seconds, 99:59 on the display
)
