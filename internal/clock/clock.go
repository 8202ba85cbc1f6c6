// Package clock is the UI state machine of the alarm clock: display states,
// the alarm and snooze cycle, and the menu editing sessions.
package clock

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ledclock/internal/countdown"
	"github.com/thatsimonsguy/ledclock/internal/model"
	"github.com/thatsimonsguy/ledclock/internal/render"
	"github.com/thatsimonsguy/ledclock/internal/shadow"
)

// Almanac supplies local sunrise and sunset as minutes of the day.
type Almanac interface {
	SunTimes(date time.Time, latitude, longitude float64) (sunrise, sunset int)
}

// FixedAlmanac returns the same times every day.
type FixedAlmanac struct {
	Sunrise, Sunset int
}

func (a FixedAlmanac) SunTimes(time.Time, float64, float64) (int, int) {
	return a.Sunrise, a.Sunset
}

type Option func(*Clock)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Clock) { c.log = l }
}

func WithAlmanac(a Almanac) Option {
	return func(c *Clock) { c.almanac = a }
}

// WithAlarmSwitch sets the initial level of the alarm enable switch.
func WithAlarmSwitch(enabled bool) Option {
	return func(c *Clock) { c.switchEnabled = enabled }
}

type Clock struct {
	log     zerolog.Logger
	almanac Almanac
	loc     *time.Location
	editor  *shadow.Editor

	state           State
	alarm           AlarmState
	alarmRemaining  int
	snoozeRemaining int
	switchEnabled   bool

	ipTimer      countdown.Timer
	displayTimer countdown.Timer
	introTimer   countdown.Timer
	ip           [4]byte

	timeKnown   bool
	lastSecond  int64
	hour        int
	minute      int
	minuteOfDay int
	weekday     int
	sunrise     int
	sunset      int
	daytime     bool

	step int
}

func New(cfg model.Configuration, opts ...Option) *Clock {
	c := &Clock{
		log:           log.Logger,
		almanac:       FixedAlmanac{Sunrise: 6 * 60, Sunset: 18 * 60},
		editor:        shadow.NewEditor(cfg),
		state:         Initialising,
		switchEnabled: true,
		sunrise:       6 * 60,
		sunset:        18 * 60,
		daytime:       true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.loc = Location(cfg)
	return c
}

// Location resolves the configured timezone, falling back to the fixed
// offset when the name is unknown.
func Location(cfg model.Configuration) *time.Location {
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil && cfg.Timezone != "" {
		return loc
	}
	return time.FixedZone(cfg.Timezone, cfg.Offset*3600)
}

func (c *Clock) State() State { return c.state }
func (c *Clock) Alarm() AlarmState { return c.alarm }
func (c *Clock) AlarmRemaining() int { return c.alarmRemaining }
func (c *Clock) SnoozeRemaining() int { return c.snoozeRemaining }
func (c *Clock) Config() model.Configuration { return c.editor.Committed() }
func (c *Clock) Shadow() model.Configuration { return *c.editor.Shadow() }
func (c *Clock) Daytime() bool { return c.daytime }
func (c *Clock) SunTimes() (int, int) { return c.sunrise, c.sunset }
func (c *Clock) Step() int { return c.step }
func (c *Clock) TimeKnown() bool { return c.timeKnown }
func (c *Clock) AlarmSwitchEnabled() bool { return c.switchEnabled }
func (c *Clock) Location() *time.Location { return c.loc }
func (c *Clock) MinuteOfDay() (int, bool) { return c.minuteOfDay, c.timeKnown }

func (c *Clock) inSession() bool { return c.state.InMenu() }

// Handle applies one event and returns the side effects it caused.
func (c *Clock) Handle(ev Event) []Command {
	switch e := ev.(type) {
	case Input:
		return c.handleInput(e)
	case Tick:
		return c.tick()
	case TimeSynced:
		c.timeSynced(e.Now)
	case WallClock:
		return c.wallClock(e.Now)
	case AlarmSwitch:
		c.switchEnabled = e.Enabled
		if !e.Enabled && c.alarm != AlarmInactive {
			return c.stopAlarm()
		}
	case ConfigWritten:
		return c.configWritten(e.Config)
	case NetworkReady:
		c.ip = e.IP
		if c.state == Initialising {
			c.setState(ShowIP1)
			c.ipTimer.Start(ShowIPTicks)
		}
	case EnterSetup:
		c.enterMenu(true)
	}
	return nil
}

func (c *Clock) setState(s State) {
	if s == c.state {
		return
	}
	c.log.Debug().Str("from", c.state.String()).Str("to", s.String()).Msg("Clock state changed")
	c.state = s
}

func (c *Clock) tick() []Command {
	if c.ipTimer.Tick() {
		switch c.state {
		case ShowIP1, ShowIP2, ShowIP3:
			c.setState(c.state + 1)
			c.ipTimer.Start(ShowIPTicks)
		case ShowIP4:
			if c.timeKnown {
				c.setState(Running)
			} else {
				c.setState(Initialising)
			}
		}
	}
	if c.displayTimer.Tick() {
		switch c.state {
		case ShowAlarm, ShowSnooze, Cancelled:
			c.setState(Running)
		}
	}
	if c.introTimer.Tick() {
		switch c.state {
		case SetupMenuDayColourIntro:
			c.setState(SetupMenuDayColourR)
		case SetupMenuNightColourIntro:
			c.setState(SetupMenuNightColourR)
		}
	}

	c.step = render.Advance(c.pattern(), c.step)
	return nil
}

// pattern is the display pattern in force for the current state. The alarm
// pattern menu previews the pattern being chosen.
func (c *Clock) pattern() model.DisplayPattern {
	cfg := c.editor.Committed()
	switch {
	case c.state == SetupMenuAlarmPattern:
		return c.editor.Shadow().AlarmPattern
	case c.inSession():
		return model.Menu
	case c.alarm == AlarmActive:
		return cfg.AlarmPattern
	case c.daytime:
		return cfg.DayPattern
	default:
		return cfg.NightPattern
	}
}

func (c *Clock) timeSynced(now time.Time) {
	first := !c.timeKnown
	c.timeKnown = true
	if first {
		// Back-date so the next wall clock pass treats the minute and hour
		// as new.
		c.lastSecond = now.Unix() - 3600
		c.updateCalendar(now)
		c.syncSun(now)
		c.checkDaytime()
	}
	if c.state == Initialising {
		c.setState(Running)
	}
	c.log.Info().Time("now", now).Bool("first", first).Msg("Time synchronised")
}

func (c *Clock) wallClock(now time.Time) []Command {
	if c.state == Initialising || !c.timeKnown {
		return nil
	}
	sec := now.Unix()
	if sec == c.lastSecond {
		return nil
	}

	var cmds []Command
	switch c.alarm {
	case AlarmSnooze:
		if c.snoozeRemaining <= 1 {
			cmds = append(cmds, c.startAlarm()...)
		} else {
			c.snoozeRemaining--
		}
	case AlarmActive:
		c.alarmRemaining--
		if c.alarmRemaining <= 0 {
			c.log.Info().Msg("Alarm timed out")
			cmds = append(cmds, c.stopAlarm()...)
		}
	}

	if sec/60 != c.lastSecond/60 {
		c.updateCalendar(now)
		cfg := c.editor.Committed()
		if !cfg.IsAlarmDisabled &&
			c.switchEnabled &&
			c.alarm != AlarmActive &&
			c.minuteOfDay == cfg.AlarmTime &&
			cfg.AlarmToday(c.weekday) {
			c.log.Info().Int("alarm_time", cfg.AlarmTime).Str("activation", cfg.AlarmActivation.String()).Msg("Alarm triggered")
			cmds = append(cmds, c.startAlarm()...)
		}
		if sec/3600 != c.lastSecond/3600 {
			c.syncSun(now)
		}
		c.checkDaytime()
	}

	c.lastSecond = sec
	return cmds
}

func (c *Clock) updateCalendar(now time.Time) {
	local := now.In(c.loc)
	c.hour = local.Hour()
	c.minute = local.Minute()
	c.minuteOfDay = c.hour*60 + c.minute
	c.weekday = int(local.Weekday())
}

func (c *Clock) syncSun(now time.Time) {
	cfg := c.editor.Committed()
	c.sunrise, c.sunset = c.almanac.SunTimes(now.In(c.loc), cfg.Latitude, cfg.Longitude)
	c.log.Info().Int("sunrise", c.sunrise).Int("sunset", c.sunset).Msg("Updated sunrise and sunset")
}

// checkDaytime: after sunset is night. Before that, day starts at the alarm
// time when an alarm is due today, otherwise at sunrise.
func (c *Clock) checkDaytime() {
	cfg := c.editor.Committed()
	switch {
	case c.minuteOfDay >= c.sunset:
		c.daytime = false
	case !cfg.AlarmToday(c.weekday):
		c.daytime = c.minuteOfDay >= c.sunrise
	default:
		c.daytime = c.minuteOfDay >= cfg.AlarmTime
	}
}

func (c *Clock) useRadio() bool {
	cfg := c.editor.Committed()
	return cfg.IsRadioInstalled && cfg.IsUseRadio
}

func (c *Clock) startAlarm() []Command {
	c.alarm = AlarmActive
	c.alarmRemaining = AlarmDuration
	c.snoozeRemaining = 0
	cfg := c.editor.Committed()
	return []Command{StartAlarm{UseRadio: c.useRadio(), Frequency: cfg.RadioFrequency}}
}

func (c *Clock) snoozeAlarm() []Command {
	c.alarm = AlarmSnooze
	c.alarmRemaining = 0
	c.snoozeRemaining = SnoozeDuration
	return []Command{SnoozeAlarm{UseRadio: c.useRadio()}}
}

func (c *Clock) stopAlarm() []Command {
	c.alarm = AlarmInactive
	c.alarmRemaining = 0
	c.snoozeRemaining = 0
	return []Command{StopAlarm{UseRadio: c.useRadio()}}
}

func (c *Clock) configWritten(cfg model.Configuration) []Command {
	old := c.editor.Committed()
	cfg.IsAlarmDisabled = old.IsAlarmDisabled
	cfg.IsRadioInstalled = old.IsRadioInstalled
	if fixed := cfg.Sanitise(); len(fixed) > 0 {
		c.log.Warn().Strs("fields", fixed).Msg("Replaced invalid configuration fields with defaults")
	}
	c.editor.Replace(cfg)

	moved := cfg.Timezone != old.Timezone || cfg.Offset != old.Offset ||
		cfg.Latitude != old.Latitude || cfg.Longitude != old.Longitude
	if moved {
		c.loc = Location(cfg)
		if c.timeKnown && c.state != Initialising {
			now := time.Unix(c.lastSecond, 0)
			c.updateCalendar(now)
			c.syncSun(now)
		}
	}
	if c.timeKnown {
		c.checkDaytime()
	}
	return []Command{PersistConfig{Config: cfg}}
}
