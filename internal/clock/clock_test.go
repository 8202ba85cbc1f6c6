package clock

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/ledclock/internal/input"
	"github.com/thatsimonsguy/ledclock/internal/model"
	"github.com/thatsimonsguy/ledclock/internal/render"
)

func testConfig() model.Configuration {
	cfg := model.DefaultConfiguration()
	cfg.Timezone = "UTC"
	cfg.Offset = 0
	return cfg
}

func newClock(cfg model.Configuration) *Clock {
	return New(cfg, WithLogger(zerolog.Nop()), WithAlmanac(FixedAlmanac{Sunrise: 6 * 60, Sunset: 18 * 60}))
}

// runningAt returns a clock in Running with its wall clock processed at now.
func runningAt(t *testing.T, cfg model.Configuration, now time.Time) *Clock {
	t.Helper()
	c := newClock(cfg)
	c.Handle(TimeSynced{Now: now})
	c.Handle(WallClock{Now: now})
	require.Equal(t, Running, c.State())
	return c
}

func press(c *Clock, k input.Kind) []Command {
	return c.Handle(Input{input.Event{Kind: k}})
}

func turn(c *Clock, delta int) []Command {
	return c.Handle(Input{input.Event{Kind: input.Rotate, Delta: delta}})
}

func ticks(c *Clock, n int) {
	for i := 0; i < n; i++ {
		c.Handle(Tick{})
	}
}

func countStarts(cmds []Command) int {
	n := 0
	for _, cmd := range cmds {
		if _, ok := cmd.(StartAlarm); ok {
			n++
		}
	}
	return n
}

// Sunday 18 October 2026.
var sunday = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

func TestAlarmFiresOnceAtConfiguredMinute(t *testing.T) {
	cfg := testConfig()
	cfg.AlarmTime = 6 * 60
	cfg.AlarmActivation = model.AllDays

	start := sunday.Add(5*time.Hour + 59*time.Minute + 59*time.Second)
	c := runningAt(t, cfg, start)
	assert.Equal(t, AlarmInactive, c.Alarm())

	var cmds []Command
	for s := 1; s <= 90; s++ {
		cmds = append(cmds, c.Handle(WallClock{Now: start.Add(time.Duration(s) * time.Second)})...)
	}

	assert.Equal(t, 1, countStarts(cmds))
	assert.Equal(t, AlarmActive, c.Alarm())
	assert.Equal(t, AlarmDuration-89, c.AlarmRemaining())
}

func TestWeekdaysSkipsWeekend(t *testing.T) {
	cfg := testConfig()
	cfg.AlarmTime = 7 * 60
	cfg.AlarmActivation = model.Weekdays

	tests := []struct {
		name string
		day  time.Time
		want int
	}{
		{"saturday", sunday.AddDate(0, 0, -1), 0},
		{"sunday", sunday, 0},
		{"monday", sunday.AddDate(0, 0, 1), 1},
		{"friday", sunday.AddDate(0, 0, 5), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.day.Add(6*time.Hour + 59*time.Minute + 59*time.Second)
			c := runningAt(t, cfg, before)
			cmds := c.Handle(WallClock{Now: before.Add(time.Second)})
			assert.Equal(t, tt.want, countStarts(cmds))
		})
	}
}

func TestAlarmRequiresSwitchAndNotHardDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AlarmTime = 6 * 60
	cfg.AlarmActivation = model.AllDays
	before := sunday.Add(5*time.Hour + 59*time.Minute + 59*time.Second)

	c := runningAt(t, cfg, before)
	c.Handle(AlarmSwitch{Enabled: false})
	assert.Zero(t, countStarts(c.Handle(WallClock{Now: before.Add(time.Second)})))

	cfg.IsAlarmDisabled = true
	c = runningAt(t, cfg, before)
	assert.Zero(t, countStarts(c.Handle(WallClock{Now: before.Add(time.Second)})))
}

func activeAlarmClock(t *testing.T) (*Clock, time.Time) {
	t.Helper()
	cfg := testConfig()
	cfg.AlarmTime = 6 * 60
	cfg.AlarmActivation = model.AllDays
	at := sunday.Add(6 * time.Hour)
	c := runningAt(t, cfg, at.Add(-time.Second))
	require.Equal(t, 1, countStarts(c.Handle(WallClock{Now: at})))
	return c, at
}

func TestSnoozeCountsDownAndRestartsAlarm(t *testing.T) {
	c, at := activeAlarmClock(t)

	cmds := press(c, input.Click)
	require.Len(t, cmds, 1)
	assert.IsType(t, SnoozeAlarm{}, cmds[0])
	assert.Equal(t, ShowSnooze, c.State())
	assert.Equal(t, AlarmSnooze, c.Alarm())
	assert.Equal(t, SnoozeDuration, c.SnoozeRemaining())

	var all []Command
	for s := 1; s < SnoozeDuration; s++ {
		all = append(all, c.Handle(WallClock{Now: at.Add(time.Duration(s) * time.Second)})...)
	}
	assert.Zero(t, countStarts(all))
	assert.Equal(t, 1, c.SnoozeRemaining())

	all = c.Handle(WallClock{Now: at.Add(SnoozeDuration * time.Second)})
	assert.Equal(t, 1, countStarts(all))
	assert.Equal(t, AlarmActive, c.Alarm())
}

func TestSnoozeRotation(t *testing.T) {
	c, _ := activeAlarmClock(t)
	press(c, input.Click)

	turn(c, 10)
	assert.Equal(t, SnoozeDuration+600, c.SnoozeRemaining())

	turn(c, 200)
	assert.Equal(t, MaxSnooze, c.SnoozeRemaining())

	cmds := turn(c, -200)
	require.Len(t, cmds, 1)
	assert.IsType(t, StopAlarm{}, cmds[0])
	assert.Equal(t, AlarmInactive, c.Alarm())
	assert.Zero(t, c.SnoozeRemaining())
}

func TestDoubleClickInSnoozeStopsAlarm(t *testing.T) {
	c, _ := activeAlarmClock(t)
	press(c, input.Click)

	cmds := press(c, input.DoubleClick)
	require.Len(t, cmds, 1)
	assert.IsType(t, StopAlarm{}, cmds[0])
	assert.Equal(t, AlarmInactive, c.Alarm())
}

func TestAlarmTimesOut(t *testing.T) {
	c, at := activeAlarmClock(t)

	var stops int
	for s := 1; s <= AlarmDuration; s++ {
		for _, cmd := range c.Handle(WallClock{Now: at.Add(time.Duration(s) * time.Second)}) {
			if _, ok := cmd.(StopAlarm); ok {
				stops++
			}
		}
	}
	assert.Equal(t, 1, stops)
	assert.Equal(t, AlarmInactive, c.Alarm())
}

func TestAlarmSwitchOffStopsAlarm(t *testing.T) {
	c, _ := activeAlarmClock(t)

	cmds := c.Handle(AlarmSwitch{Enabled: false})
	require.Len(t, cmds, 1)
	assert.IsType(t, StopAlarm{}, cmds[0])
	assert.False(t, c.AlarmSwitchEnabled())
}

func TestStartAlarmUsesRadioWhenEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.AlarmTime = 6 * 60
	cfg.AlarmActivation = model.OneTime
	cfg.IsUseRadio = true
	cfg.RadioFrequency = 1015
	at := sunday.Add(6 * time.Hour)
	c := runningAt(t, cfg, at.Add(-time.Second))

	cmds := c.Handle(WallClock{Now: at})
	require.Len(t, cmds, 1)
	assert.Equal(t, StartAlarm{UseRadio: true, Frequency: 1015}, cmds[0])
}

func TestClickShowsAlarmThenReturns(t *testing.T) {
	c := runningAt(t, testConfig(), sunday.Add(10*time.Hour))

	press(c, input.Click)
	assert.Equal(t, ShowAlarm, c.State())

	ticks(c, ShowAlarmTicks-1)
	assert.Equal(t, ShowAlarm, c.State())
	ticks(c, 1)
	assert.Equal(t, Running, c.State())
}

func TestAlarmMenuCommit(t *testing.T) {
	cfg := testConfig()
	cfg.AlarmTime = 23*60 + 59
	c := runningAt(t, cfg, sunday.Add(10*time.Hour))

	press(c, input.DoubleClick)
	require.Equal(t, MenuAlarmMinutes, c.State())

	turn(c, 61)
	assert.Equal(t, 60, c.Shadow().AlarmTime, "23:59 + 61 minutes is 01:00")

	press(c, input.Click)
	assert.Equal(t, MenuAlarmHours, c.State())
	turn(c, -2)
	assert.Equal(t, 23*60, c.Shadow().AlarmTime)

	press(c, input.Click)
	assert.Equal(t, MenuAlarmDays, c.State())
	turn(c, 1)
	assert.Equal(t, model.Weekdays, c.Shadow().AlarmActivation)

	cmds := press(c, input.Click)
	assert.Equal(t, Running, c.State())
	require.Len(t, cmds, 1)
	persisted := cmds[0].(PersistConfig)
	assert.Equal(t, 23*60, persisted.Config.AlarmTime)
	assert.Equal(t, model.Weekdays, c.Config().AlarmActivation)
}

func TestMinuteWrapsBackwards(t *testing.T) {
	cfg := testConfig()
	cfg.AlarmTime = 0
	c := runningAt(t, cfg, sunday.Add(10*time.Hour))

	press(c, input.DoubleClick)
	turn(c, -1)
	assert.Equal(t, 23*60+59, c.Shadow().AlarmTime)
}

func TestMenuUnchangedCommitDoesNotPersist(t *testing.T) {
	c := runningAt(t, testConfig(), sunday.Add(10*time.Hour))

	press(c, input.DoubleClick)
	turn(c, 5)
	turn(c, -5)
	cmds := press(c, input.DoubleClick)

	assert.Empty(t, cmds)
	assert.Equal(t, Running, c.State())
}

func TestLongPressDiscards(t *testing.T) {
	cfg := testConfig()
	c := runningAt(t, cfg, sunday.Add(10*time.Hour))

	press(c, input.Click)
	press(c, input.Click) // ShowAlarm -> menu
	require.Equal(t, MenuAlarmMinutes, c.State())
	turn(c, 30)

	cmds := press(c, input.LongPress)
	assert.Empty(t, cmds)
	assert.Equal(t, Cancelled, c.State())
	assert.Equal(t, cfg, c.Config())

	ticks(c, CancelledTicks)
	assert.Equal(t, Running, c.State())
}

func TestLongPressOutsideMenuIgnored(t *testing.T) {
	c := runningAt(t, testConfig(), sunday.Add(10*time.Hour))
	assert.Empty(t, press(c, input.LongPress))
	assert.Equal(t, Running, c.State())
}

func TestSetupMenuSequence(t *testing.T) {
	c := newClock(testConfig())
	c.Handle(EnterSetup{})
	require.Equal(t, SetupMenuRadioWhole, c.State())

	order := []State{
		SetupMenuRadioFraction, SetupMenu1224Hours, SetupMenuBrightness,
		SetupMenuDayColourIntro, SetupMenuDayColourR, SetupMenuDayColourG, SetupMenuDayColourB,
		SetupMenuNightColourIntro, SetupMenuNightColourR, SetupMenuNightColourG, SetupMenuNightColourB,
		SetupMenuAlarmPattern, Running,
	}
	for _, want := range order {
		press(c, input.Click)
		assert.Equal(t, want, c.State())
	}
}

func TestSetupMenuWithoutRadioStartsAtHourFormat(t *testing.T) {
	cfg := testConfig()
	cfg.IsRadioInstalled = false
	c := newClock(cfg)
	c.Handle(EnterSetup{})
	assert.Equal(t, SetupMenu1224Hours, c.State())
	assert.Equal(t, cfg, c.Shadow())
}

func TestIntroAdvancesOnTimer(t *testing.T) {
	c := newClock(testConfig())
	c.Handle(EnterSetup{})
	for c.State() != SetupMenuBrightness {
		press(c, input.Click)
	}
	press(c, input.Click)
	require.Equal(t, SetupMenuDayColourIntro, c.State())

	ticks(c, IntroTicks-1)
	assert.Equal(t, SetupMenuDayColourIntro, c.State())
	ticks(c, 1)
	assert.Equal(t, SetupMenuDayColourR, c.State())
}

func TestSetupRotations(t *testing.T) {
	cfg := testConfig()
	cfg.RadioFrequency = 1073
	cfg.Brightness = 15
	cfg.DayColour = model.Colour{R: 255, G: 0, B: 10}
	cfg.AlarmPattern = model.Pulsing
	c := newClock(cfg)
	c.Handle(EnterSetup{})

	turn(c, 1)
	assert.Equal(t, 883, c.Shadow().RadioFrequency, "107 wraps to 88")
	turn(c, -1)
	assert.Equal(t, 1073, c.Shadow().RadioFrequency)

	press(c, input.Click)
	turn(c, 8)
	assert.Equal(t, 1071, c.Shadow().RadioFrequency)

	press(c, input.Click)
	turn(c, 3)
	assert.False(t, c.Shadow().Is24Hour)
	turn(c, 2)
	assert.False(t, c.Shadow().Is24Hour)

	press(c, input.Click)
	turn(c, 1)
	assert.Equal(t, 1, c.Shadow().Brightness)
	turn(c, -1)
	assert.Equal(t, 15, c.Shadow().Brightness)

	press(c, input.Click) // intro
	press(c, input.Click) // R
	turn(c, 1)
	assert.Equal(t, uint8(0), c.Shadow().DayColour.R)
	press(c, input.Click) // G
	turn(c, -1)
	assert.Equal(t, uint8(255), c.Shadow().DayColour.G)
	press(c, input.Click) // B
	turn(c, 300)
	assert.Equal(t, uint8(54), c.Shadow().DayColour.B)

	for c.State() != SetupMenuAlarmPattern {
		press(c, input.Click)
	}
	turn(c, 1)
	assert.Equal(t, model.SolidColour, c.Shadow().AlarmPattern, "Menu is not selectable")

	cmds := press(c, input.Click)
	require.Len(t, cmds, 1)
	assert.Equal(t, c.Config(), cmds[0].(PersistConfig).Config)
}

func TestAlarmDaysCycle(t *testing.T) {
	c := runningAt(t, testConfig(), sunday.Add(10*time.Hour))
	press(c, input.DoubleClick)
	press(c, input.Click)
	press(c, input.Click)
	require.Equal(t, MenuAlarmDays, c.State())

	seq := []model.AlarmActivation{model.Weekdays, model.AllDays, model.OneTime, model.AlarmDisabled}
	for _, want := range seq {
		turn(c, 1)
		assert.Equal(t, want, c.Shadow().AlarmActivation)
	}
	turn(c, -1)
	assert.Equal(t, model.OneTime, c.Shadow().AlarmActivation)
}

func TestShowIPSequence(t *testing.T) {
	c := newClock(testConfig())
	c.Handle(NetworkReady{IP: [4]byte{192, 168, 1, 20}})
	require.Equal(t, ShowIP1, c.State())

	for _, want := range []State{ShowIP2, ShowIP3, ShowIP4, Initialising} {
		ticks(c, ShowIPTicks)
		assert.Equal(t, want, c.State())
	}
}

func TestShowIPFallsThroughToRunningOnceTimeKnown(t *testing.T) {
	c := newClock(testConfig())
	c.Handle(NetworkReady{IP: [4]byte{10, 0, 0, 1}})
	c.Handle(TimeSynced{Now: sunday})
	assert.Equal(t, ShowIP1, c.State())

	ticks(c, 4*ShowIPTicks)
	assert.Equal(t, Running, c.State())
}

func TestWallClockIgnoredBeforeSync(t *testing.T) {
	c := newClock(testConfig())
	assert.Nil(t, c.Handle(WallClock{Now: sunday}))
	assert.False(t, c.TimeKnown())
}

func TestDaytime(t *testing.T) {
	tests := []struct {
		name       string
		activation model.AlarmActivation
		alarm      int
		at         time.Duration
		want       bool
	}{
		{"before sunrise no alarm", model.AlarmDisabled, 0, 5 * time.Hour, false},
		{"after sunrise no alarm", model.AlarmDisabled, 0, 7 * time.Hour, true},
		{"after sunrise before alarm", model.AllDays, 8 * 60, 7 * time.Hour, false},
		{"after alarm", model.AllDays, 8 * 60, 8 * time.Hour, true},
		{"after sunset", model.AllDays, 8 * 60, 19 * time.Hour, false},
		{"weekend weekdays alarm uses sunrise", model.Weekdays, 8 * 60, 7 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.AlarmActivation = tt.activation
			cfg.AlarmTime = tt.alarm
			c := runningAt(t, cfg, sunday.Add(tt.at))
			assert.Equal(t, tt.want, c.Daytime())
		})
	}
}

func TestConfigWrittenKeepsHardwareFlags(t *testing.T) {
	cfg := testConfig()
	cfg.IsRadioInstalled = false
	cfg.IsAlarmDisabled = true
	c := runningAt(t, cfg, sunday.Add(10*time.Hour))

	written := testConfig()
	written.DeviceName = "Kitchen"
	written.Brightness = 40
	written.IsRadioInstalled = true

	cmds := c.Handle(ConfigWritten{Config: written})
	require.Len(t, cmds, 1)
	got := cmds[0].(PersistConfig).Config
	assert.Equal(t, "Kitchen", got.DeviceName)
	assert.False(t, got.IsRadioInstalled)
	assert.True(t, got.IsAlarmDisabled)
	assert.Equal(t, model.MaxBrightness, got.Brightness)
	assert.Equal(t, got, c.Config())
}

func TestConfigWrittenResyncsSunOnMove(t *testing.T) {
	alm := &recordingAlmanac{sunrise: 300, sunset: 1200}
	cfg := testConfig()
	c := New(cfg, WithLogger(zerolog.Nop()), WithAlmanac(alm))
	c.Handle(TimeSynced{Now: sunday.Add(10 * time.Hour)})
	calls := alm.calls

	same := cfg
	same.DeviceName = "Renamed"
	c.Handle(ConfigWritten{Config: same})
	assert.Equal(t, calls, alm.calls)

	moved := cfg
	moved.Latitude = 51.5
	c.Handle(ConfigWritten{Config: moved})
	assert.Equal(t, calls+1, alm.calls)
	assert.Equal(t, 51.5, alm.lastLat)
}

type recordingAlmanac struct {
	sunrise, sunset int
	calls           int
	lastLat         float64
}

func (a *recordingAlmanac) SunTimes(_ time.Time, lat, _ float64) (int, int) {
	a.calls++
	a.lastLat = lat
	return a.sunrise, a.sunset
}

func TestAnimationStepFollowsPattern(t *testing.T) {
	cfg := testConfig()
	cfg.DayPattern = model.SolidColour
	c := runningAt(t, cfg, sunday.Add(10*time.Hour))
	ticks(c, 5)
	assert.Zero(t, c.Step())

	press(c, input.DoubleClick)
	ticks(c, 5)
	assert.Equal(t, 5, c.Step(), "menu pattern animates")
}

func TestAlarmPatternPreviewStepsWithItsOwnPeriod(t *testing.T) {
	cfg := testConfig()
	cfg.AlarmPattern = model.Flashing
	c := newClock(cfg)
	c.Handle(EnterSetup{})
	for c.State() != SetupMenuAlarmPattern {
		press(c, input.Click)
	}

	maxStep := 0
	for i := 0; i < 300; i++ {
		c.Handle(Tick{})
		v, ok := c.View()
		require.True(t, ok)
		require.Equal(t, model.Flashing, v.Pattern)
		if v.Step > maxStep {
			maxStep = v.Step
		}
	}
	assert.Less(t, maxStep, render.Period(model.Flashing))
	assert.Equal(t, render.Period(model.Flashing)-1, maxStep)

	turn(c, 1)
	v, _ := c.View()
	assert.Equal(t, model.Pulsing, v.Pattern)
	assert.Less(t, v.Step, render.Period(model.Pulsing))
}

func TestStepWrapsWhenPatternChanges(t *testing.T) {
	cfg := testConfig()
	cfg.AlarmActivation = model.AlarmDisabled
	cfg.DayPattern = model.RainbowSegments
	cfg.NightPattern = model.Pulsing
	c := runningAt(t, cfg, sunday.Add(17*time.Hour+58*time.Minute))
	require.True(t, c.Daytime())

	ticks(c, 450)
	require.Equal(t, 450, c.Step())

	c.Handle(WallClock{Now: sunday.Add(18*time.Hour + 1*time.Minute)})
	require.False(t, c.Daytime())

	v, ok := c.View()
	require.True(t, ok)
	assert.Equal(t, model.Pulsing, v.Pattern)
	assert.Equal(t, 50, v.Step)
}
