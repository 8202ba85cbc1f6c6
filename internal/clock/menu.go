package clock

import (
	"github.com/thatsimonsguy/ledclock/internal/input"
	"github.com/thatsimonsguy/ledclock/internal/model"
)

// activationCycle is the rotation order of the alarm days setting.
var activationCycle = []model.AlarmActivation{model.AlarmDisabled, model.Weekdays, model.AllDays, model.OneTime}

func (c *Clock) handleInput(e Input) []Command {
	switch e.Kind {
	case input.Rotate:
		return c.rotate(e.Delta)
	case input.Click:
		return c.click()
	case input.DoubleClick:
		return c.doubleClick()
	case input.LongPress:
		return c.longPress()
	}
	return nil
}

func (c *Clock) click() []Command {
	switch c.state {
	case Initialising, Running:
		if c.alarm == AlarmInactive {
			c.setState(ShowAlarm)
			c.displayTimer.Start(ShowAlarmTicks)
			return nil
		}
		c.setState(ShowSnooze)
		c.displayTimer.Start(ShowSnoozeTicks)
		if c.alarm == AlarmActive {
			return c.snoozeAlarm()
		}
	case ShowAlarm:
		c.enterMenu(false)
	case Cancelled:
		c.displayTimer.Cancel()
		c.setState(Running)
	case MenuAlarmDays, SetupMenuAlarmPattern:
		return c.exitMenu(false)
	case SetupMenuBrightness, SetupMenuDayColourB:
		c.setState(menuNext[c.state])
		c.introTimer.Start(IntroTicks)
	case SetupMenuDayColourIntro, SetupMenuNightColourIntro:
		c.introTimer.Cancel()
		c.setState(menuNext[c.state])
	default:
		if next, ok := menuNext[c.state]; ok {
			c.setState(next)
		}
	}
	return nil
}

func (c *Clock) doubleClick() []Command {
	switch {
	case c.state == Running || c.state == ShowAlarm:
		c.enterMenu(false)
	case c.state == ShowSnooze:
		if c.alarm != AlarmInactive {
			return c.stopAlarm()
		}
	case c.state.InMenu():
		return c.exitMenu(false)
	}
	return nil
}

func (c *Clock) longPress() []Command {
	if !c.state.InMenu() {
		return nil
	}
	cmds := c.exitMenu(true)
	c.setState(Cancelled)
	c.displayTimer.Start(CancelledTicks)
	return cmds
}

// enterMenu opens an editing session on a copy of the committed configuration.
func (c *Clock) enterMenu(setup bool) {
	c.editor.BeginEdit(c.editor.Committed())
	c.displayTimer.Cancel()
	c.introTimer.Cancel()
	c.step = 0

	switch {
	case !setup:
		c.setState(MenuAlarmMinutes)
	case c.editor.Committed().IsRadioInstalled:
		c.setState(SetupMenuRadioWhole)
	default:
		c.setState(SetupMenu1224Hours)
	}
}

func (c *Clock) exitMenu(discard bool) []Command {
	c.introTimer.Cancel()
	c.setState(Running)
	c.step = 0
	if !c.editor.CommitOrDiscard(discard) {
		return nil
	}

	cfg := c.editor.Committed()
	c.log.Info().Str("alarm_activation", cfg.AlarmActivation.String()).Int("alarm_time", cfg.AlarmTime).Msg("Configuration changed from menu")
	if c.timeKnown {
		c.checkDaytime()
	}
	return []Command{PersistConfig{Config: cfg}}
}

func (c *Clock) rotate(delta int) []Command {
	if delta == 0 {
		return nil
	}
	sh := c.editor.Shadow()

	switch c.state {
	case ShowSnooze:
		if c.alarm != AlarmSnooze {
			return nil
		}
		c.snoozeRemaining += delta * 60
		if c.snoozeRemaining <= 0 {
			return c.stopAlarm()
		}
		if c.snoozeRemaining > MaxSnooze {
			c.snoozeRemaining = MaxSnooze
		}
	case MenuAlarmMinutes:
		sh.AlarmTime = wrap(sh.AlarmTime+delta, model.MinutesPerDay)
	case MenuAlarmHours:
		hour, minute := sh.AlarmTime/60, sh.AlarmTime%60
		sh.AlarmTime = wrap(hour+delta, 24)*60 + minute
	case MenuAlarmDays:
		i := 0
		for j, a := range activationCycle {
			if a == sh.AlarmActivation {
				i = j
			}
		}
		sh.AlarmActivation = activationCycle[wrap(i+delta, len(activationCycle))]
	case SetupMenuRadioWhole:
		whole, frac := sh.RadioFrequency/10, sh.RadioFrequency%10
		span := model.MaxRadioWhole - model.MinRadioWhole + 1
		whole = wrap(whole-model.MinRadioWhole+delta, span) + model.MinRadioWhole
		sh.RadioFrequency = whole*10 + frac
	case SetupMenuRadioFraction:
		whole, frac := sh.RadioFrequency/10, sh.RadioFrequency%10
		sh.RadioFrequency = whole*10 + wrap(frac+delta, 10)
	case SetupMenu1224Hours:
		if delta%2 != 0 {
			sh.Is24Hour = !sh.Is24Hour
		}
	case SetupMenuBrightness:
		sh.Brightness = wrap(sh.Brightness-model.MinBrightness+delta, model.MaxBrightness) + model.MinBrightness
	case SetupMenuDayColourR:
		sh.DayColour.R = addChannel(sh.DayColour.R, delta)
	case SetupMenuDayColourG:
		sh.DayColour.G = addChannel(sh.DayColour.G, delta)
	case SetupMenuDayColourB:
		sh.DayColour.B = addChannel(sh.DayColour.B, delta)
	case SetupMenuNightColourR:
		sh.NightColour.R = addChannel(sh.NightColour.R, delta)
	case SetupMenuNightColourG:
		sh.NightColour.G = addChannel(sh.NightColour.G, delta)
	case SetupMenuNightColourB:
		sh.NightColour.B = addChannel(sh.NightColour.B, delta)
	case SetupMenuAlarmPattern:
		sh.AlarmPattern = model.DisplayPattern(wrap(int(sh.AlarmPattern)+delta, model.AlarmPatternCount))
	}
	return nil
}

// wrap returns v modulo n in [0, n).
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// addChannel adds delta with 8-bit wraparound.
func addChannel(ch uint8, delta int) uint8 {
	return uint8(int(ch) + delta)
}
