package clock

import (
	"github.com/thatsimonsguy/ledclock/internal/model"
	"github.com/thatsimonsguy/ledclock/internal/render"
)

var dashes = render.Scene{Digits: [4]render.Glyph{render.GlyphDash, render.GlyphDash, render.GlyphDash, render.GlyphDash}}

// View describes what the face should show this tick. It returns false when
// the state has nothing to draw.
func (c *Clock) View() (render.View, bool) {
	cfg := c.editor.Committed()
	sh := c.editor.Shadow()

	pattern := c.pattern()
	v := render.View{Pattern: pattern, Step: wrapStep(pattern, c.step)}
	switch {
	case c.inSession():
		v.Colour = model.White
	case c.alarm == AlarmActive:
		v.Colour = cfg.AlarmColour
	case c.daytime:
		v.Colour = cfg.DayColour
	default:
		v.Colour = cfg.NightColour
	}

	alarmSet := cfg.AlarmActivation != model.AlarmDisabled && c.switchEnabled

	switch c.state {
	case Initialising, Cancelled:
		v.Scene = dashes
	case Running:
		if !c.timeKnown {
			v.Scene = dashes
			break
		}
		v.Scene = timeScene(c.hour, c.minute, cfg.Is24Hour)
		v.AlarmSet = alarmSet
	case ShowIP1, ShowIP2, ShowIP3, ShowIP4:
		v.Scene = numberScene(int(c.ip[c.state-ShowIP1]))
	case ShowSnooze:
		v.Scene = timeScene(c.snoozeRemaining/60, c.snoozeRemaining%60, true)
		v.AlarmSet = alarmSet
	case ShowAlarm:
		v.Scene = timeScene(cfg.AlarmTime/60, cfg.AlarmTime%60, cfg.Is24Hour)
		v.AlarmSet = alarmSet
	case MenuAlarmMinutes, MenuAlarmHours:
		v.Scene = timeScene(sh.AlarmTime/60, sh.AlarmTime%60, sh.Is24Hour)
		v.AlarmSet = sh.AlarmActivation != model.AlarmDisabled
		v.Focus = render.FocusMinutes
		if c.state == MenuAlarmHours {
			v.Focus = render.FocusHours
		}
	case MenuAlarmDays:
		v.Scene = daysScene(sh.AlarmActivation)
	case SetupMenuRadioWhole, SetupMenuRadioFraction:
		v.Scene = radioScene(*sh)
		v.Focus = render.FocusRadioWhole
		if c.state == SetupMenuRadioFraction {
			v.Focus = render.FocusRadioFraction
		}
	case SetupMenu1224Hours:
		if sh.Is24Hour {
			v.Scene = glyphs(render.GlyphBlank, render.Glyph2, render.Glyph4, render.GlyphH)
		} else {
			v.Scene = glyphs(render.GlyphBlank, render.Glyph1, render.Glyph2, render.GlyphH)
		}
	case SetupMenuBrightness:
		v.Scene = glyphs(render.Glyphb, render.Glyphr, render.Glyphi, render.Hex(sh.Brightness))
	case SetupMenuDayColourIntro, SetupMenuNightColourIntro:
		v.Scene = glyphs(render.Glyphc, render.Glyph0, render.GlyphL, render.Glyphd)
		v.Pattern, v.Colour = model.SolidColour, sh.DayColour
		if c.state == SetupMenuNightColourIntro {
			v.Scene.Digits[3] = render.Glyphn
			v.Colour = sh.NightColour
		}
	case SetupMenuDayColourR, SetupMenuNightColourR:
		v.Scene = channelScene(render.Glyphr, channel(*sh, c.state))
		v.Focus = render.FocusRed
	case SetupMenuDayColourG, SetupMenuNightColourG:
		v.Scene = channelScene(render.GlyphG, channel(*sh, c.state))
		v.Focus = render.FocusGreen
	case SetupMenuDayColourB, SetupMenuNightColourB:
		v.Scene = channelScene(render.Glyphb, channel(*sh, c.state))
		v.Focus = render.FocusBlue
	case SetupMenuAlarmPattern:
		v.Scene = glyphs(render.GlyphA, render.GlyphBlank, render.GlyphBlank, render.Digit(int(sh.AlarmPattern)))
		v.Colour = sh.AlarmColour
	default:
		return render.View{}, false
	}
	return v, true
}

// wrapStep keeps a step carried over from another pattern inside this
// pattern's period.
func wrapStep(p model.DisplayPattern, step int) int {
	if period := render.Period(p); period > 0 {
		return step % period
	}
	return step
}

func glyphs(a, b, c, d render.Glyph) render.Scene {
	return render.Scene{Digits: [4]render.Glyph{a, b, c, d}}
}

// timeScene lays out h:mm, blanking a leading zero hour and marking PM in
// 12-hour mode.
func timeScene(hour, minute int, is24 bool) render.Scene {
	pm := hour >= 12
	if !is24 {
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}
	s := render.Scene{Colon: true, PM: !is24 && pm}
	s.Digits[0] = render.GlyphBlank
	if hour >= 10 {
		s.Digits[0] = render.Digit(hour / 10)
	}
	s.Digits[1] = render.Digit(hour)
	s.Digits[2] = render.Digit(minute / 10)
	s.Digits[3] = render.Digit(minute)
	return s
}

// numberScene right-aligns n (0..255) with leading zeros blanked.
func numberScene(n int) render.Scene {
	s := glyphs(render.GlyphBlank, render.GlyphBlank, render.GlyphBlank, render.Digit(n))
	if n >= 100 {
		s.Digits[1] = render.Digit(n / 100)
	}
	if n >= 10 {
		s.Digits[2] = render.Digit(n / 10)
	}
	return s
}

func daysScene(a model.AlarmActivation) render.Scene {
	var s render.Scene
	switch a {
	case model.Weekdays:
		s = glyphs(render.GlyphBlank, render.Glyph1, render.GlyphDash, render.Glyph5)
	case model.AllDays:
		s = glyphs(render.GlyphBlank, render.Glyph0, render.GlyphDash, render.Glyph6)
	case model.OneTime:
		s = glyphs(render.Glyph0, render.Glyphn, render.Glyphc, render.GlyphE)
	default:
		return glyphs(render.GlyphBlank, render.Glyph0, render.GlyphF, render.GlyphF)
	}
	s.AlarmSet = true
	return s
}

// radioScene shows the frequency in tenths of MHz, or r0FF when the radio is
// not used for the alarm.
func radioScene(cfg model.Configuration) render.Scene {
	if !cfg.IsUseRadio {
		return glyphs(render.Glyphr, render.Glyph0, render.GlyphF, render.GlyphF)
	}
	f := cfg.RadioFrequency
	s := glyphs(render.GlyphBlank, render.Digit(f/100), render.Digit(f/10), render.Digit(f))
	if f >= 1000 {
		s.Digits[0] = render.Digit(f / 1000)
	}
	return s
}

func channelScene(label render.Glyph, value uint8) render.Scene {
	s := numberScene(int(value))
	s.Digits[0] = label
	return s
}

func channel(cfg model.Configuration, s State) uint8 {
	switch s {
	case SetupMenuDayColourR:
		return cfg.DayColour.R
	case SetupMenuDayColourG:
		return cfg.DayColour.G
	case SetupMenuDayColourB:
		return cfg.DayColour.B
	case SetupMenuNightColourR:
		return cfg.NightColour.R
	case SetupMenuNightColourG:
		return cfg.NightColour.G
	default:
		return cfg.NightColour.B
	}
}
