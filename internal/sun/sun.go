// Package sun computes local sunrise and sunset for the day/night switch.
package sun

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Default times used when the sun does not rise or set on a date.
const (
	DefaultSunrise = 6 * 60
	DefaultSunset  = 18 * 60
)

type Almanac struct{}

// SunTimes returns sunrise and sunset on the calendar day of date, as minutes
// of the day in date's location.
func (Almanac) SunTimes(date time.Time, latitude, longitude float64) (int, int) {
	rise, set := sunrise.SunriseSunset(latitude, longitude, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		return DefaultSunrise, DefaultSunset
	}
	return minuteOfDay(rise.In(date.Location())), minuteOfDay(set.In(date.Location()))
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
