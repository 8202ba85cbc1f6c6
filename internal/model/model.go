package model

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	MinutesPerDay  = 24 * 60
	MinBrightness  = 1
	MaxBrightness  = 15
	MinRadioWhole  = 88
	MaxRadioWhole  = 107
	ConfigVersion  = "1.0"
	DefaultTZ      = "Australia/Perth"
	DefaultName    = "ESP Clock"
	DefaultLat     = -31.9514
	DefaultLon     = 115.8617
	DefaultOffset  = 8
	DefaultRadioFM = 993
)

type AlarmActivation int

const (
	AlarmDisabled AlarmActivation = iota
	OneTime
	Weekdays
	AllDays
)

var activationNames = [...]string{"ALARM_DISABLED", "ONE_TIME", "WEEKDAYS", "ALL_DAYS"}

func (a AlarmActivation) String() string {
	if a < 0 || int(a) >= len(activationNames) {
		return activationNames[AlarmDisabled]
	}
	return activationNames[a]
}

// ParseAlarmActivation maps unknown names to AlarmDisabled.
func ParseAlarmActivation(s string) AlarmActivation {
	for i, name := range activationNames {
		if name == s {
			return AlarmActivation(i)
		}
	}
	return AlarmDisabled
}

func (a AlarmActivation) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AlarmActivation) UnmarshalText(b []byte) error {
	*a = ParseAlarmActivation(string(b))
	return nil
}

type DisplayPattern int

const (
	SolidColour DisplayPattern = iota
	RainbowDigits
	RainbowSegments
	Flashing
	Pulsing
	Menu
)

// AlarmPatternCount is the number of patterns selectable for the alarm; Menu is excluded.
const AlarmPatternCount = int(Menu)

var patternNames = [...]string{"SOLID_COLOUR", "RAINBOW_DIGITS", "RAINBOW_SEGMENTS", "FLASHING", "PULSING", "MENU"}

func (p DisplayPattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return patternNames[SolidColour]
	}
	return patternNames[p]
}

// ParseDisplayPattern maps unknown names to SolidColour.
func ParseDisplayPattern(s string) DisplayPattern {
	for i, name := range patternNames {
		if name == s {
			return DisplayPattern(i)
		}
	}
	return SolidColour
}

func (p DisplayPattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *DisplayPattern) UnmarshalText(b []byte) error {
	*p = ParseDisplayPattern(string(b))
	return nil
}

type Colour struct {
	R, G, B uint8
}

var (
	White = Colour{255, 255, 255}
	Red   = Colour{255, 0, 0}
	Green = Colour{0, 255, 0}
	Blue  = Colour{0, 0, 255}
	Black = Colour{}
)

func (c Colour) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

// UnmarshalJSON accepts [r,g,b] with channels in 0..255; any other shape or
// an out-of-range channel yields white.
func (c *Colour) UnmarshalJSON(b []byte) error {
	var arr []int
	if err := json.Unmarshal(b, &arr); err != nil || len(arr) != 3 {
		*c = White
		return nil
	}
	for _, v := range arr {
		if v < 0 || v > 255 {
			*c = White
			return nil
		}
	}
	*c = Colour{uint8(arr[0]), uint8(arr[1]), uint8(arr[2])}
	return nil
}

func (c Colour) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Configuration is the persisted appliance record. It holds only comparable
// fields so two records can be checked with ==.
type Configuration struct {
	DeviceName       string          `json:"deviceName"`
	AlarmTime        int             `json:"alarmTime"`
	AlarmActivation  AlarmActivation `json:"alarmActivation"`
	RadioFrequency   int             `json:"radioFrequency"`
	Brightness       int             `json:"brightness"`
	DayColour        Colour          `json:"dayColour"`
	NightColour      Colour          `json:"nightColour"`
	AlarmColour      Colour          `json:"alarmColour"`
	DayPattern       DisplayPattern  `json:"dayPattern"`
	NightPattern     DisplayPattern  `json:"nightPattern"`
	AlarmPattern     DisplayPattern  `json:"alarmPattern"`
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	Timezone         string          `json:"timezone"`
	Offset           int             `json:"offset"`
	IsAlarmDisabled  bool            `json:"isAlarmDisabled"`
	IsRadioInstalled bool            `json:"isRadioInstalled"`
	Is24Hour         bool            `json:"is24Hour"`
	IsUseRadio       bool            `json:"isUseRadio"`
	Version          string          `json:"version"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		DeviceName:       DefaultName,
		AlarmTime:        6 * 60,
		AlarmActivation:  AlarmDisabled,
		RadioFrequency:   DefaultRadioFM,
		Brightness:       MaxBrightness,
		DayColour:        White,
		NightColour:      Red,
		AlarmColour:      Blue,
		DayPattern:       RainbowDigits,
		NightPattern:     SolidColour,
		AlarmPattern:     RainbowDigits,
		Latitude:         DefaultLat,
		Longitude:        DefaultLon,
		Timezone:         DefaultTZ,
		Offset:           DefaultOffset,
		IsRadioInstalled: true,
		Is24Hour:         true,
		Version:          ConfigVersion,
	}
}

// Sanitise replaces out-of-range fields with their defaults and returns the
// JSON names of the fields it replaced.
func (c *Configuration) Sanitise() []string {
	def := DefaultConfiguration()
	var fixed []string

	if c.DeviceName == "" {
		c.DeviceName = def.DeviceName
		fixed = append(fixed, "deviceName")
	}
	if c.AlarmTime < 0 || c.AlarmTime >= MinutesPerDay {
		c.AlarmTime = def.AlarmTime
		fixed = append(fixed, "alarmTime")
	}
	if c.AlarmActivation < AlarmDisabled || c.AlarmActivation > AllDays {
		c.AlarmActivation = def.AlarmActivation
		fixed = append(fixed, "alarmActivation")
	}
	if w := c.RadioFrequency / 10; w < MinRadioWhole || w > MaxRadioWhole {
		c.RadioFrequency = def.RadioFrequency
		fixed = append(fixed, "radioFrequency")
	}
	if c.Brightness < MinBrightness || c.Brightness > MaxBrightness {
		c.Brightness = def.Brightness
		fixed = append(fixed, "brightness")
	}
	if c.DayPattern < SolidColour || c.DayPattern >= Menu {
		c.DayPattern = def.DayPattern
		fixed = append(fixed, "dayPattern")
	}
	if c.NightPattern < SolidColour || c.NightPattern >= Menu {
		c.NightPattern = def.NightPattern
		fixed = append(fixed, "nightPattern")
	}
	if c.AlarmPattern < SolidColour || c.AlarmPattern >= Menu {
		c.AlarmPattern = def.AlarmPattern
		fixed = append(fixed, "alarmPattern")
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		c.Latitude, c.Longitude = def.Latitude, def.Longitude
		fixed = append(fixed, "latitude", "longitude")
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
		fixed = append(fixed, "timezone")
	}
	if c.Offset < -12 || c.Offset > 14 {
		c.Offset = def.Offset
		fixed = append(fixed, "offset")
	}
	c.Version = ConfigVersion

	return fixed
}

// AlarmToday reports whether the activation mode allows an alarm on the given
// weekday (0 = Sunday).
func (c Configuration) AlarmToday(weekday int) bool {
	switch c.AlarmActivation {
	case AllDays, OneTime:
		return true
	case Weekdays:
		return weekday != 0 && weekday != 6
	default:
		return false
	}
}

// AlarmEventKind names a step in the alarm cycle recorded in the history.
type AlarmEventKind string

const (
	AlarmStarted AlarmEventKind = "started"
	AlarmSnoozed AlarmEventKind = "snoozed"
	AlarmStopped AlarmEventKind = "stopped"
)

type AlarmEvent struct {
	ID       int64          `json:"id"`
	Kind     AlarmEventKind `json:"kind"`
	At       time.Time      `json:"at"`
	UseRadio bool           `json:"useRadio"`
}
