package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

// GetConfiguration loads the configuration record. Out-of-range fields are
// replaced with defaults and named in the second result.
func GetConfiguration(db *sql.DB) (model.Configuration, []string, error) {
	var (
		cfg                            model.Configuration
		activation                     string
		dayColour, nightColour, alarmC string
		dayPat, nightPat, alarmPat     string
	)
	err := db.QueryRow(`SELECT device_name, alarm_time, alarm_activation, radio_frequency, brightness,
		day_colour, night_colour, alarm_colour, day_pattern, night_pattern, alarm_pattern,
		latitude, longitude, timezone, offset_hours,
		is_alarm_disabled, is_radio_installed, is_24_hour, is_use_radio, version
		FROM configuration WHERE id = 1`).Scan(
		&cfg.DeviceName, &cfg.AlarmTime, &activation, &cfg.RadioFrequency, &cfg.Brightness,
		&dayColour, &nightColour, &alarmC, &dayPat, &nightPat, &alarmPat,
		&cfg.Latitude, &cfg.Longitude, &cfg.Timezone, &cfg.Offset,
		&cfg.IsAlarmDisabled, &cfg.IsRadioInstalled, &cfg.Is24Hour, &cfg.IsUseRadio, &cfg.Version)
	if err != nil {
		return model.Configuration{}, nil, fmt.Errorf("failed to get configuration: %w", err)
	}

	cfg.AlarmActivation = model.ParseAlarmActivation(activation)
	cfg.DayPattern = model.ParseDisplayPattern(dayPat)
	cfg.NightPattern = model.ParseDisplayPattern(nightPat)
	cfg.AlarmPattern = model.ParseDisplayPattern(alarmPat)
	json.Unmarshal([]byte(dayColour), &cfg.DayColour)
	json.Unmarshal([]byte(nightColour), &cfg.NightColour)
	json.Unmarshal([]byte(alarmC), &cfg.AlarmColour)

	fixed := cfg.Sanitise()
	return cfg, fixed, nil
}

// GetAlarmHistory returns the most recent alarm events, newest first.
func GetAlarmHistory(db *sql.DB, limit int) ([]model.AlarmEvent, error) {
	rows, err := db.Query(`SELECT id, kind, at, use_radio FROM alarm_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alarm events: %w", err)
	}
	defer rows.Close()

	var events []model.AlarmEvent
	for rows.Next() {
		var e model.AlarmEvent
		var at string
		if err := rows.Scan(&e.ID, &e.Kind, &at, &e.UseRadio); err != nil {
			return nil, fmt.Errorf("failed to scan alarm event: %w", err)
		}
		e.At, _ = time.Parse(time.RFC3339, at)
		events = append(events, e)
	}
	return events, rows.Err()
}
