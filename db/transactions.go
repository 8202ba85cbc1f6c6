package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

// StartTransaction starts a new database transaction.
func StartTransaction(db *sql.DB) (*sql.Tx, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	return tx, nil
}

// CommitTransaction commits the given transaction.
func CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction rolls back the given transaction.
func RollbackTransaction(tx *sql.Tx) {
	tx.Rollback()
}

func SaveConfiguration(db *sql.DB, cfg model.Configuration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	if err := SaveConfigurationWithTx(tx, cfg); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func SaveConfigurationWithTx(tx *sql.Tx, cfg model.Configuration) error {
	_, err := tx.Exec(`INSERT OR REPLACE INTO configuration (id, device_name, alarm_time, alarm_activation,
		radio_frequency, brightness, day_colour, night_colour, alarm_colour,
		day_pattern, night_pattern, alarm_pattern, latitude, longitude, timezone, offset_hours,
		is_alarm_disabled, is_radio_installed, is_24_hour, is_use_radio, version)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.DeviceName, cfg.AlarmTime, cfg.AlarmActivation.String(),
		cfg.RadioFrequency, cfg.Brightness,
		marshalJSON(cfg.DayColour), marshalJSON(cfg.NightColour), marshalJSON(cfg.AlarmColour),
		cfg.DayPattern.String(), cfg.NightPattern.String(), cfg.AlarmPattern.String(),
		cfg.Latitude, cfg.Longitude, cfg.Timezone, cfg.Offset,
		cfg.IsAlarmDisabled, cfg.IsRadioInstalled, cfg.Is24Hour, cfg.IsUseRadio, model.ConfigVersion)
	if err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	return nil
}

func RecordAlarmEvent(db *sql.DB, kind model.AlarmEventKind, at time.Time, useRadio bool) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO alarm_events (kind, at, use_radio) VALUES (?, ?, ?)`,
		string(kind), at.UTC().Format(time.RFC3339), useRadio)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("record alarm event: %w", err)
	}
	return tx.Commit()
}

// PruneAlarmEvents keeps only the newest keep rows.
func PruneAlarmEvents(db *sql.DB, keep int) (int64, error) {
	res, err := db.Exec(`DELETE FROM alarm_events WHERE id NOT IN (SELECT id FROM alarm_events ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune alarm events: %w", err)
	}
	return res.RowsAffected()
}

func marshalJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
