package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

func ShowConfigCLI(dbPath string) (model.Configuration, error) {
	dbConn, err := Open(dbPath)
	if err != nil {
		return model.Configuration{}, err
	}
	defer dbConn.Close()

	cfg, _, err := GetConfiguration(dbConn)
	return cfg, err
}

// SetAlarmCLI sets the alarm time from "HH:MM" and the activation by name
// (ALARM_DISABLED, ONE_TIME, WEEKDAYS, ALL_DAYS).
func SetAlarmCLI(dbPath, hhmm, activation string) error {
	minute, err := ParseAlarmTime(hhmm)
	if err != nil {
		return err
	}
	a := model.ParseAlarmActivation(activation)
	if a.String() != activation {
		return fmt.Errorf("unknown alarm activation %q", activation)
	}

	return updateConfigCLI(dbPath, func(cfg *model.Configuration) {
		cfg.AlarmTime = minute
		cfg.AlarmActivation = a
	})
}

func SetBrightnessCLI(dbPath string, brightness int) error {
	if brightness < model.MinBrightness || brightness > model.MaxBrightness {
		return fmt.Errorf("brightness %d outside %d..%d", brightness, model.MinBrightness, model.MaxBrightness)
	}
	return updateConfigCLI(dbPath, func(cfg *model.Configuration) {
		cfg.Brightness = brightness
	})
}

// ImportConfigCLI replaces the stored configuration with cfg, keeping the
// hardware flags the clock detected.
func ImportConfigCLI(dbPath string, imported model.Configuration) error {
	return updateConfigCLI(dbPath, func(cfg *model.Configuration) {
		imported.IsAlarmDisabled = cfg.IsAlarmDisabled
		imported.IsRadioInstalled = cfg.IsRadioInstalled
		*cfg = imported
	})
}

func AlarmHistoryCLI(dbPath string, limit int) ([]model.AlarmEvent, error) {
	dbConn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer dbConn.Close()
	return GetAlarmHistory(dbConn, limit)
}

func updateConfigCLI(dbPath string, edit func(*model.Configuration)) error {
	dbConn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	return updateConfig(dbConn, edit)
}

func updateConfig(dbConn *sql.DB, edit func(*model.Configuration)) error {
	cfg, _, err := GetConfiguration(dbConn)
	if err != nil {
		return err
	}
	edit(&cfg)

	tx, err := StartTransaction(dbConn)
	if err != nil {
		return err
	}
	if err := SaveConfigurationWithTx(tx, cfg); err != nil {
		RollbackTransaction(tx)
		return err
	}
	return CommitTransaction(tx)
}

// ParseAlarmTime converts "HH:MM" to a minute of the day.
func ParseAlarmTime(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("alarm time %q is not HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	return hour*60 + minute, nil
}
