package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS configuration (
	id INTEGER PRIMARY KEY CHECK(id=1),
	device_name TEXT NOT NULL,
	alarm_time INTEGER NOT NULL,
	alarm_activation TEXT NOT NULL,
	radio_frequency INTEGER NOT NULL,
	brightness INTEGER NOT NULL,
	day_colour TEXT NOT NULL,
	night_colour TEXT NOT NULL,
	alarm_colour TEXT NOT NULL,
	day_pattern TEXT NOT NULL,
	night_pattern TEXT NOT NULL,
	alarm_pattern TEXT NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	timezone TEXT NOT NULL,
	offset_hours INTEGER NOT NULL,
	is_alarm_disabled BOOLEAN NOT NULL DEFAULT FALSE,
	is_radio_installed BOOLEAN NOT NULL DEFAULT TRUE,
	is_24_hour BOOLEAN NOT NULL DEFAULT TRUE,
	is_use_radio BOOLEAN NOT NULL DEFAULT FALSE,
	version TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS alarm_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	at TEXT NOT NULL,
	use_radio BOOLEAN NOT NULL DEFAULT FALSE
);
`

// Open opens the database at path and makes sure the schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)
	if err := ApplyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SeedDatabase inserts cfg as the configuration record unless one exists. It
// reports whether a record was written.
func SeedDatabase(db *sql.DB, cfg model.Configuration) (bool, error) {
	tx, err := StartTransaction(db)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM configuration`).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count configuration rows: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if err := SaveConfigurationWithTx(tx, cfg); err != nil {
		return false, err
	}
	if err := CommitTransaction(tx); err != nil {
		return false, err
	}

	log.Info().Str("device", cfg.DeviceName).Msg("Database seeded with default configuration")
	return true, nil
}
