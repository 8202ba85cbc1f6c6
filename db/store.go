package db

import (
	"database/sql"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

// Store adapts the database to the clock loop's persistence port.
type Store struct {
	DB *sql.DB
}

func (s Store) SaveConfiguration(cfg model.Configuration) error {
	return SaveConfiguration(s.DB, cfg)
}

func (s Store) RecordAlarmEvent(ev model.AlarmEvent) error {
	return RecordAlarmEvent(s.DB, ev.Kind, ev.At, ev.UseRadio)
}
