// Package store reads and writes the configuration as a JSON file in the
// same shape the HTTP API serves, for backups and for moving a setup between
// clocks.
package store

import (
	"encoding/json"
	"os"

	"github.com/thatsimonsguy/ledclock/internal/model"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load decodes the file over the defaults so missing fields keep their
// default values, then sanitises the result.
func (s *Store) Load() (model.Configuration, []string, error) {
	cfg := model.DefaultConfiguration()

	file, err := os.Open(s.path)
	if err != nil {
		return cfg, nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return model.DefaultConfiguration(), nil, err
	}
	fixed := cfg.Sanitise()
	return cfg, fixed, nil
}

func (s *Store) Save(cfg model.Configuration) error {
	tmpPath := s.path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		file.Close()
		return err
	}
	file.Sync()
	file.Close()

	return os.Rename(tmpPath, s.path)
}
