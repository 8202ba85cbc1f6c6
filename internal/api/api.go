package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ledclock/db"
	"github.com/thatsimonsguy/ledclock/internal/engine"
	"github.com/thatsimonsguy/ledclock/internal/model"
)

const defaultHistoryLimit = 20

// Clock is the part of the engine the API reads and writes.
type Clock interface {
	Config() model.Configuration
	Status() engine.Status
	WriteConfig(model.Configuration) error
}

type Server struct {
	db    *sql.DB
	clock Clock
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewServer(database *sql.DB, clock Clock) *Server {
	return &Server{
		db:    database,
		clock: clock,
	}
}

// Handler returns the routes wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/config", s.handleConfig)
	mux.HandleFunc("/writeConfig", s.handleWriteConfig)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/history", s.handleHistory)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Info().Str("address", addr).Msg("Starting REST API server")

	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.clock.Config())
}

// handleWriteConfig replaces the whole configuration. Missing fields are
// written as their zero value, as the firmware did; the hardware flags are
// kept by the clock.
func (s *Server) handleWriteConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if _, ok := top["deviceName"]; !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid top-level data")
		return
	}

	var cfg model.Configuration
	if err := json.Unmarshal(body, &cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if cfg.DeviceName == "" {
		s.writeError(w, http.StatusBadRequest, "Bad configuration.")
		return
	}
	cfg.Version = model.ConfigVersion

	if err := s.clock.WriteConfig(cfg); err != nil {
		if errors.Is(err, engine.ErrBusy) {
			s.writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to queue configuration write")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().Str("device", cfg.DeviceName).Msg("Configuration written via API")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.clock.Status())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	events, err := db.GetAlarmHistory(s.db, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get alarm history")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []model.AlarmEvent{}
	}
	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
