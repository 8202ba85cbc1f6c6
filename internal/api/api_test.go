package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/ledclock/db"
	"github.com/thatsimonsguy/ledclock/internal/engine"
	"github.com/thatsimonsguy/ledclock/internal/model"
)

type fakeClock struct {
	config  model.Configuration
	status  engine.Status
	written []model.Configuration
	err     error
}

func (f *fakeClock) Config() model.Configuration { return f.config }
func (f *fakeClock) Status() engine.Status       { return f.status }

func (f *fakeClock) WriteConfig(cfg model.Configuration) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, cfg)
	return nil
}

func setupTestServer(t *testing.T) (*Server, *fakeClock, *sql.DB) {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	clock := &fakeClock{
		config: model.DefaultConfiguration(),
		status: engine.Status{State: "running", Alarm: "inactive", TimeKnown: true, Brightness: 9},
	}
	return NewServer(database, clock), clock, database
}

func do(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestGetConfig(t *testing.T) {
	server, clock, _ := setupTestServer(t)
	clock.config.DeviceName = "Bedroom"
	clock.config.AlarmActivation = model.Weekdays
	clock.config.DayColour = model.Colour{R: 1, G: 2, B: 3}

	w := do(server, http.MethodGet, "/config", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "Bedroom", raw["deviceName"])
	assert.Equal(t, "WEEKDAYS", raw["alarmActivation"])
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, raw["dayColour"])
	assert.Equal(t, "RAINBOW_DIGITS", raw["dayPattern"])
}

func TestWriteConfig(t *testing.T) {
	server, clock, _ := setupTestServer(t)

	body := []byte(`{
		"deviceName": "Spare room",
		"alarmTime": 405,
		"alarmActivation": "ALL_DAYS",
		"radioFrequency": 1011,
		"brightness": 7,
		"dayColour": [255, 200, 0],
		"nightPattern": "PULSING",
		"timezone": "Europe/London",
		"version": "0.1"
	}`)
	w := do(server, http.MethodPost, "/writeConfig", body)
	assert.Equal(t, http.StatusOK, w.Code)

	require.Len(t, clock.written, 1)
	got := clock.written[0]
	assert.Equal(t, "Spare room", got.DeviceName)
	assert.Equal(t, 405, got.AlarmTime)
	assert.Equal(t, model.AllDays, got.AlarmActivation)
	assert.Equal(t, 1011, got.RadioFrequency)
	assert.Equal(t, model.Colour{R: 255, G: 200}, got.DayColour)
	assert.Equal(t, model.Pulsing, got.NightPattern)
	assert.Equal(t, "Europe/London", got.Timezone)
	assert.Equal(t, model.ConfigVersion, got.Version)
}

func TestWriteConfigMissingFieldsAreZero(t *testing.T) {
	server, clock, _ := setupTestServer(t)

	w := do(server, http.MethodPost, "/writeConfig", []byte(`{"deviceName": "Hall", "alarmActivation": "ALL_DAYS"}`))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, clock.written, 1)

	got := clock.written[0]
	assert.Equal(t, "Hall", got.DeviceName)
	assert.Equal(t, model.AllDays, got.AlarmActivation)
	assert.Zero(t, got.AlarmTime)
	assert.Equal(t, model.Black, got.DayColour)
	assert.Equal(t, model.ConfigVersion, got.Version)
}

func TestWriteConfigRejected(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		body    string
		status  int
		message string
	}{
		{"invalid json", http.MethodPost, "not json", http.StatusBadRequest, "Invalid JSON payload"},
		{"missing device name", http.MethodPost, `{"alarmTime": 60}`, http.StatusBadRequest, "Invalid top-level data"},
		{"empty device name", http.MethodPost, `{"deviceName": ""}`, http.StatusBadRequest, "Bad configuration."},
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed, "Method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, clock, _ := setupTestServer(t)

			w := do(server, tt.method, "/writeConfig", []byte(tt.body))
			assert.Equal(t, tt.status, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.message, response.Error)
			assert.Empty(t, clock.written)
		})
	}
}

func TestWriteConfigBusy(t *testing.T) {
	server, clock, _ := setupTestServer(t)
	clock.err = engine.ErrBusy

	w := do(server, http.MethodPost, "/writeConfig", []byte(`{"deviceName": "x"}`))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetStatus(t *testing.T) {
	server, _, _ := setupTestServer(t)

	w := do(server, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var st engine.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "running", st.State)
	assert.True(t, st.TimeKnown)
	assert.Equal(t, 9, st.Brightness)
}

func TestGetHistory(t *testing.T) {
	server, _, database := setupTestServer(t)

	w := do(server, http.MethodGet, "/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	base := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	require.NoError(t, db.RecordAlarmEvent(database, model.AlarmStarted, base, false))
	require.NoError(t, db.RecordAlarmEvent(database, model.AlarmStopped, base.Add(time.Minute), false))

	w = do(server, http.MethodGet, "/history?limit=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var events []model.AlarmEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, model.AlarmStopped, events[0].Kind)

	w = do(server, http.MethodGet, "/history?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreflight(t *testing.T) {
	server, _, _ := setupTestServer(t)

	w := do(server, http.MethodOptions, "/writeConfig", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}
