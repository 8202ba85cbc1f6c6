package engine

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/thatsimonsguy/ledclock/internal/datadog"
)

// health logs a collaborator failure once when it starts and once when it
// clears, so a broken sensor does not flood the log at the tick rate.
type health struct {
	log     zerolog.Logger
	mu      sync.Mutex
	failing map[string]bool
}

func newHealth(l zerolog.Logger) *health {
	return &health{log: l, failing: map[string]bool{}}
}

func (h *health) report(port string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err != nil {
		datadog.Incr("engine.error", "port:"+port)
		if !h.failing[port] {
			h.failing[port] = true
			h.log.Error().Err(err).Str("port", port).Msg("Collaborator failed")
		}
		return
	}
	if h.failing[port] {
		delete(h.failing, port)
		h.log.Info().Str("port", port).Msg("Collaborator recovered")
	}
}

func (h *health) Failing(port string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failing[port]
}
