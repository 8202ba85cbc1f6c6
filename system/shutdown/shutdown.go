package shutdown

import (
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// ExitFunc is replaced in tests.
var ExitFunc = os.Exit

type closer struct {
	name string
	fn   func() error
}

var (
	mu      sync.Mutex
	closers []closer
)

// Register adds a cleanup step, such as blanking the LEDs or releasing the
// buzzer line. Steps run once, newest first.
func Register(name string, fn func() error) {
	mu.Lock()
	defer mu.Unlock()
	closers = append(closers, closer{name: name, fn: fn})
}

// Release runs the registered cleanup steps without exiting.
func Release() {
	mu.Lock()
	pending := closers
	closers = nil
	mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		c := pending[i]
		if err := c.fn(); err != nil {
			log.Warn().Err(err).Str("step", c.name).Msg("Cleanup step failed")
			continue
		}
		log.Info().Str("step", c.name).Msg("Released")
	}
}

func Shutdown() {
	Release()
	log.Info().Msg("Clock stopped")
	ExitFunc(0)
}

func ShutdownWithError(err error, msg string) {
	log.Error().Err(err).Msg(msg)
	Release()
	ExitFunc(1)
}
