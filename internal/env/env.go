package env

import (
	"github.com/thatsimonsguy/ledclock/internal/config"
)

var Cfg *config.Config
