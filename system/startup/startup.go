package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thatsimonsguy/ledclock/internal/config"
	"github.com/thatsimonsguy/ledclock/internal/pinctrl"
)

// WriteStartupScript writes a script that holds the buzzer low and parks the
// encoder inputs with pull-ups before the clock service starts, so the buzzer
// does not sound while the board boots.
func WriteStartupScript(cfg *config.Config) error {
	var lines []string
	lines = append(lines, "#!/bin/bash", "", "# LED clock GPIO state at boot", "")

	for _, p := range pinctrl.BootPlan(cfg.GPIO) {
		lines = append(lines, fmt.Sprintf("# %s", p.Label))
		lines = append(lines, fmt.Sprintf("pinctrl set %d %s", p.Pin, strings.Join(p.Args(), " ")))
		lines = append(lines, "")
	}

	contents := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(cfg.BootScriptPath, []byte(contents), 0755)
}

func InstallStartupService(cfg *config.Config) error {
	unitContents := fmt.Sprintf(`[Unit]
Description=Configure LED clock GPIO pins at boot
After=local-fs.target

[Service]
Type=oneshot
Environment=PATH=/usr/local/bin:/usr/bin:/bin
ExecStart=%s
RemainAfterExit=true

[Install]
WantedBy=multi-user.target
`, cfg.BootScriptPath)

	return os.WriteFile(cfg.BootServicePath, []byte(unitContents), 0644)
}

// InstallClockService writes the unit for the clock itself, ordered after the
// boot pin script and the time sync target.
func InstallClockService(cfg *config.Config, binary string) error {
	bootUnit := filepath.Base(cfg.BootServicePath)

	user := cfg.ServiceUser
	if user == "" {
		user = "root"
	}
	workdir := cfg.ServiceWorkdir
	if workdir == "" {
		workdir = filepath.Dir(binary)
	}

	unit := fmt.Sprintf(`[Unit]
Description=LED alarm clock
After=%s network-online.target time-sync.target
Requires=%s

[Service]
Type=simple
User=%s
WorkingDirectory=%s
ExecStart=%s -config-file %s -db %s
Restart=on-failure
RestartSec=5s

[Install]
WantedBy=multi-user.target
`, bootUnit, bootUnit, user, workdir, binary, cfg.ConfigFile, cfg.DBPath)

	return os.WriteFile(cfg.MainServicePath, []byte(unit), 0644)
}
