package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thatsimonsguy/ledclock/db"
	"github.com/thatsimonsguy/ledclock/internal/config"
	"github.com/thatsimonsguy/ledclock/internal/pinctrl"
	"github.com/thatsimonsguy/ledclock/internal/store"
	"github.com/thatsimonsguy/ledclock/system/startup"
)

func main() {
	DebugCLI()
}

func DebugCLI() {
	var dbPath, command, alarmTime, activation, file, configFile string
	var brightness, limit int
	flag.StringVar(&dbPath, "db", "data/ledclock.db", "Path to the SQLite database file")
	flag.StringVar(&command, "cmd", "", "Command to run: show-config, set-alarm, set-brightness, history, export-config, import-config, install-service, check-pins, apply-pins")
	flag.StringVar(&alarmTime, "time", "", "Alarm time as HH:MM")
	flag.StringVar(&activation, "days", "ALL_DAYS", "Alarm activation: ALARM_DISABLED, ONE_TIME, WEEKDAYS, ALL_DAYS")
	flag.IntVar(&brightness, "brightness", 0, "Brightness 1-15")
	flag.IntVar(&limit, "limit", 20, "Number of history entries")
	flag.StringVar(&file, "file", "config-backup.json", "JSON file for export-config and import-config")
	flag.StringVar(&configFile, "config-file", "config.json", "Process config for install-service")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help || command == "" {
		fmt.Println("\nUsage of ledclock-debug:")
		fmt.Println("  -db string\tPath to the SQLite database file (default 'data/ledclock.db')")
		fmt.Println("  -cmd string\tCommand to run: show-config, set-alarm, set-brightness, history, export-config, import-config, install-service, check-pins, apply-pins")
		fmt.Println("  -time string\tAlarm time as HH:MM for set-alarm")
		fmt.Println("  -days string\tAlarm activation for set-alarm (default ALL_DAYS)")
		fmt.Println("  -brightness int\tBrightness 1-15 for set-brightness")
		fmt.Println("  -limit int\tNumber of history entries (default 20)")
		fmt.Println("  -file string\tJSON file for export-config and import-config")
		fmt.Println("  -config-file string\tProcess config for install-service, check-pins and apply-pins")
		fmt.Println("  -help\tShow this help message")
		os.Exit(0)
	}

	var err error
	switch command {
	case "show-config":
		err = showConfig(dbPath)
	case "set-alarm":
		if alarmTime == "" {
			fmt.Println("Error: -time is required")
			os.Exit(1)
		}
		err = db.SetAlarmCLI(dbPath, alarmTime, activation)
	case "set-brightness":
		err = db.SetBrightnessCLI(dbPath, brightness)
	case "history":
		err = showHistory(dbPath, limit)
	case "export-config":
		err = exportConfig(dbPath, file)
	case "import-config":
		err = importConfig(dbPath, file)
	case "install-service":
		err = installService(configFile, dbPath)
	case "check-pins":
		err = checkPins(configFile)
	case "apply-pins":
		err = applyPins(configFile)
	default:
		fmt.Println("Invalid command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Command %s failed: %v\n", command, err)
		os.Exit(1)
	}
	fmt.Printf("Command %s completed successfully\n", command)
}

func showConfig(dbPath string) error {
	cfg, err := db.ShowConfigCLI(dbPath)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func showHistory(dbPath string, limit int) error {
	events, err := db.AlarmHistoryCLI(dbPath, limit)
	if err != nil {
		return err
	}
	for _, e := range events {
		source := "buzzer"
		if e.UseRadio {
			source = "radio"
		}
		fmt.Printf("%5d  %s  %-8s %s\n", e.ID, e.At.Local().Format("2006-01-02 15:04:05"), e.Kind, source)
	}
	return nil
}

func exportConfig(dbPath, file string) error {
	cfg, err := db.ShowConfigCLI(dbPath)
	if err != nil {
		return err
	}
	return store.New(file).Save(cfg)
}

func importConfig(dbPath, file string) error {
	cfg, fixed, err := store.New(file).Load()
	if err != nil {
		return err
	}
	if len(fixed) > 0 {
		fmt.Printf("Replaced invalid fields with defaults: %v\n", fixed)
	}
	return db.ImportConfigCLI(dbPath, cfg)
}

func installService(configFile, dbPath string) error {
	cfg, err := config.FromFile(configFile)
	if err != nil {
		return err
	}
	if cfg.ConfigFile, err = filepath.Abs(configFile); err != nil {
		return err
	}
	if cfg.DBPath, err = filepath.Abs(dbPath); err != nil {
		return err
	}
	binary, err := os.Executable()
	if err != nil {
		return err
	}
	binary = filepath.Join(filepath.Dir(binary), "ledclock")

	if err := startup.WriteStartupScript(&cfg); err != nil {
		return fmt.Errorf("write boot script: %w", err)
	}
	if err := startup.InstallStartupService(&cfg); err != nil {
		return fmt.Errorf("install boot service: %w", err)
	}
	if err := startup.InstallClockService(&cfg, binary); err != nil {
		return fmt.Errorf("install clock service: %w", err)
	}
	return nil
}

// checkPins compares the live pin state with the boot plan, which catches a
// boot script that never ran.
func checkPins(configFile string) error {
	cfg, err := config.FromFile(configFile)
	if err != nil {
		return err
	}
	states, err := pinctrl.ReadAllPins()
	if err != nil {
		return err
	}
	bad := pinctrl.Verify(states, pinctrl.BootPlan(cfg.GPIO))
	for _, b := range bad {
		fmt.Println(b)
	}
	if len(bad) > 0 {
		return fmt.Errorf("%d pins differ from the boot plan", len(bad))
	}
	return nil
}

func applyPins(configFile string) error {
	cfg, err := config.FromFile(configFile)
	if err != nil {
		return err
	}
	return pinctrl.Apply(pinctrl.BootPlan(cfg.GPIO))
}
