package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ledclock/db"
	"github.com/thatsimonsguy/ledclock/internal/alarm"
	"github.com/thatsimonsguy/ledclock/internal/ambient"
	"github.com/thatsimonsguy/ledclock/internal/api"
	"github.com/thatsimonsguy/ledclock/internal/clock"
	"github.com/thatsimonsguy/ledclock/internal/config"
	"github.com/thatsimonsguy/ledclock/internal/datadog"
	"github.com/thatsimonsguy/ledclock/internal/engine"
	"github.com/thatsimonsguy/ledclock/internal/env"
	"github.com/thatsimonsguy/ledclock/internal/gpio"
	"github.com/thatsimonsguy/ledclock/internal/input"
	"github.com/thatsimonsguy/ledclock/internal/leds"
	"github.com/thatsimonsguy/ledclock/internal/logging"
	"github.com/thatsimonsguy/ledclock/internal/model"
	"github.com/thatsimonsguy/ledclock/internal/notifications"
	"github.com/thatsimonsguy/ledclock/internal/pinctrl"
	"github.com/thatsimonsguy/ledclock/internal/radio"
	"github.com/thatsimonsguy/ledclock/internal/render"
	"github.com/thatsimonsguy/ledclock/internal/store"
	"github.com/thatsimonsguy/ledclock/internal/sun"
	"github.com/thatsimonsguy/ledclock/system/shutdown"
)

const keepAlarmEvents = 500

func main() {
	cfg := config.Load()
	env.Cfg = &cfg
	logging.Init(cfg.LogLevel, cfg.LogFile)

	log.Info().
		Str("db", cfg.DBPath).
		Int("tick_ms", cfg.TickMillis).
		Msg("Starting LED clock")

	if cfg.SafeMode {
		log.Warn().Msg("SAFE MODE ENABLED: buzzer and radio output are disabled")
	}

	datadog.InitMetrics()
	notifications.Init()
	shutdown.Register("notifications", func() error { notifications.Close(); return nil })

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		shutdown.ShutdownWithError(err, "Failed to open database")
	}
	shutdown.Register("database", dbConn.Close)

	settings := loadConfiguration(dbConn, cfg.BackupFile)
	checkBootPins(cfg.GPIO)

	strip, err := leds.Open(cfg.SPIBus, cfg.LEDSpeedHz)
	if err != nil {
		shutdown.ShutdownWithError(err, "Failed to open LED strip")
	}
	shutdown.Register("leds", func() error {
		if err := strip.Show(render.Frame{}); err != nil {
			log.Warn().Err(err).Msg("Failed to blank LEDs")
		}
		return strip.Close()
	})

	encoder := input.NewEncoder(false, false)
	panel, err := gpio.NewRealPanel(cfg.GPIOChip, pins(cfg.GPIO), encoder)
	if err != nil {
		shutdown.ShutdownWithError(err, "Failed to open GPIO lines")
	}
	shutdown.Register("gpio", panel.Close)

	hw := settings
	if disabled, err := panel.AlarmsDisabled(); err != nil {
		log.Warn().Err(err).Msg("Failed to read no-alarm jumper")
	} else {
		hw.IsAlarmDisabled = disabled
	}

	var fm alarm.Radio
	if tuner, err := openRadio(cfg); err != nil {
		log.Warn().Err(err).Msg("No radio found, alarms use the buzzer")
		hw.IsRadioInstalled = false
	} else {
		fm = tuner
		hw.IsRadioInstalled = true
		shutdown.Register("radio", func() error {
			tuner.SetMute(true)
			return tuner.Close()
		})
	}

	var light engine.LightSensor
	if sensor, err := ambient.Open(cfg.I2CBus, cfg.LightSensorAddr); err != nil {
		log.Warn().Err(err).Msg("No light sensor found, using configured brightness")
	} else {
		light = sensor
		shutdown.Register("light", sensor.Close)
	}

	if hw != settings {
		log.Info().
			Bool("alarm_disabled", hw.IsAlarmDisabled).
			Bool("radio_installed", hw.IsRadioInstalled).
			Msg("Hardware flags changed")
		if err := db.SaveConfiguration(dbConn, hw); err != nil {
			log.Error().Err(err).Msg("Failed to save hardware flags")
		}
		settings = hw
	}

	tick := time.Duration(cfg.TickMillis) * time.Millisecond
	var sounderOpts []alarm.Option
	if cfg.SafeMode {
		sounderOpts = append(sounderOpts, alarm.Silent())
	}
	sounder := alarm.NewSounder(panel, fm, alarm.NewSequencer(tick), sounderOpts...)

	switchOn, err := panel.AlarmSwitchEnabled()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read alarm switch, assuming on")
		switchOn = true
	}

	clk := clock.New(settings,
		clock.WithAlmanac(sun.Almanac{}),
		clock.WithAlarmSwitch(switchOn))

	deps := engine.Deps{
		LEDs:    strip,
		Panel:   panel,
		Light:   light,
		Sounder: sounder,
		Store:   db.Store{DB: dbConn},
	}
	if cfg.MQTTBroker != "" {
		deps.Notifier = engine.NotifierFunc(notifications.Send)
	}

	eng := engine.New(clk, deps,
		engine.WithEncoder(encoder),
		engine.WithTickPeriod(tick),
		engine.WithTimings(input.Timings{
			Debounce:       time.Duration(cfg.DebounceMillis) * time.Millisecond,
			LongPress:      time.Duration(cfg.LongPressMillis) * time.Millisecond,
			DoubleClick:    time.Duration(cfg.DoubleClickMillis) * time.Millisecond,
			StepsPerDetent: cfg.StepsPerDetent,
		}))

	if held, err := panel.ButtonPressed(); err == nil && held {
		log.Info().Msg("Button held at power-on, entering setup")
		eng.Handle(clock.EnterSetup{})
	}
	if ip, ok := localIPv4(); ok {
		log.Info().IPAddr("ip", ip[:]).Msg("Network ready")
		eng.Handle(clock.NetworkReady{IP: ip})
	}

	server := api.NewServer(dbConn, eng)
	go func() {
		if err := server.Start(cfg.HTTPPort); err != nil {
			log.Error().Err(err).Msg("REST API server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng.Run(ctx)
	log.Info().Msg("Received shutdown signal")

	if err := store.New(cfg.BackupFile).Save(eng.Config()); err != nil {
		log.Warn().Err(err).Msg("Failed to write configuration backup")
	}
	shutdown.Shutdown()
}

// loadConfiguration reads the stored record, falling back to the JSON
// backup and then to the defaults.
func loadConfiguration(dbConn *sql.DB, backupPath string) model.Configuration {
	if _, err := db.SeedDatabase(dbConn, model.DefaultConfiguration()); err != nil {
		log.Error().Err(err).Msg("Failed to seed database")
	}
	if n, err := db.PruneAlarmEvents(dbConn, keepAlarmEvents); err != nil {
		log.Warn().Err(err).Msg("Failed to prune alarm history")
	} else if n > 0 {
		log.Info().Int64("removed", n).Msg("Pruned alarm history")
	}

	settings, fixed, err := db.GetConfiguration(dbConn)
	if err == nil {
		if len(fixed) > 0 {
			log.Warn().Strs("fields", fixed).Msg("Replaced invalid configuration fields with defaults")
		}
		return settings
	}
	log.Error().Err(err).Msg("Failed to load configuration")

	settings, fixed, err = store.New(backupPath).Load()
	if err != nil {
		log.Warn().Err(err).Msg("No configuration backup, using defaults")
		return model.DefaultConfiguration()
	}
	if len(fixed) > 0 {
		log.Warn().Strs("fields", fixed).Msg("Replaced invalid backup fields with defaults")
	}
	log.Info().Str("path", backupPath).Msg("Restored configuration from backup")
	return settings
}

func openRadio(cfg config.Config) (*radio.TEA5767, error) {
	tuner, err := radio.Open(cfg.I2CBus, cfg.RadioAddr)
	if err != nil {
		return nil, err
	}
	if err := tuner.Probe(); err != nil {
		tuner.Close()
		return nil, err
	}
	if err := tuner.Init(); err != nil {
		tuner.Close()
		return nil, err
	}
	return tuner, nil
}

// checkBootPins warns when the pins are not in the state the boot script
// leaves them in.
func checkBootPins(g config.GPIO) {
	states, err := pinctrl.ReadAllPins()
	if err != nil {
		log.Debug().Err(err).Msg("Skipping boot pin check")
		return
	}
	if bad := pinctrl.Verify(states, pinctrl.BootPlan(g)); len(bad) > 0 {
		log.Warn().Strs("pins", bad).Msg("GPIO not in boot state, is the boot service installed?")
	}
}

func pins(g config.GPIO) gpio.Pins {
	return gpio.Pins{
		EncoderA:    *g.EncoderA,
		EncoderB:    *g.EncoderB,
		Button:      *g.Button,
		AlarmSwitch: *g.AlarmSwitch,
		NoAlarm:     *g.NoAlarm,
		Buzzer:      *g.Buzzer,
	}
}
