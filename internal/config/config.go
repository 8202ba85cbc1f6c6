package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

type GPIO struct {
	// rotary encoder and its push button
	EncoderA *int `json:"encoder_a"`
	EncoderB *int `json:"encoder_b"`
	Button   *int `json:"button"`

	// alarm enable switch on the case, and the jumper that disables alarms
	AlarmSwitch *int `json:"alarm_switch"`
	NoAlarm     *int `json:"no_alarm_jumper"`

	// outputs
	Buzzer *int `json:"buzzer"`
}

type Config struct {
	DBPath     string
	ConfigFile string
	BackupFile string `json:"backup_file"`
	LogFile    string
	LogLevel   zerolog.Level
	SafeMode   bool

	GPIOChip string `json:"gpio_chip"`
	SPIBus   string `json:"spi_bus"`
	I2CBus   string `json:"i2c_bus"`

	TickMillis        int `json:"tick_ms"`
	DebounceMillis    int `json:"debounce_ms"`
	LongPressMillis   int `json:"long_press_ms"`
	DoubleClickMillis int `json:"double_click_ms"`
	StepsPerDetent    int `json:"steps_per_detent"`

	LEDSpeedHz      int64  `json:"led_speed_hz"`
	LightSensorAddr uint16 `json:"light_sensor_addr"`
	RadioAddr       uint16 `json:"radio_addr"`

	HTTPPort int `json:"http_port"`

	MQTTBroker   string `json:"mqtt_broker"`
	MQTTClientID string `json:"mqtt_client_id"`
	MQTTTopic    string `json:"mqtt_topic"`

	EnableDatadog bool     `json:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace"`
	DDTags        []string `json:"dd_tags"`

	ServiceUser     string `json:"service_user"`
	ServiceWorkdir  string `json:"service_workdir"`
	MainServicePath string `json:"main_service_path"`
	BootScriptPath  string `json:"boot_script_path"`
	BootServicePath string `json:"boot_service_path"`

	GPIO GPIO `json:"gpio"`
}

func Load() Config {
	var cfg Config
	var logLevel string

	flag.StringVar(&cfg.ConfigFile, "config-file", "config.json", "Path to clock process config file")
	flag.StringVar(&cfg.DBPath, "db", "data/ledclock.db", "Path to sqlite database")
	flag.StringVar(&cfg.LogFile, "log-file", "/var/log/ledclock.log", "Log file path, empty for stderr")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cfg.SafeMode, "safe-mode", false, "Never drive the buzzer or radio")
	flag.Parse()

	cfg.LogLevel = parseLogLevel(logLevel)

	if err := cfg.readFile(cfg.ConfigFile); err != nil {
		panic(err.Error())
	}
	cfg.validate()
	return cfg
}

// FromFile reads a process config without parsing flags, for the debug tool.
func FromFile(path string) (Config, error) {
	cfg := Config{ConfigFile: path}
	if err := cfg.readFile(path); err != nil {
		return cfg, err
	}
	cfg.validate()
	return cfg, nil
}

func (cfg *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Failed to load config file: %w", err)
	}
	defer file.Close()

	if err := cfg.decode(file); err != nil {
		return fmt.Errorf("Failed to parse config file: %w", err)
	}
	return nil
}

// decode reads the JSON process config and fills unset values with defaults.
func (cfg *Config) decode(r io.Reader) error {
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return err
	}
	cfg.applyDefaults()
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.BackupFile == "" {
		cfg.BackupFile = "data/config-backup.json"
	}
	if cfg.GPIOChip == "" {
		cfg.GPIOChip = "gpiochip0"
	}
	if cfg.I2CBus == "" {
		cfg.I2CBus = "1"
	}
	if cfg.TickMillis == 0 {
		cfg.TickMillis = 10
	}
	if cfg.DebounceMillis == 0 {
		cfg.DebounceMillis = 25
	}
	if cfg.LongPressMillis == 0 {
		cfg.LongPressMillis = 2000
	}
	if cfg.DoubleClickMillis == 0 {
		cfg.DoubleClickMillis = 300
	}
	if cfg.StepsPerDetent == 0 {
		cfg.StepsPerDetent = 1
	}
	if cfg.LEDSpeedHz == 0 {
		cfg.LEDSpeedHz = 800_000
	}
	if cfg.LightSensorAddr == 0 {
		cfg.LightSensorAddr = 0x48
	}
	if cfg.RadioAddr == 0 {
		cfg.RadioAddr = 0x60
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 8080
	}
	if cfg.MQTTClientID == "" {
		cfg.MQTTClientID = "ledclock"
	}
	if cfg.MQTTTopic == "" {
		cfg.MQTTTopic = "ledclock/events"
	}
	if cfg.MainServicePath == "" {
		cfg.MainServicePath = "/etc/systemd/system/ledclock.service"
	}
	if cfg.BootScriptPath == "" {
		cfg.BootScriptPath = "/usr/local/bin/ledclock-boot.sh"
	}
	if cfg.BootServicePath == "" {
		cfg.BootServicePath = "/etc/systemd/system/ledclock-boot.service"
	}
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (cfg *Config) validate() {
	var (
		missingFields []string
		usedPins      = map[int]string{}
		conflicts     []string
	)

	v := reflect.ValueOf(cfg.GPIO)
	t := reflect.TypeOf(cfg.GPIO)

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldName := t.Field(i).Tag.Get("json")

		if field.IsNil() {
			missingFields = append(missingFields, "gpio."+fieldName)
			continue
		}

		pin := field.Elem().Int()
		if other, exists := usedPins[int(pin)]; exists {
			conflicts = append(conflicts, fmt.Sprintf("gpio.%s and gpio.%s both use pin %d", fieldName, other, pin))
		} else {
			usedPins[int(pin)] = fieldName
		}
	}

	if len(missingFields) > 0 {
		panic("Missing required GPIO config fields: " + strings.Join(missingFields, ", "))
	}
	if len(conflicts) > 0 {
		panic("Conflicting GPIO pins: " + strings.Join(conflicts, ", "))
	}
	if cfg.TickMillis < 1 {
		panic(fmt.Sprintf("tick_ms must be positive, got %d", cfg.TickMillis))
	}
}
