// Package config loads the sentinel configuration file.
//
// The file lives at /etc/gambit/safety-config.yaml (override with --config
// or SENTINEL_CONFIG) and carries one section per peripheral instance. It is
// read once at startup and never reloaded.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file location installed by the provisioning
// scripts.
const DefaultPath = "/etc/gambit/safety-config.yaml"

// EnvPath overrides DefaultPath when set.
const EnvPath = "SENTINEL_CONFIG"

// Config is the full daemon configuration.
type Config struct {
	// MaxConsecutiveFailures is the sensor failure ceiling before the
	// monitor reports itself degraded.
	MaxConsecutiveFailures int `yaml:"max_consecutive_failures"`

	// HTTP is the status server listen address; empty disables it.
	HTTP string `yaml:"http"`

	MQTT    MQTT    `yaml:"mqtt"`
	History History `yaml:"history"`
	LED     LED     `yaml:"status_led"`

	Rotate  Rotate       `yaml:"rotate"`
	PCT2075 Temperature  `yaml:"pct2075"`
	MCP9601 Thermocouple `yaml:"mcp9601"`
	INA219  Battery      `yaml:"ina219"`
}

// MQTT configures event publishing; an empty broker disables it.
type MQTT struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// History configures the sample recorder; an empty path disables it.
type History struct {
	Path       string `yaml:"path"`
	RetainDays int    `yaml:"retain_days"`
}

// LED configures the warning LED; a negative pin disables it.
type LED struct {
	Chip string `yaml:"chip"`
	Pin  int    `yaml:"gpio_pin"`
}

// Rotate configures the accelerometer tilt instance.
type Rotate struct {
	I2CBus        int     `yaml:"i2c_bus"`
	I2CAddress    Addr    `yaml:"i2c_address"`
	Axis          string  `yaml:"axis"`
	Invert        bool    `yaml:"invert"`
	Deadband      float64 `yaml:"deadband_ms2"`
	HoldCount     int     `yaml:"hold_count"`
	PollIntervalS float64 `yaml:"poll_interval_s"`

	// Output is the wlroots output to rotate (e.g. "HDMI-A-1").
	Output string `yaml:"output"`

	// VolumeControl, when set, makes tilt transitions drive the given
	// ALSA mixer control instead of the display.
	VolumeControl string `yaml:"volume_control"`
	VolumeStepPct int    `yaml:"volume_step_percent"`
}

// Temperature configures a temperature safety instance.
type Temperature struct {
	I2CBus        int     `yaml:"i2c_bus"`
	I2CAddress    Addr    `yaml:"i2c_address"`
	WarningC      float64 `yaml:"warning_temp_c"`
	ShutdownC     float64 `yaml:"shutdown_temp_c"`
	DeadbandC     float64 `yaml:"deadband_c"`
	HoldCount     int     `yaml:"hold_count"`
	PollIntervalS float64 `yaml:"poll_interval_s"`
}

// Thermocouple is a temperature instance with a thermocouple type.
type Thermocouple struct {
	Temperature      `yaml:",inline"`
	ThermocoupleType string `yaml:"thermocouple_type"`
}

// Battery configures the UPS battery safety instance.
type Battery struct {
	I2CBus          int     `yaml:"i2c_bus"`
	I2CAddress      Addr    `yaml:"i2c_address"`
	WarningPercent  float64 `yaml:"warning_battery_percent"`
	ShutdownPercent float64 `yaml:"shutdown_battery_percent"`
	DeadbandPercent float64 `yaml:"deadband_percent"`
	HoldCount       int     `yaml:"hold_count"`
	PollIntervalS   float64 `yaml:"poll_interval_s"`
	CellCount       int     `yaml:"battery_cell_count"`

	// SuppressWhileCharging gates warnings and shutdowns on the pack
	// actually discharging. The provisioning scripts were inconsistent
	// about this, so it is an explicit option here, on by default.
	SuppressWhileCharging *bool `yaml:"suppress_while_charging"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() Config {
	return Config{
		MaxConsecutiveFailures: 5,
		MQTT: MQTT{
			ClientID: "cm5-sentinel",
		},
		History: History{
			RetainDays: 30,
		},
		LED: LED{
			Chip: "gpiochip0",
			Pin:  -1,
		},
		Rotate: Rotate{
			I2CBus:        1,
			I2CAddress:    0x19,
			Axis:          "y",
			Deadband:      4.0,
			HoldCount:     3,
			PollIntervalS: 0.5,
			Output:        "HDMI-A-1",
			VolumeStepPct: 5,
		},
		PCT2075: Temperature{
			I2CBus:        1,
			I2CAddress:    0x37,
			WarningC:      70,
			ShutdownC:     80,
			DeadbandC:     2,
			HoldCount:     1,
			PollIntervalS: 5,
		},
		MCP9601: Thermocouple{
			Temperature: Temperature{
				I2CBus:        1,
				I2CAddress:    0x67,
				WarningC:      60,
				ShutdownC:     75,
				DeadbandC:     2,
				HoldCount:     1,
				PollIntervalS: 5,
			},
			ThermocoupleType: "K",
		},
		INA219: Battery{
			I2CBus:          1,
			I2CAddress:      0x41,
			WarningPercent:  15,
			ShutdownPercent: 5,
			DeadbandPercent: 2,
			HoldCount:       1,
			PollIntervalS:   10,
			CellCount:       3,
		},
	}
}

// Load reads and validates the config file at path. An empty path falls back
// to SENTINEL_CONFIG, then DefaultPath. Missing keys take defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.MaxConsecutiveFailures < 1 {
		return fmt.Errorf("max_consecutive_failures (%d) must be at least 1", c.MaxConsecutiveFailures)
	}

	if c.Rotate.Deadband < 0 {
		return fmt.Errorf("rotate: deadband_ms2 (%v) must not be negative", c.Rotate.Deadband)
	}
	if err := validateCommon("rotate", c.Rotate.HoldCount, c.Rotate.PollIntervalS); err != nil {
		return err
	}
	if c.Rotate.Axis != "x" && c.Rotate.Axis != "y" && c.Rotate.Axis != "z" {
		return fmt.Errorf("rotate: axis %q must be x, y or z", c.Rotate.Axis)
	}

	if err := validateTemp("pct2075", c.PCT2075); err != nil {
		return err
	}
	if err := validateTemp("mcp9601", c.MCP9601.Temperature); err != nil {
		return err
	}

	b := c.INA219
	if b.WarningPercent <= b.ShutdownPercent {
		return fmt.Errorf("ina219: warning_battery_percent (%v) must be greater than shutdown_battery_percent (%v)",
			b.WarningPercent, b.ShutdownPercent)
	}
	if b.CellCount < 1 || b.CellCount > 6 {
		return fmt.Errorf("ina219: battery_cell_count (%d) must be between 1 and 6", b.CellCount)
	}
	if err := validateCommon("ina219", b.HoldCount, b.PollIntervalS); err != nil {
		return err
	}
	return nil
}

func validateTemp(name string, t Temperature) error {
	if t.WarningC >= t.ShutdownC {
		return fmt.Errorf("%s: warning_temp_c (%v) must be less than shutdown_temp_c (%v)", name, t.WarningC, t.ShutdownC)
	}
	return validateCommon(name, t.HoldCount, t.PollIntervalS)
}

func validateCommon(name string, holdCount int, pollS float64) error {
	if holdCount < 1 {
		return fmt.Errorf("%s: hold_count (%d) must be at least 1", name, holdCount)
	}
	if pollS <= 0 {
		return fmt.Errorf("%s: poll_interval_s (%v) must be positive", name, pollS)
	}
	return nil
}

// SuppressCharging resolves the charging suppression option (default true).
func (b Battery) SuppressCharging() bool {
	if b.SuppressWhileCharging == nil {
		return true
	}
	return *b.SuppressWhileCharging
}

// PollInterval converts the fractional-second poll option to a Duration.
func PollInterval(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
