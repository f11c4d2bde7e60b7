package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for sundim.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Location   LocationConfig   `yaml:"location"`
	Brightness BrightnessConfig `yaml:"brightness"`
	Devices    []DeviceConfig   `yaml:"devices"`
	System     SystemConfig     `yaml:"system"`
	State      StateConfig      `yaml:"state"`
	Database   DatabaseConfig   `yaml:"database"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LocationConfig contains geographic coordinates for the solar calculation.
// When UseAutoLocation is true the daemon attempts GeoClue and then IP
// geolocation at startup, falling back to the manual coordinates.
type LocationConfig struct {
	ManualLatitude  float64 `yaml:"manual_latitude"`
	ManualLongitude float64 `yaml:"manual_longitude"`
	UseAutoLocation bool    `yaml:"use_auto_location"`

	// GeoclueBinary is the path to the GeoClue where-am-i demo.
	GeoclueBinary string `yaml:"geoclue_binary"`

	// GeoclueTimeout is the maximum wait for the GeoClue lookup (seconds).
	GeoclueTimeout int `yaml:"geoclue_timeout"`

	// IPLookupURL is the endpoint for IP-based geolocation.
	IPLookupURL string `yaml:"ip_lookup_url"`
}

// BrightnessConfig contains the brightness curve parameters.
type BrightnessConfig struct {
	// MinBrightness and MaxBrightness bound every value the daemon applies (0-100).
	MinBrightness int `yaml:"min_brightness"`
	MaxBrightness int `yaml:"max_brightness"`

	// SunDownAlt and SunHighAlt are the solar altitudes (degrees) between
	// which brightness is interpolated. Below SunDownAlt the minimum is
	// applied, above SunHighAlt the maximum.
	SunDownAlt float64 `yaml:"sun_down_alt"`
	SunHighAlt float64 `yaml:"sun_high_alt"`

	// ManualChangeTolerance is the difference (percent) between the last
	// applied and the observed brightness below which readback drift is
	// treated as noise rather than a deliberate user change.
	ManualChangeTolerance int `yaml:"manual_change_tolerance"`
}

// DeviceConfig describes a single controlled display.
type DeviceConfig struct {
	// Kind is "laptop" (brightnessctl) or "monitor" (ddcutil).
	Kind string `yaml:"kind"`

	// ID is the ddcutil display number. Required for monitors, absent for laptops.
	ID *int `yaml:"id,omitempty"`

	// Name is a human-readable label used in logs and status output.
	Name string `yaml:"name"`
}

// SystemConfig contains update loop settings.
type SystemConfig struct {
	// UpdateInterval is the seconds between update cycles.
	UpdateInterval int `yaml:"update_interval"`

	// LogBeforeChangeMinutes is how far ahead of a threshold crossing the
	// daemon announces an upcoming brightness change.
	LogBeforeChangeMinutes int `yaml:"log_before_change_minutes"`

	// CommandTimeout is the bounded wait for one external tool invocation (seconds).
	CommandTimeout int `yaml:"command_timeout"`
}

// StateConfig contains persisted state settings.
type StateConfig struct {
	// Path is the JSON state file holding the manual offset and the last
	// applied brightness per device.
	Path string `yaml:"path"`
}

// DatabaseConfig contains SQLite settings for the apply history.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for state publishing.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings for telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Device kind values accepted in DeviceConfig.Kind.
const (
	DeviceKindLaptop  = "laptop"
	DeviceKindMonitor = "monitor"
)

// Latitude/longitude bounds in degrees.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Brightness percentage bounds.
const (
	minPercent = 0
	maxPercent = 100
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SUNDIM_SECTION_KEY
// For example: SUNDIM_STATE_PATH, SUNDIM_MQTT_PASSWORD
//
// A missing file is not an error: the defaults are used, matching the
// behaviour of first-run invocations before a config file exists.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be parsed or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// First run: defaults only.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Location: LocationConfig{
			ManualLatitude:  52.3821038,
			ManualLongitude: 16.9141764,
			UseAutoLocation: false,
			GeoclueBinary:   "/usr/lib/geoclue-2.0/demos/where-am-i",
			GeoclueTimeout:  15,
			IPLookupURL:     "http://ip-api.com/json",
		},
		Brightness: BrightnessConfig{
			MinBrightness:         1,
			MaxBrightness:         100,
			SunDownAlt:            -6,
			SunHighAlt:            30,
			ManualChangeTolerance: 2,
		},
		Devices: []DeviceConfig{
			{Kind: DeviceKindLaptop, Name: "Laptop panel"},
		},
		System: SystemConfig{
			UpdateInterval:         300,
			LogBeforeChangeMinutes: 15,
			CommandTimeout:         10,
		},
		State: StateConfig{
			Path: "./data/state.json",
		},
		Database: DatabaseConfig{
			Enabled:     false,
			Path:        "./data/sundim.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sundim",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			BatchSize:     20,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SUNDIM_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SUNDIM_STATE_PATH"); v != "" {
		cfg.State.Path = v
	}
	if v := os.Getenv("SUNDIM_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SUNDIM_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SUNDIM_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SUNDIM_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("SUNDIM_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("SUNDIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Validation failures here are fatal at startup: the daemon must not run
// with an inverted brightness range or altitude window.
//
// Returns:
//   - error: Description of all validation failures, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Location.ManualLatitude < minLatitude || c.Location.ManualLatitude > maxLatitude {
		errs = append(errs, "location.manual_latitude must be between -90 and 90")
	}
	if c.Location.ManualLongitude < minLongitude || c.Location.ManualLongitude > maxLongitude {
		errs = append(errs, "location.manual_longitude must be between -180 and 180")
	}

	b := c.Brightness
	if b.MinBrightness < minPercent || b.MinBrightness > maxPercent {
		errs = append(errs, "brightness.min_brightness must be between 0 and 100")
	}
	if b.MaxBrightness < minPercent || b.MaxBrightness > maxPercent {
		errs = append(errs, "brightness.max_brightness must be between 0 and 100")
	}
	if b.MinBrightness >= b.MaxBrightness {
		errs = append(errs, "brightness.min_brightness must be less than brightness.max_brightness")
	}
	if b.SunDownAlt >= b.SunHighAlt {
		errs = append(errs, "brightness.sun_down_alt must be less than brightness.sun_high_alt")
	}
	if b.ManualChangeTolerance < 0 {
		errs = append(errs, "brightness.manual_change_tolerance must not be negative")
	}

	if len(c.Devices) == 0 {
		errs = append(errs, "devices: at least one device is required")
	}
	for i, d := range c.Devices {
		switch d.Kind {
		case DeviceKindLaptop:
			if d.ID != nil {
				errs = append(errs, fmt.Sprintf("devices[%d]: laptop devices must not set id", i))
			}
		case DeviceKindMonitor:
			if d.ID == nil {
				errs = append(errs, fmt.Sprintf("devices[%d]: monitor devices require id", i))
			}
		default:
			errs = append(errs, fmt.Sprintf("devices[%d]: kind must be laptop or monitor", i))
		}
		if strings.TrimSpace(d.Name) == "" {
			errs = append(errs, fmt.Sprintf("devices[%d]: name is required", i))
		}
	}

	if c.System.UpdateInterval <= 0 {
		errs = append(errs, "system.update_interval must be positive")
	}
	if c.System.LogBeforeChangeMinutes < 0 {
		errs = append(errs, "system.log_before_change_minutes must not be negative")
	}
	if c.System.CommandTimeout <= 0 {
		errs = append(errs, "system.command_timeout must be positive")
	}

	if c.State.Path == "" {
		errs = append(errs, "state.path is required")
	}
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when database.enabled")
	}
	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt.enabled")
		}
	}
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb.enabled")
		}
		if c.InfluxDB.BatchSize <= 0 {
			errs = append(errs, "influxdb.batch_size must be positive")
		}
		if c.InfluxDB.FlushInterval <= 0 {
			errs = append(errs, "influxdb.flush_interval must be positive")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// UpdateInterval returns the time between update cycles as a Duration.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.System.UpdateInterval) * time.Second
}

// PreChangeWindow returns the pre-change announcement lead time as a Duration.
func (c *Config) PreChangeWindow() time.Duration {
	return time.Duration(c.System.LogBeforeChangeMinutes) * time.Minute
}

// CommandTimeout returns the external tool invocation timeout as a Duration.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.System.CommandTimeout) * time.Second
}

// GeoclueTimeout returns the GeoClue lookup timeout as a Duration.
func (c *Config) GeoclueTimeout() time.Duration {
	return time.Duration(c.Location.GeoclueTimeout) * time.Second
}
