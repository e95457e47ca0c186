package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the SDK. It is immutable after
// initialization; one Config is shared by every component of an SDK instance.
type Config struct {
	// Device metadata baked into request headers and the User-Agent
	Device DeviceConfig `yaml:"device" json:"device"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DeviceConfig describes the emulated Android device. The values below must
// combine into a User-Agent the server accepts; deviations cause the
// authentication step to fail.
type DeviceConfig struct {
	DPI            string `yaml:"dpi" json:"dpi"`
	Resolution     string `yaml:"resolution" json:"resolution"`
	AndroidVersion int    `yaml:"android_version" json:"android_version"`
	AndroidRelease string `yaml:"android_release" json:"android_release"`
	Manufacturer   string `yaml:"manufacturer" json:"manufacturer"`
	Brand          string `yaml:"brand" json:"brand"`
	Model          string `yaml:"model" json:"model"`
	Device         string `yaml:"device" json:"device"`
	Hardware       string `yaml:"hardware" json:"hardware"`
	Locale         string `yaml:"locale" json:"locale"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with the device profile that is
// known to pass authentication (a Samsung Galaxy S7 running Android 7.0).
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			DPI:            "640dpi",
			Resolution:     "1440x2560",
			AndroidVersion: 24,
			AndroidRelease: "7.0",
			Manufacturer:   "samsung",
			Brand:          "",
			Model:          "SM-G930F",
			Device:         "herolte",
			Hardware:       "samsungexynos8890",
			Locale:         "en_US",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration with the following precedence (later wins):
// defaults, YAML config file, environment variables.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	if configFile != "" {
		if err := cfg.loadFromFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// loadFromEnv overrides configuration from environment variables
func (c *Config) loadFromEnv() {
	if v := os.Getenv("IGKIT_DEVICE_DPI"); v != "" {
		c.Device.DPI = v
	}
	if v := os.Getenv("IGKIT_DEVICE_RESOLUTION"); v != "" {
		c.Device.Resolution = v
	}
	if v := os.Getenv("IGKIT_DEVICE_LOCALE"); v != "" {
		c.Device.Locale = v
	}
	if v := os.Getenv("IGKIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("IGKIT_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	if !strings.HasSuffix(c.Device.DPI, "dpi") {
		return errors.New("device dpi must end in \"dpi\"")
	}
	if !strings.Contains(c.Device.Resolution, "x") {
		return errors.New("device resolution must be of the form <width>x<height>")
	}
	if c.Device.AndroidVersion <= 0 {
		return errors.New("android version must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("unknown log level: %s", c.Logging.Level)
	}
	return nil
}
