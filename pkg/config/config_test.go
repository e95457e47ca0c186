package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "640dpi", cfg.Device.DPI)
	assert.Equal(t, "1440x2560", cfg.Device.Resolution)
	assert.Equal(t, 24, cfg.Device.AndroidVersion)
	assert.Equal(t, "samsung", cfg.Device.Manufacturer)
	assert.Equal(t, "en_US", cfg.Device.Locale)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
device:
  dpi: 480dpi
  locale: de_DE
logging:
  level: debug
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "480dpi", cfg.Device.DPI)
	assert.Equal(t, "de_DE", cfg.Device.Locale)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields keep their defaults
	assert.Equal(t, "SM-G930F", cfg.Device.Model)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("IGKIT_DEVICE_LOCALE", "fr_FR")
	t.Setenv("IGKIT_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "fr_FR", cfg.Device.Locale)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad dpi", func(c *Config) { c.Device.DPI = "640" }, "dpi"},
		{"bad resolution", func(c *Config) { c.Device.Resolution = "1440" }, "resolution"},
		{"bad android version", func(c *Config) { c.Device.AndroidVersion = 0 }, "android version"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
