package logger

import (
	"os"
	"path/filepath"
	"testing"

	"igkit/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.NotNil(t, log.GetZerolog())
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "igkit.log")

	log, err := New(&config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)

	log.InfoWithFields("session restored", map[string]interface{}{"username": "karn"})

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "session restored")
	assert.Contains(t, string(content), `"username":"karn"`)
	assert.Contains(t, string(content), `"app":"igkit"`)
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "igkit.log")

	log, err := New(&config.LoggingConfig{Level: "warn", File: path})
	require.NoError(t, err)

	log.Debug("hidden debug")
	log.Info("hidden info")
	log.Warn("visible warn")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden debug")
	assert.NotContains(t, string(content), "hidden info")
	assert.Contains(t, string(content), "visible warn")
}

func TestWithFieldChaining(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "igkit.log")

	log, err := New(&config.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)

	log.WithField("flow", "login").WithField("attempt", 2).Info("retrying")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"flow":"login"`)
	assert.Contains(t, string(content), `"attempt":2`)
}

func TestDefaultLoggerIsNop(t *testing.T) {
	// Must never panic even before SetDefault is called
	log := GetLogger()
	log.Info("quiet")
	log.WithError(assert.AnError).Error("still quiet")
}

func TestSetDefault(t *testing.T) {
	original := GetLogger()
	defer SetDefault(original)

	test := NewTestLogger()
	SetDefault(test)

	GetLogger().Info("hello")
	assert.True(t, test.HasMessage("hello"))
}

func TestParseLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "fatal", "disabled", "WARN"} {
		_, err := parseLogLevel(level)
		assert.NoError(t, err, level)
	}

	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}

func TestTestLogger(t *testing.T) {
	log := NewTestLogger()

	log.Info("plain message")
	log.WithFields(map[string]interface{}{"key": "value"}).Warn("field message")

	messages := log.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "INFO", messages[0].Level)
	assert.Equal(t, "plain message", messages[0].Message)
	assert.Equal(t, "WARN", messages[1].Level)
	assert.Equal(t, "value", messages[1].Fields["key"])

	assert.True(t, log.HasMessage("field message"))
	assert.False(t, log.HasMessage("absent"))

	log.Reset()
	assert.Empty(t, log.Messages())
}
