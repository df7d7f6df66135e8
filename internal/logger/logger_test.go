package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(&config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewLogger_UnknownFormat(t *testing.T) {
	_, err := NewLogger(&config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bridge.log")
	logger, err := NewLogger(&config.LoggingConfig{
		Level:          "debug",
		Format:         "json",
		DisableConsole: true,
		OutputPath:     path,
	})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewLogger_ConsoleDisabledFallsBackToStderr(t *testing.T) {
	logger, err := NewLogger(&config.LoggingConfig{
		Level:          "info",
		DisableConsole: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
