package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := New(Config{Environment: EnvironmentProduction, OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Info("batch complete", zap.Int("records", 3))
	logger.Debug("hidden at info level")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "exactly one JSON line expected, got %q", data)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "batch complete", entry["msg"])
	assert.InDelta(t, 3, entry["records"], 0)
}

func TestLevels(t *testing.T) {
	lvl, err := resolveLevel(Config{Environment: EnvironmentDevelopment})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl.Level())

	lvl, err = resolveLevel(Config{Environment: EnvironmentProduction})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl.Level())

	lvl, err = resolveLevel(Config{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl.Level())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Environment: "staging"}.Validate())
	assert.Error(t, Config{Level: "loud"}.Validate())

	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}
