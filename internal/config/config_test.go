package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Processing.Policy = "abort"
	cfg.Processing.StrictInvariants = true
	cfg.Output.RejectsPath = "rejects.csv"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "skip", cfg.Processing.Policy)
	assert.False(t, cfg.Processing.StrictInvariants)
	assert.Equal(t, "production", cfg.Logging.Environment)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Output.Path)
	assert.Empty(t, cfg.Output.RejectsPath)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("processing:\n  policy: abort\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abort", cfg.Processing.Policy)
	assert.Equal(t, "production", cfg.Logging.Environment)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("processing: [\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "policy: skip")
	assert.Contains(t, contents, "strict_invariants: false")
	assert.Contains(t, contents, "environment: production")
	assert.NotContains(t, contents, "rejects_path")
}
