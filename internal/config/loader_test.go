package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfigWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, path, resolved)
	assert.Equal(t, Default(), cfg)

	// The default file was materialized for the operator to edit.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	content := []byte("addr: \":9999\"\nlog_level: debug\nsession_buffer: 64\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 64, cfg.SessionBuffer)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().ShutdownTimeout, cfg.ShutdownTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9999\"\n"), 0o600))

	t.Setenv("MARKETOR_ADDR", ":7777")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Addr)
}

func TestUpdateFromSkipsZeroValues(t *testing.T) {
	cfg := Default()

	cfg.UpdateFrom(Config{Addr: ":1234", ShutdownTimeout: 10 * time.Second})

	assert.Equal(t, ":1234", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, Default().LogLevel, cfg.LogLevel)
	assert.Equal(t, Default().SessionBuffer, cfg.SessionBuffer)
}
