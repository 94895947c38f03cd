package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRead_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
jwt:
  secret: "s3cret"
`)

	cfg, err := read(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, 30, cfg.App.DefaultHorizon)
	assert.Equal(t, int64(5<<20), cfg.App.UploadMaxBytes)
}

func TestRead_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("XPENSE_SERVER_PORT", "7070")

	cfg, err := read(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestRead_UnknownDriver(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: \"mysql\"\n")

	_, err := read(path)
	assert.Error(t, err)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
