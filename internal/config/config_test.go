package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "timeharbor.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.Auth.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TIMEHARBOR_SERVER_HOST", "127.0.0.1")
	t.Setenv("TIMEHARBOR_SERVER_PORT", "9090")
	t.Setenv("TIMEHARBOR_TRANSPORT_MODE", "stdio")
	t.Setenv("TIMEHARBOR_DB_PATH", "/tmp/th.db")
	t.Setenv("TIMEHARBOR_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "/tmp/th.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 10.0.0.1
  port: 7070
auth:
  enabled: true
db:
  path: data/harbor.db
`), 0o644))
	t.Setenv("TIMEHARBOR_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1", cfg.Server.Host)
	require.Equal(t, 7070, cfg.Server.Port)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "data/harbor.db", cfg.DB.Path)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o644))
	t.Setenv("TIMEHARBOR_CONFIG_PATH", path)
	t.Setenv("TIMEHARBOR_SERVER_PORT", "6060")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 6060, cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("TIMEHARBOR_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidTransportMode(t *testing.T) {
	t.Setenv("TIMEHARBOR_TRANSPORT_MODE", "websocket")
	_, err := Load()
	require.Error(t, err)
}
