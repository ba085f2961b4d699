package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WATCHDOG_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int64(10485760), cfg.Uploads.MaxSize)
	assert.Equal(t, 24*time.Hour, cfg.Uploads.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Uploads.JanitorInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.True(t, cfg.Security.EnableCORS)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
	assert.Equal(t, 30*time.Second, cfg.WebSocket.PingPeriod)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WATCHDOG_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("WATCHDOG_SERVER_PORT", "9090")
	t.Setenv("WATCHDOG_LOGGING_LEVEL", "debug")
	t.Setenv("WATCHDOG_UPLOADS_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, time.Hour, cfg.Uploads.TTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 3000
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("WATCHDOG_CONFIG_FILE", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("WATCHDOG_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("WATCHDOG_LOGGING_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero max upload size",
			mutate:  func(c *Config) { c.Uploads.MaxSize = 0 },
			wantErr: "invalid max upload size",
		},
		{
			name:    "negative ttl",
			mutate:  func(c *Config) { c.Uploads.TTL = -time.Minute },
			wantErr: "invalid upload TTL",
		},
		{
			name: "rate limiting enabled without rps",
			mutate: func(c *Config) {
				c.Security.RateLimit.Enabled = true
				c.Security.RateLimit.RPS = 0
			},
			wantErr: "invalid rate limit rps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:  ServerConfig{Port: 8080},
				Uploads: UploadsConfig{MaxSize: 1024, TTL: time.Hour},
				Logging: LoggingConfig{Level: "info"},
			}
			tt.mutate(cfg)

			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewPaths(t *testing.T) {
	paths, err := NewPaths(PathsConfig{DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.DataDir))
	assert.Equal(t, filepath.Join(paths.DataDir, "uploads"), paths.UploadsDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "charts"), paths.ChartsDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "reports"), paths.ReportsDir)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(PathsConfig{
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.UploadsDir, paths.ChartsDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestPaths_UploadFile(t *testing.T) {
	paths := &Paths{UploadsDir: "/data/uploads"}
	assert.Equal(t, filepath.Join("/data/uploads", "abc.csv"), paths.UploadFile("abc", ".csv"))
}
