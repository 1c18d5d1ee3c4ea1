package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the overrides Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SERVER_ADDR", "DATA_PROVIDER", "POLYGON_API_KEY", "HTTPS_PROXY", "MARKET_TIMEZONE",
		"DEFAULT_EXPIRATION", "TICK_CRON", "SQLITE_PATH", "LOG_LEVEL", "MINI_PANEL"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9000"
data_source:
  provider: yahoo
  timeout: 10s
market:
  timezone: America/Chicago
  panel_symbols: ["ES=F"]
features:
  expiration_input: true
  scale_buttons: false
  mini_panel: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "America/Chicago", cfg.Market.Timezone)
	assert.Equal(t, []string{"ES=F"}, cfg.Market.PanelSymbols)
	assert.False(t, cfg.Features.ScaleButtons)
	assert.Equal(t, "@every 60s", cfg.Schedule.TickCron)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8050", cfg.Server.Addr)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "America/New_York", cfg.Market.Timezone)
	assert.Equal(t, []string{"NQ=F", "ES=F", "RTY=F", "YM=F"}, cfg.Market.PanelSymbols)
	assert.True(t, cfg.Features.ExpirationInput)
	assert.True(t, cfg.Features.ScaleButtons)
	assert.True(t, cfg.Features.MiniPanel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("POLYGON_API_KEY", "secret")
	t.Setenv("MINI_PANEL", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "server:\n  addr: \":9000\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "polygon", cfg.DataSource.Provider)
	assert.False(t, cfg.Features.MiniPanel)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "server: ["))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, "not supported"},
		{"polygon without key", func(c *Config) { c.DataSource.Provider = "polygon" }, "polygon_api_key"},
		{"bad timezone", func(c *Config) { c.Market.Timezone = "Mars/Olympus" }, "market.timezone"},
		{"missing default expiration", func(c *Config) { c.Features.ExpirationInput = false }, "default_expiration"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"negative timeout", func(c *Config) { c.DataSource.Timeout = -time.Second }, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_DefaultExpirationSatisfiesDisabledInput(t *testing.T) {
	cfg := Default()
	cfg.Features.ExpirationInput = false
	cfg.Market.DefaultExpiration = "2025-03-21"
	assert.NoError(t, cfg.Validate())
}
