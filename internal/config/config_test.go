package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "VEHICLES_BASE_URL", "VEHICLES_FILE", "TICK_CRON", "PRICING_STRATEGY",
		"AUTO_RECORD", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "@every 3s", cfg.Simulator.TickCron)
	assert.Equal(t, "@every 5m", cfg.Inventory.RefreshCron)
	assert.Equal(t, "dynamic", cfg.Pricing.DefaultStrategy)
	assert.Equal(t, 5, cfg.Pricing.HistoryCapacity)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.TelegramEnabled())
	require.NoError(t, cfg.Validate())
	assert.Equal(t, model.StrategyDynamic, cfg.Strategy())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9000"
inventory:
  base_url: http://file
  file: vehicles.yaml
simulator:
  seed: 42
pricing:
  default_strategy: competitive
  auto_record: true
telegram:
  alert_percent: 2.5
log:
  format: json
`), 0o644))

	clearEnv(t)
	t.Setenv("VEHICLES_BASE_URL", "http://env")
	t.Setenv("TICK_CRON", "@every 1s")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "http://env", cfg.Inventory.BaseURL)
	assert.Equal(t, "vehicles.yaml", cfg.Inventory.File)
	assert.Equal(t, "@every 1s", cfg.Simulator.TickCron)
	assert.Equal(t, int64(42), cfg.Simulator.Seed)
	assert.True(t, cfg.Pricing.AutoRecord)
	assert.Equal(t, 2.5, cfg.Telegram.AlertPercent)
	assert.True(t, cfg.TelegramEnabled())
	require.NoError(t, cfg.Validate())
	assert.Equal(t, model.StrategyCompetitive, cfg.Strategy())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown strategy", func(c *Config) { c.Pricing.DefaultStrategy = "surge" }, "pricing.default_strategy"},
		{"negative capacity", func(c *Config) { c.Pricing.HistoryCapacity = -1 }, "history_capacity"},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "tok" }, "set together"},
		{"negative alert", func(c *Config) { c.Telegram.AlertPercent = -1 }, "alert_percent"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"no tick", func(c *Config) { c.Simulator.TickCron = "" }, "tick_cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
