package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Inventory struct {
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		File        string `yaml:"file"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"inventory"`
	Simulator struct {
		TickCron  string `yaml:"tick_cron"`
		StateFile string `yaml:"state_file"`
		Seed      int64  `yaml:"seed"`
	} `yaml:"simulator"`
	Pricing struct {
		DefaultStrategy string `yaml:"default_strategy"`
		HistoryCapacity int    `yaml:"history_capacity"`
		AutoRecord      bool   `yaml:"auto_record"`
	} `yaml:"pricing"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken     string  `yaml:"bot_token"`
		ChatID       string  `yaml:"chat_id"`
		AlertPercent float64 `yaml:"alert_percent"`
	} `yaml:"telegram"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("VEHICLES_BASE_URL"); v != "" {
		cfg.Inventory.BaseURL = v
	}
	if v := os.Getenv("VEHICLES_API_KEY"); v != "" {
		cfg.Inventory.APIKey = v
	}
	if v := os.Getenv("VEHICLES_FILE"); v != "" {
		cfg.Inventory.File = v
	}
	if v := os.Getenv("TICK_CRON"); v != "" {
		cfg.Simulator.TickCron = v
	}
	if v := os.Getenv("PRICING_STRATEGY"); v != "" {
		cfg.Pricing.DefaultStrategy = v
	}
	if v := os.Getenv("AUTO_RECORD"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Pricing.AutoRecord = on
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Inventory.RefreshCron == "" {
		cfg.Inventory.RefreshCron = "@every 5m"
	}
	if cfg.Simulator.TickCron == "" {
		cfg.Simulator.TickCron = "@every 3s"
	}
	if cfg.Simulator.StateFile == "" {
		cfg.Simulator.StateFile = "data/market_state.json"
	}
	if cfg.Pricing.DefaultStrategy == "" {
		cfg.Pricing.DefaultStrategy = model.StrategyDynamic.String()
	}
	if cfg.Pricing.HistoryCapacity == 0 {
		cfg.Pricing.HistoryCapacity = 5
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/vehicle_pricing.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	if c.Simulator.TickCron == "" {
		return fmt.Errorf("simulator.tick_cron is required")
	}
	if _, ok := model.ParseStrategy(c.Pricing.DefaultStrategy); !ok {
		return fmt.Errorf("pricing.default_strategy %q is not one of dynamic, competitive, fixed", c.Pricing.DefaultStrategy)
	}
	if c.Pricing.HistoryCapacity < 0 {
		return fmt.Errorf("pricing.history_capacity must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Telegram.AlertPercent < 0 {
		return fmt.Errorf("telegram.alert_percent must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}

// Strategy returns the configured default strategy.
func (c *Config) Strategy() model.Strategy {
	s, _ := model.ParseStrategy(c.Pricing.DefaultStrategy)
	return s
}

// TelegramEnabled reports whether the chat bot is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
