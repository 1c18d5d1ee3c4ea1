package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		Provider      string        `yaml:"provider"` // "yahoo" or "polygon"
		PolygonAPIKey string        `yaml:"polygon_api_key"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Market struct {
		Timezone          string   `yaml:"timezone"`
		DefaultExpiration string   `yaml:"default_expiration"`
		PanelSymbols      []string `yaml:"panel_symbols"`
	} `yaml:"market"`
	Schedule struct {
		TickCron string `yaml:"tick_cron"`
	} `yaml:"schedule"`
	Features struct {
		ExpirationInput bool `yaml:"expiration_input"`
		ScaleButtons    bool `yaml:"scale_buttons"`
		MiniPanel       bool `yaml:"mini_panel"`
	} `yaml:"features"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Default returns a config with every feature on and the built-in defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Features.ExpirationInput = true
	cfg.Features.ScaleButtons = true
	cfg.Features.MiniPanel = true
	cfg.applyDefaults()
	return cfg
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %v", err)
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.DataSource.PolygonAPIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("MARKET_TIMEZONE"); v != "" {
		cfg.Market.Timezone = v
	}
	if v := os.Getenv("DEFAULT_EXPIRATION"); v != "" {
		cfg.Market.DefaultExpiration = v
	}
	if v := os.Getenv("TICK_CRON"); v != "" {
		cfg.Schedule.TickCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MINI_PANEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Features.MiniPanel = b
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8050"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
		if c.DataSource.PolygonAPIKey != "" {
			c.DataSource.Provider = "polygon"
		}
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Market.Timezone == "" {
		c.Market.Timezone = "America/New_York"
	}
	if len(c.Market.PanelSymbols) == 0 {
		c.Market.PanelSymbols = []string{"NQ=F", "ES=F", "RTY=F", "YM=F"}
	}
	if c.Schedule.TickCron == "" {
		c.Schedule.TickCron = "@every 60s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Location loads the exchange timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Market.Timezone)
	if err != nil {
		return nil, fmt.Errorf("market.timezone %q: %w", c.Market.Timezone, err)
	}
	return loc, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "polygon":
		if c.DataSource.PolygonAPIKey == "" {
			return fmt.Errorf("data_source.polygon_api_key is required for the polygon provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if !c.Features.ExpirationInput {
		if _, err := time.Parse("2006-01-02", c.Market.DefaultExpiration); err != nil {
			return fmt.Errorf("market.default_expiration is required as YYYY-MM-DD when features.expiration_input is off")
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
