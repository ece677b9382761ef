package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"DipWatch/internal/strategy"
)

// Instrument is one configured index: display name plus provider symbol.
// The list order is the order results are reported in.
type Instrument struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	DataSource struct {
		LookbackDays int      `yaml:"lookback_days"`
		MAWindow     int      `yaml:"ma_window"`
		CloseColumns []string `yaml:"close_columns"`
	} `yaml:"data_source"`
	Instruments []Instrument    `yaml:"instruments"`
	Policy      strategy.Policy `yaml:"policy"`
	KeepAlive   struct {
		Enabled         bool   `yaml:"enabled"`
		IntervalMinutes int    `yaml:"interval_minutes"`
		URL             string `yaml:"url"`
	} `yaml:"keep_alive"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// defaultInstruments is the reference index table.
func defaultInstruments() []Instrument {
	return []Instrument{
		{Name: "S&P 500", Symbol: "^GSPC"},
		{Name: "Nifty 50", Symbol: "^NSEI"},
		{Name: "Nifty Midcap 150", Symbol: "0P0001IAU9.BO"},
		{Name: "Nifty Smallcap 250", Symbol: "0P0001Q0UH.BO"},
		{Name: "NASDAQ", Symbol: "^IXIC"},
		{Name: "BTC", Symbol: "BTC-USD"},
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; every field has a
// usable default.
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
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("KEEP_ALIVE"); v != "" {
		cfg.KeepAlive.Enabled = v == "true"
	}

	// Defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 1000
	}
	if cfg.DataSource.MAWindow == 0 {
		cfg.DataSource.MAWindow = 200
	}
	if len(cfg.DataSource.CloseColumns) == 0 {
		cfg.DataSource.CloseColumns = []string{"close", "adjclose"}
	}
	if len(cfg.Instruments) == 0 {
		cfg.Instruments = defaultInstruments()
	}
	if cfg.Policy.Amount == 0 {
		cfg.Policy = strategy.DefaultPolicy()
	}
	if cfg.KeepAlive.IntervalMinutes == 0 {
		cfg.KeepAlive.IntervalMinutes = 14
	}
	if cfg.KeepAlive.URL == "" {
		cfg.KeepAlive.URL = fmt.Sprintf("http://127.0.0.1:%d/ping", cfg.Server.Port)
	}

	return cfg, nil
}

// KeepAliveInterval returns the configured self-ping interval.
func (c *Config) KeepAliveInterval() time.Duration {
	return time.Duration(c.KeepAlive.IntervalMinutes) * time.Minute
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.DataSource.MAWindow <= 0 {
		return fmt.Errorf("data_source.ma_window must be positive")
	}
	if c.DataSource.LookbackDays < c.DataSource.MAWindow {
		return fmt.Errorf("data_source.lookback_days %d shorter than ma_window %d",
			c.DataSource.LookbackDays, c.DataSource.MAWindow)
	}
	if len(c.Instruments) == 0 {
		return fmt.Errorf("at least one instrument is required")
	}
	for i, inst := range c.Instruments {
		if inst.Name == "" || inst.Symbol == "" {
			return fmt.Errorf("instruments[%d]: name and symbol are required", i)
		}
	}
	if c.Policy.Amount <= 0 {
		return fmt.Errorf("policy.amount must be positive")
	}
	if c.Policy.Tier1Threshold < c.Policy.Tier2Threshold ||
		c.Policy.Tier2Threshold < c.Policy.Tier3Threshold {
		return fmt.Errorf("policy thresholds must descend: tier1 >= tier2 >= tier3")
	}
	return nil
}
