package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/coinflip/market"
	"gopkg.in/yaml.v3"
)

// Config represents the complete job configuration
type Config struct {
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Calendar CalendarConfig `json:"calendar" yaml:"calendar"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Chart    ChartConfig    `json:"chart" yaml:"chart"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// ProviderConfig points at the market data / brokerage API
type ProviderConfig struct {
	TradingURL string  `json:"trading_url" yaml:"trading_url"`
	DataURL    string  `json:"data_url" yaml:"data_url"`
	KeyID      string  `json:"key_id,omitempty" yaml:"key_id,omitempty"`
	SecretKey  string  `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
	Feed       string  `json:"feed" yaml:"feed"` // stock feed for the underlying price, e.g. "iex"
	RatePerSec float64 `json:"rate_per_sec" yaml:"rate_per_sec"`
	Timeout    string  `json:"timeout" yaml:"timeout"`
}

// StrategyConfig contains the coin flip parameters
type StrategyConfig struct {
	Underlying    string `json:"underlying" yaml:"underlying"`
	EntryLookback string `json:"entry_lookback" yaml:"entry_lookback"` // e.g. "1h"
	ExitLookback  string `json:"exit_lookback" yaml:"exit_lookback"`   // e.g. "30m"
	Hold          string `json:"hold" yaml:"hold"`                     // wait between entry and exit
	Seed          int64  `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 seeds from the clock
}

// CalendarConfig decides which days are traded
type CalendarConfig struct {
	Timezone string   `json:"timezone" yaml:"timezone"`
	Holidays []string `json:"holidays,omitempty" yaml:"holidays,omitempty"`
}

// JournalConfig contains ledger storage parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ChartConfig controls the rendered dashboard
type ChartConfig struct {
	Output string `json:"output" yaml:"output"`
	Title  string `json:"title" yaml:"title"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug | info | warn | error
	Format string `json:"format" yaml:"format"` // text | json
}

// LoadFromFile loads configuration from a file (YAML or JSON), then applies
// .env and environment overrides. Fields the file leaves empty keep their
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load is LoadFromFile, except a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		cfg, err := LoadFromFile(path)
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg := Default()
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv loads .env if present and lets environment variables override
// the file. API keys are normally only supplied this way.
func ApplyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Provider.KeyID = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.Provider.SecretKey = v
	}
	if v := os.Getenv("COINFLIP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COINFLIP_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
// Credentials are never written.
func (c *Config) SaveToFile(path string) error {
	out := *c
	out.Provider.KeyID = ""
	out.Provider.SecretKey = ""

	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(&out)
	} else {
		data, err = json.MarshalIndent(&out, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Strategy.Underlying == "" {
		return fmt.Errorf("strategy.underlying is required")
	}
	if err := checkDuration("strategy.entry_lookback", c.Strategy.EntryLookback, false); err != nil {
		return err
	}
	if err := checkDuration("strategy.exit_lookback", c.Strategy.ExitLookback, false); err != nil {
		return err
	}
	if err := checkDuration("strategy.hold", c.Strategy.Hold, true); err != nil {
		return err
	}
	if _, err := market.NewCalendar(c.Calendar.Timezone, c.Calendar.Holidays); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && c.Journal.TradesFile == "" {
		return fmt.Errorf("journal trades_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	if c.Chart.Output == "" {
		return fmt.Errorf("chart.output is required")
	}
	if c.Provider.RatePerSec < 0 {
		return fmt.Errorf("provider.rate_per_sec must not be negative")
	}
	if err := checkDuration("provider.timeout", c.Provider.Timeout, true); err != nil {
		return err
	}
	return nil
}

// EntryLookback is how far back the entry price may come from.
func (c *Config) EntryLookback() time.Duration { return mustDuration(c.Strategy.EntryLookback) }

// ExitLookback is how far back the exit price may come from.
func (c *Config) ExitLookback() time.Duration { return mustDuration(c.Strategy.ExitLookback) }

func (c *Config) Hold() time.Duration { return mustDuration(c.Strategy.Hold) }

func (c *Config) Timeout() time.Duration { return mustDuration(c.Provider.Timeout) }

// TradingCalendar builds the trading calendar. The config must have been validated.
func (c *Config) TradingCalendar() *market.Calendar {
	cal, err := market.NewCalendar(c.Calendar.Timezone, c.Calendar.Holidays)
	if err != nil {
		return &market.Calendar{Location: time.UTC}
	}
	return cal
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			TradingURL: "https://paper-api.alpaca.markets",
			DataURL:    "https://data.alpaca.markets",
			Feed:       "iex",
			RatePerSec: 3,
			Timeout:    "30s",
		},
		Strategy: StrategyConfig{
			Underlying:    "SPY",
			EntryLookback: "1h",
			ExitLookback:  "30m",
			Hold:          "0s",
		},
		Calendar: CalendarConfig{
			Timezone: "America/New_York",
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "data/trades.csv",
		},
		Chart: ChartConfig{
			Output: "docs/index.html",
			Title:  "Coin Flip Options Strategy on SPY",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// checkDuration validates a duration field. Empty counts as zero.
func checkDuration(field, s string, zeroOK bool) error {
	var d time.Duration
	if s != "" {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if d < 0 || (d == 0 && !zeroOK) {
		return fmt.Errorf("%s must be positive", field)
	}
	return nil
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
