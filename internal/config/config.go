package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"FuturesBacktest/internal/backtest"
	"FuturesBacktest/internal/risk"
	"FuturesBacktest/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		CSVPath    string `yaml:"csv_path"`
		SQLitePath string `yaml:"sqlite_path"`
		Table      string `yaml:"table"`
		Instrument string `yaml:"instrument"`
		Start      string `yaml:"start"`
		End        string `yaml:"end"`
	} `yaml:"data"`
	Strategy strategy.Config `yaml:"strategy"`
	Backtest backtest.Config `yaml:"backtest"`
	Risk     risk.Config     `yaml:"risk"`
	// DisableRiskFilter runs signals unfiltered at the base position ratio.
	DisableRiskFilter bool `yaml:"disable_risk_filter"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; overrides and
// defaults still apply.
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
	if v := os.Getenv("CSV_PATH"); v != "" {
		cfg.Data.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Data.SQLitePath = v
	}
	if v := os.Getenv("INITIAL_CASH"); v != "" {
		if cash, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Backtest.InitialCash = cash
		}
	}

	// Defaults. InitialCash has none: the caller must supply it.
	if cfg.Strategy.Type == "" {
		cfg.Strategy.Type = "ma_cross"
	}
	if cfg.Strategy.FastPeriod == 0 {
		cfg.Strategy.FastPeriod = 5
	}
	if cfg.Strategy.SlowPeriod == 0 {
		cfg.Strategy.SlowPeriod = 20
	}
	if cfg.Backtest.PositionRatio == 0 {
		cfg.Backtest.PositionRatio = 0.3
	}
	if cfg.Backtest.CommissionRate == 0 {
		cfg.Backtest.CommissionRate = 0.0001
	}
	def := risk.DefaultConfig()
	if cfg.Risk.TrendMAPeriod == 0 {
		cfg.Risk.TrendMAPeriod = def.TrendMAPeriod
	}
	if cfg.Risk.ATRPeriod == 0 {
		cfg.Risk.ATRPeriod = def.ATRPeriod
	}
	if cfg.Risk.ATRLookback == 0 {
		cfg.Risk.ATRLookback = def.ATRLookback
	}
	// nil only: an explicit zero threshold is a valid setting and is kept.
	if cfg.Risk.VolatilityThreshold == nil {
		cfg.Risk.VolatilityThreshold = def.VolatilityThreshold
	}
	if cfg.Risk.SwingPeriod == 0 {
		cfg.Risk.SwingPeriod = def.SwingPeriod
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Data.CSVPath == "" && c.Data.SQLitePath == "" {
		return fmt.Errorf("data.csv_path or data.sqlite_path is required")
	}
	if c.Data.SQLitePath != "" && c.Data.Instrument == "" {
		return fmt.Errorf("data.instrument is required with a sqlite source")
	}
	if c.Backtest.InitialCash <= 0 {
		return fmt.Errorf("backtest.initial_cash must be positive")
	}
	if c.Backtest.PositionRatio <= 0 || c.Backtest.PositionRatio > 1 {
		return fmt.Errorf("backtest.position_ratio must be in (0, 1]")
	}
	if t := c.Risk.VolatilityThreshold; t != nil && (*t < 0 || *t > 100) {
		return fmt.Errorf("risk.volatility_threshold must be a 0-100 percentile")
	}
	return nil
}
