package strategy

import (
	"fmt"

	"FuturesBacktest/internal/model"
)

// Strategy produces raw directional signals from a bar series: 1 to open
// long, -1 to open short, 0 for no position. Signals are raw; risk filtering
// happens downstream in the execution engine.
type Strategy interface {
	Name() string
	GenerateSignals(bars []model.Bar) []int
}

// Config carries strategy parameters from the configuration file.
type Config struct {
	Type       string `yaml:"type"`
	FastPeriod int    `yaml:"fast_period"`
	SlowPeriod int    `yaml:"slow_period"`
}

// New creates a strategy by type name.
func New(cfg Config) (Strategy, error) {
	switch cfg.Type {
	case "", "ma_cross":
		return NewMAStrategy(cfg.FastPeriod, cfg.SlowPeriod), nil
	default:
		return nil, fmt.Errorf("unknown strategy type: %s", cfg.Type)
	}
}
