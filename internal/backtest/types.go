package backtest

import "FuturesBacktest/internal/model"

// Config holds the execution parameters of a backtest run.
type Config struct {
	// InitialCash has no safe default and must be supplied by the caller.
	InitialCash    float64 `yaml:"initial_cash"`
	PositionRatio  float64 `yaml:"position_ratio"`
	CommissionRate float64 `yaml:"commission_rate"`
}

// DefaultConfig returns the standard execution parameters, without an
// initial cash amount.
func DefaultConfig() Config {
	return Config{
		PositionRatio:  0.3,
		CommissionRate: 0.0001,
	}
}

// TrajectoryPoint is the portfolio state marked at the close of one bar.
type TrajectoryPoint struct {
	BarIndex       int
	PortfolioValue float64
	// Return is the simple return against the previous point.
	// The first point of a run has no previous value and is undefined.
	Return model.Sample
}

// Result is the output of one backtest run: the portfolio trajectory,
// starting at bar index 1. It is immutable once Run returns.
type Result struct {
	Trajectory []TrajectoryPoint
}

// Returns extracts the defined per-bar returns from the trajectory.
func (r *Result) Returns() []float64 {
	out := make([]float64, 0, len(r.Trajectory))
	for _, p := range r.Trajectory {
		if p.Return.Valid {
			out = append(out, p.Return.Float64)
		}
	}
	return out
}

// Metrics summarizes the risk-adjusted performance of a run.
type Metrics struct {
	TotalReturn  float64
	AnnualReturn float64
	SharpeRatio  float64
	MaxDrawdown  float64
	Volatility   float64
}
