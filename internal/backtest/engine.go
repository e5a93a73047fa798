package backtest

import (
	"errors"
	"fmt"

	"FuturesBacktest/internal/model"
	"FuturesBacktest/internal/risk"
)

// Engine replays raw strategy signals over a bar series, one bar at a time,
// and produces a portfolio trajectory. The risk manager is an optional
// dependency fixed at construction: when present it gates signals by trend,
// throttles position size by volatility, and checks trailing stops; when nil
// signals execute unfiltered at the base position ratio.
//
// The engine holds no run state between calls. Identical bars, signals and
// configuration always reproduce an identical trajectory.
type Engine struct {
	cfg  Config
	risk *risk.Manager
}

// NewEngine creates an engine, filling unset config fields with defaults.
// InitialCash is required.
func NewEngine(cfg Config, rm *risk.Manager) (*Engine, error) {
	if cfg.InitialCash <= 0 {
		return nil, errors.New("backtest: initial cash must be positive")
	}
	def := DefaultConfig()
	if cfg.PositionRatio <= 0 || cfg.PositionRatio > 1 {
		cfg.PositionRatio = def.PositionRatio
	}
	if cfg.CommissionRate < 0 {
		cfg.CommissionRate = def.CommissionRate
	}
	return &Engine{cfg: cfg, risk: rm}, nil
}

// Run executes the bar-by-bar simulation and returns the portfolio
// trajectory, starting at bar index 1 (bar 0 has no prior state to mark
// against). signals must be the same length as bars.
//
// Per bar, in priority order: trailing-stop exit, entry when flat,
// signal-flat exit, then mark-to-market at the close. A stop exit on a bar
// suppresses re-entry on that same bar.
func (e *Engine) Run(bars []model.Bar, signals []int) (*Result, error) {
	if len(signals) != len(bars) {
		return nil, fmt.Errorf("backtest: %d signals for %d bars", len(signals), len(bars))
	}
	for i, s := range signals {
		if !model.ValidSignal(s) {
			return nil, fmt.Errorf("backtest: invalid signal %d at bar %d", s, i)
		}
	}
	if e.risk != nil {
		signals = e.risk.FilterSignals(bars, signals)
	}

	cash := e.cfg.InitialCash
	position := 0.0 // signed quantity, sign encodes direction
	entryIdx := -1
	trajectory := make([]TrajectoryPoint, 0, max(len(bars)-1, 0))

	for i := 1; i < len(bars); i++ {
		price := bars[i].Close
		signal := signals[i]
		stopped := false

		// 1. Trailing-stop exit takes priority over everything else this bar.
		if position != 0 && e.risk != nil {
			direction := model.SignalLong
			if position < 0 {
				direction = model.SignalShort
			}
			if e.risk.ShouldExit(bars, entryIdx, i, direction) {
				cash = e.closePosition(cash, position, price)
				position = 0
				entryIdx = -1
				stopped = true
			}
		}

		switch {
		case stopped:
			// no re-entry on the bar the stop fired

		// 2. Entry.
		case position == 0 && signal != model.SignalFlat:
			ratio := e.cfg.PositionRatio
			if e.risk != nil {
				ratio = e.risk.AdjustedRatio(bars[:i+1], ratio)
			}
			notional := cash * ratio
			qty := notional / price
			if signal == model.SignalLong {
				position = qty
				cash -= notional
			} else {
				// Short notional is borrowed, only the commission is paid now.
				position = -qty
				cash -= notional * e.cfg.CommissionRate
			}
			entryIdx = i

		// 3. Signal-flat exit.
		case position != 0 && signal == model.SignalFlat:
			cash = e.closePosition(cash, position, price)
			position = 0
			entryIdx = -1
		}

		// 4. Mark-to-market. Signed quantity makes this uniform for both sides.
		trajectory = append(trajectory, TrajectoryPoint{
			BarIndex:       i,
			PortfolioValue: cash + position*price,
			Return:         model.None(),
		})
	}

	for i := 1; i < len(trajectory); i++ {
		prev := trajectory[i-1].PortfolioValue
		if prev != 0 {
			trajectory[i].Return = model.Some(trajectory[i].PortfolioValue/prev - 1)
		}
	}
	return &Result{Trajectory: trajectory}, nil
}

func (e *Engine) closePosition(cash, position, price float64) float64 {
	cash += position * price
	notional := position * price
	if notional < 0 {
		notional = -notional
	}
	return cash - notional*e.cfg.CommissionRate
}
