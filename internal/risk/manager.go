package risk

import (
	"FuturesBacktest/internal/calculator"
	"FuturesBacktest/internal/model"
)

// minSwingSample is the smallest swing window considered meaningful.
// Below it the trailing stop falls back to a hard stop at the entry close.
const minSwingSample = 5

// Config holds the risk filter parameters.
type Config struct {
	TrendMAPeriod int `yaml:"trend_ma_period"`
	ATRPeriod     int `yaml:"atr_period"`
	ATRLookback   int `yaml:"atr_lookback"`
	// VolatilityThreshold is the ATR percentile (0-100) at or above which
	// the position ratio is halved. nil selects the default; an explicit
	// zero is valid and throttles at every percentile.
	VolatilityThreshold *float64 `yaml:"volatility_threshold"`
	SwingPeriod         int      `yaml:"swing_period"`
}

// Threshold returns a volatility threshold value for Config.
func Threshold(v float64) *float64 { return &v }

// DefaultConfig returns the standard risk parameters.
func DefaultConfig() Config {
	return Config{
		TrendMAPeriod:       200,
		ATRPeriod:           14,
		ATRLookback:         100,
		VolatilityThreshold: Threshold(80),
		SwingPeriod:         20,
	}
}

// Manager classifies trend, throttles position size by volatility, and
// detects trailing-stop exits. All methods are pure functions of their
// arguments; the manager holds configuration only and retains no state
// between calls.
type Manager struct {
	cfg Config
}

// NewManager creates a risk manager, filling unset config fields with defaults.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.TrendMAPeriod <= 0 {
		cfg.TrendMAPeriod = def.TrendMAPeriod
	}
	if cfg.ATRPeriod <= 0 {
		cfg.ATRPeriod = def.ATRPeriod
	}
	if cfg.ATRLookback <= 0 {
		cfg.ATRLookback = def.ATRLookback
	}
	if cfg.VolatilityThreshold == nil {
		cfg.VolatilityThreshold = def.VolatilityThreshold
	}
	if cfg.SwingPeriod <= 0 {
		cfg.SwingPeriod = def.SwingPeriod
	}
	return &Manager{cfg: cfg}
}

// Config returns the manager's effective configuration.
func (m *Manager) Config() Config { return m.cfg }

// TrendSignals classifies each bar as uptrend (1), downtrend (-1) or neutral
// (0) by comparing the close against its trend moving average. A series
// shorter than the MA period asserts no trend anywhere: every bar is 0.
// A tie between close and MA is neutral.
func (m *Manager) TrendSignals(bars []model.Bar) []int {
	out := make([]int, len(bars))
	if len(bars) < m.cfg.TrendMAPeriod {
		return out
	}
	closes := model.Closes(bars)
	sma, err := calculator.SMASeries(closes, m.cfg.TrendMAPeriod)
	if err != nil {
		return out
	}
	for i := range bars {
		if !sma[i].Valid {
			continue
		}
		switch {
		case closes[i] > sma[i].Float64:
			out[i] = model.SignalLong
		case closes[i] < sma[i].Float64:
			out[i] = model.SignalShort
		}
	}
	return out
}

// FilterSignals gates raw directional signals with the trend classifier:
// a non-zero signal passes only on a bar whose trend agrees with it.
func (m *Manager) FilterSignals(bars []model.Bar, raw []int) []int {
	trend := m.TrendSignals(bars)
	out := make([]int, len(raw))
	for i, s := range raw {
		if i < len(trend) && (s == model.SignalFlat || s == trend[i]) {
			out[i] = s
		}
	}
	return out
}

// AdjustedRatio throttles the base position ratio when current volatility is
// elevated. With fewer bars than the ATR lookback it fails open and returns
// the base ratio unchanged. Otherwise the latest ATR is ranked against the
// last lookback ATR values; a percentile at or above the threshold halves the
// ratio. The rank counts values strictly below the current one, so the
// current value never ranks against itself.
func (m *Manager) AdjustedRatio(bars []model.Bar, baseRatio float64) float64 {
	if len(bars) < m.cfg.ATRLookback {
		return baseRatio
	}
	atr, err := calculator.ATRSeries(bars, m.cfg.ATRPeriod)
	if err != nil {
		return baseRatio
	}
	current := atr[len(atr)-1]
	if !current.Valid {
		return baseRatio
	}
	window := atr[len(atr)-m.cfg.ATRLookback:]
	below := 0
	for _, s := range window {
		if s.Valid && s.Float64 < current.Float64 {
			below++
		}
	}
	percentile := float64(below) / float64(len(window)) * 100
	if percentile >= *m.cfg.VolatilityThreshold {
		return baseRatio / 2
	}
	return baseRatio
}

// ShouldExit reports whether a trailing stop fires for a position opened at
// entryIdx, evaluated at the close of curIdx. direction is 1 for long, -1 for
// short.
//
// The stop level is the worst excursion since entry: the minimum low (long)
// or maximum high (short) over the bars held, excluding the bar being
// evaluated, so the level ratchets as new extremes form. Positions held
// fewer than five bars use a hard stop at the entry close instead, since the
// swing window is too small to be meaningful. A price gap through the stop
// level still exits at the current close; the fill is not adjusted.
func (m *Manager) ShouldExit(bars []model.Bar, entryIdx, curIdx, direction int) bool {
	if entryIdx < 0 || curIdx <= entryIdx || curIdx >= len(bars) {
		return false
	}
	cur := bars[curIdx].Close

	barsHeld := curIdx - entryIdx
	lookback := barsHeld
	if m.cfg.SwingPeriod < lookback {
		lookback = m.cfg.SwingPeriod
	}
	if lookback < minSwingSample {
		entryClose := bars[entryIdx].Close
		if direction == model.SignalLong {
			return cur < entryClose
		}
		return cur > entryClose
	}

	if direction == model.SignalLong {
		low := bars[entryIdx].Low
		for i := entryIdx + 1; i < curIdx; i++ {
			if bars[i].Low < low {
				low = bars[i].Low
			}
		}
		return cur < low
	}
	high := bars[entryIdx].High
	for i := entryIdx + 1; i < curIdx; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
	}
	return cur > high
}
