package strategy

import (
	"FuturesBacktest/internal/calculator"
	"FuturesBacktest/internal/model"
)

// MAStrategy is a dual moving-average crossover: long while the fast SMA is
// above the slow SMA, short while below, flat where either average is still
// undefined or the two are equal.
type MAStrategy struct {
	fastPeriod int
	slowPeriod int
}

// NewMAStrategy creates an MA crossover strategy. Non-positive periods fall
// back to the defaults of 5 and 20.
func NewMAStrategy(fast, slow int) *MAStrategy {
	if fast <= 0 {
		fast = 5
	}
	if slow <= 0 {
		slow = 20
	}
	return &MAStrategy{fastPeriod: fast, slowPeriod: slow}
}

func (s *MAStrategy) Name() string { return "ma_cross" }

// GenerateSignals returns a same-length signal series.
func (s *MAStrategy) GenerateSignals(bars []model.Bar) []int {
	signals := make([]int, len(bars))
	closes := model.Closes(bars)
	fast, err := calculator.SMASeries(closes, s.fastPeriod)
	if err != nil {
		return signals
	}
	slow, err := calculator.SMASeries(closes, s.slowPeriod)
	if err != nil {
		return signals
	}
	for i := range bars {
		if !fast[i].Valid || !slow[i].Valid {
			continue
		}
		switch {
		case fast[i].Float64 > slow[i].Float64:
			signals[i] = model.SignalLong
		case fast[i].Float64 < slow[i].Float64:
			signals[i] = model.SignalShort
		}
	}
	return signals
}
