package calculator

import (
	"testing"

	"FuturesBacktest/internal/model"
)

func barsFromHLC(highs, lows, closes []float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i := range closes {
		bars[i] = model.Bar{High: highs[i], Low: lows[i], Close: closes[i]}
	}
	return bars
}

func TestTrueRangeSeries(t *testing.T) {
	bars := barsFromHLC(
		[]float64{102, 105, 103},
		[]float64{98, 101, 95},
		[]float64{100, 104, 96},
	)
	tr := TrueRangeSeries(bars)

	// First bar has no previous close: high-low only.
	if tr[0] != 4 {
		t.Errorf("first true range: expected 4, got %v", tr[0])
	}
	// Second bar: max(105-101, |105-100|, |101-100|) = 5.
	if tr[1] != 5 {
		t.Errorf("second true range: expected 5, got %v", tr[1])
	}
	// Third bar: max(103-95, |103-104|, |95-104|) = 9.
	if tr[2] != 9 {
		t.Errorf("third true range: expected 9, got %v", tr[2])
	}
}

func TestATRSeries_FirstBarUndefined(t *testing.T) {
	bars := barsFromHLC(
		[]float64{102, 103, 104, 105},
		[]float64{98, 99, 100, 101},
		[]float64{100, 101, 102, 103},
	)
	atr, err := ATRSeries(bars, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(atr) != len(bars) {
		t.Fatalf("expected %d values, got %d", len(bars), len(atr))
	}
	if atr[0].Valid {
		t.Error("ATR of the first bar must be undefined")
	}
	for i := 1; i < len(atr); i++ {
		if !atr[i].Valid {
			t.Errorf("ATR at bar %d should be defined", i)
		}
		if atr[i].Float64 < 0 {
			t.Errorf("ATR at bar %d is negative: %v", i, atr[i].Float64)
		}
	}
}

func TestATRSeries_ConstantRange(t *testing.T) {
	// Identical bars: true range is constant, so the smoothed value is too.
	highs := make([]float64, 10)
	lows := make([]float64, 10)
	closes := make([]float64, 10)
	for i := range highs {
		highs[i], lows[i], closes[i] = 101, 99, 100
	}
	atr, err := ATRSeries(barsFromHLC(highs, lows, closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(atr); i++ {
		if atr[i].Float64 != 2 {
			t.Errorf("bar %d: expected ATR 2, got %v", i, atr[i].Float64)
		}
	}
}

func TestATRSeries_BadPeriod(t *testing.T) {
	if _, err := ATRSeries(nil, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestATRSeries_Empty(t *testing.T) {
	atr, err := ATRSeries(nil, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(atr) != 0 {
		t.Errorf("expected empty series, got %d values", len(atr))
	}
}
