package strategy

import (
	"testing"

	"FuturesBacktest/internal/model"
)

func barsFromCloses(closes []float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{High: c + 1, Low: c - 1, Close: c}
	}
	return bars
}

func TestMAStrategy_Crossover(t *testing.T) {
	s := NewMAStrategy(2, 3)
	// Rising then falling closes: fast SMA leads the slow one in both
	// directions once the windows fill.
	bars := barsFromCloses([]float64{100, 101, 102, 103, 100, 97, 94})
	got := s.GenerateSignals(bars)

	if len(got) != len(bars) {
		t.Fatalf("expected %d signals, got %d", len(bars), len(got))
	}
	for i := 0; i < 2; i++ {
		if got[i] != model.SignalFlat {
			t.Errorf("bar %d: expected flat before windows fill, got %d", i, got[i])
		}
	}
	// Uptrend bars: fast above slow.
	for _, i := range []int{2, 3} {
		if got[i] != model.SignalLong {
			t.Errorf("bar %d: expected long, got %d", i, got[i])
		}
	}
	// Downtrend bars: fast below slow.
	for _, i := range []int{5, 6} {
		if got[i] != model.SignalShort {
			t.Errorf("bar %d: expected short, got %d", i, got[i])
		}
	}
}

func TestMAStrategy_DefaultsPeriods(t *testing.T) {
	s := NewMAStrategy(0, 0)
	if s.fastPeriod != 5 || s.slowPeriod != 20 {
		t.Errorf("expected default periods 5/20, got %d/%d", s.fastPeriod, s.slowPeriod)
	}
}

func TestMAStrategy_ShortSeries(t *testing.T) {
	s := NewMAStrategy(5, 20)
	for i, sig := range s.GenerateSignals(barsFromCloses([]float64{100, 101})) {
		if sig != model.SignalFlat {
			t.Errorf("bar %d: expected flat on short series, got %d", i, sig)
		}
	}
}

func TestNew_Factory(t *testing.T) {
	s, err := New(Config{Type: "ma_cross", FastPeriod: 3, SlowPeriod: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name() != "ma_cross" {
		t.Errorf("expected ma_cross, got %s", s.Name())
	}

	if _, err := New(Config{Type: "macd"}); err == nil {
		t.Error("expected error for unknown strategy type")
	}
}
