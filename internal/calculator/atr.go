package calculator

import (
	"errors"
	"math"

	"FuturesBacktest/internal/model"
)

// TrueRangeSeries computes the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|).
// The first bar has no previous close, so its true range is high-low.
func TrueRangeSeries(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			out[i] = b.High - b.Low
			continue
		}
		prevClose := bars[i-1].Close
		tr := b.High - b.Low
		if hc := math.Abs(b.High - prevClose); hc > tr {
			tr = hc
		}
		if lc := math.Abs(b.Low - prevClose); lc > tr {
			tr = lc
		}
		out[i] = tr
	}
	return out
}

// ATRSeries computes the Average True Range as an exponentially weighted
// moving average of the true range with span smoothing (alpha = 2/(period+1)).
// The result has the same length as the input. The first bar's ATR is
// undefined; it only seeds the smoothing. Every defined value is non-negative.
func ATRSeries(bars []model.Bar, period int) ([]model.Sample, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]model.Sample, len(bars))
	if len(bars) == 0 {
		return out, nil
	}
	tr := TrueRangeSeries(bars)
	alpha := 2.0 / (float64(period) + 1.0)
	ewma := tr[0]
	for i := 1; i < len(tr); i++ {
		ewma = alpha*tr[i] + (1.0-alpha)*ewma
		out[i] = model.Some(ewma)
	}
	return out, nil
}
