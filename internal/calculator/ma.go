package calculator

import (
	"errors"

	"FuturesBacktest/internal/model"
)

// SMASeries computes the rolling simple moving average of values.
// The result has the same length as the input; entries before the window
// fills are undefined.
func SMASeries(values []float64, period int) ([]model.Sample, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]model.Sample, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = model.Some(sum / float64(period))
		}
	}
	return out, nil
}
