package backtest

import (
	"errors"
	"math"
)

// DefaultRiskFreeRate is the annual risk-free rate used for the Sharpe ratio.
const DefaultRiskFreeRate = 0.03

// tradingDaysPerYear is the annualization factor for daily bars.
const tradingDaysPerYear = 252

// ComputeMetrics derives performance metrics from a completed run. Asking for
// metrics without a run result is a caller bug and fails with an error rather
// than computing on absent data.
//
// SharpeRatio is NaN when the excess-return standard deviation is zero
// (perfectly flat returns): the ratio is undefined, not infinite.
func ComputeMetrics(res *Result, riskFreeRate float64) (Metrics, error) {
	if res == nil || len(res.Trajectory) == 0 {
		return Metrics{}, errors.New("backtest: no run result; run a backtest before requesting metrics")
	}
	returns := res.Returns()
	if len(returns) == 0 {
		return Metrics{}, errors.New("backtest: run produced no returns; need at least three bars")
	}

	total := 1.0
	for _, r := range returns {
		total *= 1 + r
	}

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate/tradingDaysPerYear
	}
	sharpe := math.NaN()
	if sd := stddev(excess); sd != 0 && !math.IsNaN(sd) {
		sharpe = mean(excess) / sd * math.Sqrt(tradingDaysPerYear)
	}

	return Metrics{
		TotalReturn:  total - 1,
		AnnualReturn: mean(returns) * tradingDaysPerYear,
		SharpeRatio:  sharpe,
		MaxDrawdown:  maxDrawdown(returns),
		Volatility:   stddev(returns) * math.Sqrt(tradingDaysPerYear),
	}, nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation (n-1 denominator).
// Returns NaN for fewer than two values.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// maxDrawdown is the minimum of cumulative/runningPeak - 1 over the
// compounded return series.
func maxDrawdown(returns []float64) float64 {
	cumulative := 1.0
	peak := math.Inf(-1)
	minDD := 0.0
	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		dd := cumulative/peak - 1
		if dd < minDD {
			minDD = dd
		}
	}
	return minDD
}
