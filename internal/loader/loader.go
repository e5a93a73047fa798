package loader

import (
	"sort"
	"time"

	"FuturesBacktest/internal/model"
)

// Source loads an ordered bar series for one instrument.
type Source interface {
	Name() string
	Load(instrument string) ([]model.Bar, error)
}

// Clean drops bars with missing or non-positive prices and sorts the series
// by time, so the engine can assume a strictly increasing index.
func Clean(bars []model.Bar) []model.Bar {
	out := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// Slice returns the bars within [from, to]. Zero bounds are open.
func Slice(bars []model.Bar, from, to time.Time) []model.Bar {
	out := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if !from.IsZero() && b.Time.Before(from) {
			continue
		}
		if !to.IsZero() && b.Time.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}
