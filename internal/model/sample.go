package model

// Sample is an explicit optional float for rolling computations whose leading
// values are not yet defined. It replaces NaN sentinels so that downstream
// comparisons never operate on undefined values by accident.
type Sample struct {
	Float64 float64
	Valid   bool
}

// Some returns a defined sample.
func Some(v float64) Sample { return Sample{Float64: v, Valid: true} }

// None returns an undefined sample.
func None() Sample { return Sample{} }
