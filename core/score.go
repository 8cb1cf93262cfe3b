package core

import "fmt"

// Score is the outcome of a similarity evaluation. A score is either a value
// in [0,1] or undefined, which happens for spans without any embeddable
// content. Comparisons involving an undefined score are always false.
type Score struct {
	Value   float64
	Defined bool
}

// Undefined is the score of a degenerate span.
var Undefined = Score{}

// ScoreOf returns a defined score, clamped to [0,1].
func ScoreOf(v float64) Score {
	if v != v { // NaN
		return Undefined
	}
	return Score{Value: min(max(v, 0), 1), Defined: true}
}

// Exceeds reports whether the score is defined and strictly above threshold.
func (s Score) Exceeds(threshold float64) bool {
	return s.Defined && s.Value > threshold
}

// Improves reports whether both scores are defined and s is strictly better than baseline.
func (s Score) Improves(baseline Score) bool {
	return s.Defined && baseline.Defined && s.Value > baseline.Value
}

func (s Score) String() string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", s.Value)
}
