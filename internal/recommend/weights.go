package recommend

import (
	"errors"
	"fmt"
	"math"
)

// Strategy names a recommendation heuristic.
type Strategy string

const (
	StrategyWeakArea    Strategy = "weak_area_reinforcement"
	StrategyProgressive Strategy = "progressive_difficulty"
	StrategySpaced      Strategy = "spaced_repetition"
	StrategyExploration Strategy = "topic_exploration"
	StrategyGeneral     Strategy = "general_practice"
)

// Strategies lists every strategy in canonical order. Plans, selectors and
// merged recommendation lists all iterate in this order.
var Strategies = []Strategy{
	StrategyWeakArea,
	StrategyProgressive,
	StrategySpaced,
	StrategyExploration,
	StrategyGeneral,
}

// SumTolerance is how far a weight table may drift from 1.0 and still be valid.
const SumTolerance = 0.01

var (
	ErrInvalidWeights  = errors.New("invalid weight table")
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsValid reports whether s is one of the known strategies.
func (s Strategy) IsValid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

// WeightTable maps each strategy to its share of a recommendation batch.
type WeightTable map[Strategy]float64

// DefaultWeights returns a fresh copy of the built-in weight table.
func DefaultWeights() WeightTable {
	return WeightTable{
		StrategyWeakArea:    0.4,
		StrategyProgressive: 0.3,
		StrategySpaced:      0.2,
		StrategyExploration: 0.07,
		StrategyGeneral:     0.03,
	}
}

// Get returns the weight for s, or 0 when it is absent.
func (w WeightTable) Get(s Strategy) float64 {
	return w[s]
}

// Sum returns the total of all weights.
func (w WeightTable) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Clone returns an independent copy of the table.
func (w WeightTable) Clone() WeightTable {
	out := make(WeightTable, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Equal reports whether both tables hold the same weights within 1e-9.
func (w WeightTable) Equal(other WeightTable) bool {
	if len(w) != len(other) {
		return false
	}
	for k, v := range w {
		ov, ok := other[k]
		if !ok || math.Abs(v-ov) > 1e-9 {
			return false
		}
	}
	return true
}

// Validate checks that the table names every strategy exactly once, holds no
// negative weight, and sums to 1.0 within SumTolerance.
func (w WeightTable) Validate() error {
	for k := range w {
		if !k.IsValid() {
			return fmt.Errorf("%w: unknown strategy %q", ErrInvalidWeights, k)
		}
	}
	for _, s := range Strategies {
		v, ok := w[s]
		if !ok {
			return fmt.Errorf("%w: missing strategy %q", ErrInvalidWeights, s)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s has weight %v", ErrInvalidWeights, s, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > SumTolerance+1e-9 {
		return fmt.Errorf("%w: weights sum to %.4f, must sum to 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

// Normalize returns a copy scaled so the canonical strategies sum to 1.0.
// A table whose weights are all zero becomes an equal split.
func (w WeightTable) Normalize() WeightTable {
	var sum float64
	for _, s := range Strategies {
		if v := w[s]; v > 0 {
			sum += v
		}
	}

	out := make(WeightTable, len(Strategies))
	if sum == 0 {
		equal := 1.0 / float64(len(Strategies))
		for _, s := range Strategies {
			out[s] = equal
		}
		return out
	}

	for _, s := range Strategies {
		v := w[s]
		if v < 0 {
			v = 0
		}
		out[s] = v / sum
	}
	return out
}

// round6 trims float drift from repeated additions so persisted weights
// read back as the values a person would write.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
