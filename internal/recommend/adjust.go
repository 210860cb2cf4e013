package recommend

import "math"

const (
	// LowSuccessThreshold is the success rate below which weights shift
	// toward weak-area reinforcement.
	LowSuccessThreshold = 0.4

	adjustStep       = 0.1
	weakAreaCap      = 0.7
	progressiveFloor = 0.1
)

// Adjust returns a new weight table tuned to the user's recent success rate.
//
// When successRate is below LowSuccessThreshold, weak-area reinforcement gains
// 0.1 (capped at 0.7) and progressive difficulty loses 0.1 (floored at 0.1).
// Otherwise the result equals the input. The input is never mutated and the
// result is not renormalized.
func Adjust(weights WeightTable, successRate float64) WeightTable {
	adjusted := weights.Clone()
	if successRate >= LowSuccessThreshold {
		return adjusted
	}

	weak := math.Min(weights.Get(StrategyWeakArea)+adjustStep, weakAreaCap)
	progressive := math.Max(weights.Get(StrategyProgressive)-adjustStep, progressiveFloor)

	adjusted[StrategyWeakArea] = round6(weak)
	adjusted[StrategyProgressive] = round6(progressive)
	return adjusted
}
