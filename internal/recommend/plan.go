package recommend

import (
	"fmt"
	"math"
)

// ceilEpsilon absorbs float artifacts such as 10*0.3 == 3.0000000000000004.
const ceilEpsilon = 1e-9

// DistributionPlan is the per-strategy question count for one request.
type DistributionPlan struct {
	Distribution map[Strategy]int `json:"distribution"`
	Total        int              `json:"total"`
	Target       int              `json:"target"`
}

// Count returns the planned count for s.
func (p DistributionPlan) Count(s Strategy) int {
	return p.Distribution[s]
}

// Overshoot is how many more questions the plan asks for than the target.
func (p DistributionPlan) Overshoot() int {
	return p.Total - p.Target
}

// Plan splits count across the strategies in weights. Each strategy receives
// ceil(count * weight), so Total is never below count for tables that sum to
// 1.0. Tables that sum slightly under 1.0 (inside SumTolerance) can leave
// Total short of count; the shortfall is then added to the heaviest
// strategy, whose count ends up above its ceil(count * weight).
func Plan(count int, weights WeightTable) (DistributionPlan, error) {
	if count < 0 {
		return DistributionPlan{}, fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidArgument, count)
	}

	plan := DistributionPlan{
		Distribution: make(map[Strategy]int, len(Strategies)),
		Target:       count,
	}

	heaviest := Strategies[0]
	for _, s := range Strategies {
		w := weights.Get(s)
		if w < 0 || math.IsNaN(w) {
			return DistributionPlan{}, fmt.Errorf("%w: %s has weight %v", ErrInvalidArgument, s, w)
		}
		if w > weights.Get(heaviest) {
			heaviest = s
		}

		n := 0
		if count > 0 && w > 0 {
			n = int(math.Ceil(float64(count)*w - ceilEpsilon))
		}
		plan.Distribution[s] = n
		plan.Total += n
	}

	if plan.Total < count && weights.Sum() >= 1.0-SumTolerance-ceilEpsilon {
		short := count - plan.Total
		plan.Distribution[heaviest] += short
		plan.Total += short
	}

	return plan, nil
}
