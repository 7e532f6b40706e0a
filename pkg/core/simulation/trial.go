package simulation

import "math"

// repairFloor is the fixed spread forced between discount and terminal growth
// rates when a trial draws a degenerate pair. One percentage point, never
// re-sampled.
const repairFloor = 0.01

// EvaluateTrial converts one set of sampled parameters plus a baseline free
// cash flow into a single present-value enterprise estimate.
//
// Projection: year y in [1, forecastYears] projects baseFCF*(1+g)^y and
// discounts it by (1+d)^y. The terminal value capitalizes the final projected
// cash flow with the Gordon Growth Model, TV = FCF_n*(1+tg)/(d-tg), and is
// discounted by (1+d)^n.
//
// Degeneracy repair: if discountRate <= terminalGrowthRate the discount rate
// is silently replaced by terminalGrowthRate + 0.01 before anything else runs.
// This keeps the Gordon denominator positive, but note that it truncates the
// left tail of the discount-rate distribution whenever the sampled std is
// large relative to the discount/terminal-growth gap. The second return value
// reports whether the repair fired so callers can count occurrences.
//
// Deterministic, no side effects; randomness lives upstream in the sampler.
func EvaluateTrial(baseFCF float64, forecastYears int, growthRate, discountRate, terminalGrowthRate float64) (float64, bool) {
	repaired := false
	if discountRate <= terminalGrowthRate {
		discountRate = terminalGrowthRate + repairFloor
		repaired = true
	}

	// Explicit forecast period: project and discount each year's cash flow.
	var pv float64
	for year := 1; year <= forecastYears; year++ {
		projected := baseFCF * math.Pow(1+growthRate, float64(year))
		pv += projected / math.Pow(1+discountRate, float64(year))
	}

	// Terminal value from the last projected (undiscounted) cash flow.
	lastFCF := baseFCF * math.Pow(1+growthRate, float64(forecastYears))
	terminalValue := lastFCF * (1 + terminalGrowthRate) / (discountRate - terminalGrowthRate)
	pv += terminalValue / math.Pow(1+discountRate, float64(forecastYears))

	return pv, repaired
}
