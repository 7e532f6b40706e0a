package simulation

import (
	"fmt"
	"time"
)

// Output collects the results of a completed run. Values preserves trial
// order (not semantically meaningful, but stable for a seeded source).
// Repaired counts the trials whose discount/terminal-growth pair had to be
// repaired; it is diagnostic, never an error.
type Output struct {
	Values   []float64 `json:"values"`
	Repaired int       `json:"repaired_trials"`
}

// InvalidInputError reports a base cash flow that cannot seed a run: missing,
// zero, or negative. Surfaced before any simulation work begins.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid base input: %s", e.Reason)
}

// Run executes cfg.Iterations independent trials of the DCF projection, each
// with freshly drawn growth, discount, and terminal-growth rates, and returns
// the full sequence of enterprise-value estimates.
//
// Preconditions are checked up front; a validation failure is terminal and no
// trial runs. If src is nil a time-seeded source is used, which makes the run
// non-reproducible; pass NewSeededSource for deterministic output.
func Run(baseFCF float64, cfg Config, src Source) (*Output, error) {
	if baseFCF <= 0 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("base free cash flow must be positive, got %v", baseFCF)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSeededSource(time.Now().UnixNano())
	}

	out := &Output{Values: make([]float64, 0, cfg.Iterations)}
	for i := 0; i < cfg.Iterations; i++ {
		growth := cfg.GrowthRateMean + cfg.GrowthRateStd*src.NormFloat64()
		discount := cfg.DiscountRateMean + cfg.DiscountRateStd*src.NormFloat64()
		terminal := cfg.TerminalGrowthMean + cfg.TerminalGrowthStd*src.NormFloat64()

		value, repaired := EvaluateTrial(baseFCF, cfg.ForecastYears, growth, discount, terminal)
		if repaired {
			out.Repaired++
		}
		out.Values = append(out.Values, value)
	}
	return out, nil
}
