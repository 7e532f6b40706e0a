package simulation

import "fmt"

// Config holds the distributional assumptions for a Monte Carlo DCF run.
// It is built once before a run and never mutated by the engine.
type Config struct {
	ForecastYears int `json:"forecast_years" yaml:"forecast_years"`
	Iterations    int `json:"iterations" yaml:"iterations"`

	// Per-trial cash-flow growth rate ~ Normal(mean, std)
	GrowthRateMean float64 `json:"growth_rate_mean" yaml:"growth_rate_mean"`
	GrowthRateStd  float64 `json:"growth_rate_std" yaml:"growth_rate_std"`

	// Per-trial discount rate ~ Normal(mean, std)
	DiscountRateMean float64 `json:"discount_rate_mean" yaml:"discount_rate_mean"`
	DiscountRateStd  float64 `json:"discount_rate_std" yaml:"discount_rate_std"`

	// Per-trial terminal growth rate ~ Normal(mean, std)
	TerminalGrowthMean float64 `json:"terminal_growth_mean" yaml:"terminal_growth_mean"`
	TerminalGrowthStd  float64 `json:"terminal_growth_std" yaml:"terminal_growth_std"`
}

// DefaultConfig returns the baseline assumption set: a 5-year horizon,
// 5000 trials, 5% +/- 2% growth, 8% +/- 1% discount, 2% +/- 0.5% terminal growth.
func DefaultConfig() Config {
	return Config{
		ForecastYears:      5,
		Iterations:         5000,
		GrowthRateMean:     0.05,
		GrowthRateStd:      0.02,
		DiscountRateMean:   0.08,
		DiscountRateStd:    0.01,
		TerminalGrowthMean: 0.02,
		TerminalGrowthStd:  0.005,
	}
}

// InvalidConfigError reports a configuration that fails validation.
// It is surfaced before any trial runs; the run does not start.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s %s", e.Field, e.Reason)
}

// Validate checks the run invariants: positive horizon and trial count,
// non-negative standard deviations.
func (c Config) Validate() error {
	if c.ForecastYears < 1 {
		return &InvalidConfigError{Field: "forecast_years", Reason: "must be >= 1"}
	}
	if c.Iterations < 1 {
		return &InvalidConfigError{Field: "iterations", Reason: "must be >= 1"}
	}
	if c.GrowthRateStd < 0 {
		return &InvalidConfigError{Field: "growth_rate_std", Reason: "must be >= 0"}
	}
	if c.DiscountRateStd < 0 {
		return &InvalidConfigError{Field: "discount_rate_std", Reason: "must be >= 0"}
	}
	if c.TerminalGrowthStd < 0 {
		return &InvalidConfigError{Field: "terminal_growth_std", Reason: "must be >= 0"}
	}
	return nil
}
