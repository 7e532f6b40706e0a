// Package scenario loads run definitions from disk. Scenario files are
// hand-edited, so the loader is deliberately tolerant: HJSON with comments,
// YAML, or plain JSON that gets repaired when sloppy (trailing commas,
// single quotes, unquoted keys).
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"montecarlo_valuation/pkg/core/simulation"
)

// Scenario describes one simulation run: which entity, which assumptions,
// and which seed drives the draws.
type Scenario struct {
	Ticker string `json:"ticker" yaml:"ticker"`

	// BaseFCF overrides retrieval when set; the run uses it directly.
	BaseFCF float64 `json:"base_fcf,omitempty" yaml:"base_fcf,omitempty"`

	Seed        *int64            `json:"seed,omitempty" yaml:"seed,omitempty"`
	Assumptions simulation.Config `json:"assumptions" yaml:"assumptions"`
}

// defaultSeed keeps unseeded scenarios reproducible run-to-run.
const defaultSeed int64 = 42

// Default returns the baseline scenario: default assumptions, seed 42,
// no ticker.
func Default() Scenario {
	seed := defaultSeed
	return Scenario{Seed: &seed, Assumptions: simulation.DefaultConfig()}
}

// Load reads a scenario file, parsing by extension (.hjson, .yaml/.yml, or
// JSON with repair fallback), and fills unset assumption fields from the
// defaults.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("failed to parse YAML scenario %s: %w", path, err)
		}
	case ".hjson":
		if err := hjson.Unmarshal(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("failed to parse HJSON scenario %s: %w", path, err)
		}
	default:
		if err := parseTolerantJSON(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("failed to parse scenario %s: %w", path, err)
		}
	}

	applyDefaults(&s)
	return s, nil
}

// parseTolerantJSON tries strict JSON first, then HJSON, then repaired JSON.
func parseTolerantJSON(data []byte, s *Scenario) error {
	if err := json.Unmarshal(data, s); err == nil {
		return nil
	}
	if err := hjson.Unmarshal(data, s); err == nil {
		return nil
	}
	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return fmt.Errorf("json repair failed: %w", err)
	}
	return json.Unmarshal([]byte(repaired), s)
}

// applyDefaults fills unset fields. Zero stds are meaningful (degenerate
// distributions), so only the structural fields and means default.
func applyDefaults(s *Scenario) {
	def := simulation.DefaultConfig()
	if s.Assumptions.ForecastYears == 0 {
		s.Assumptions.ForecastYears = def.ForecastYears
	}
	if s.Assumptions.Iterations == 0 {
		s.Assumptions.Iterations = def.Iterations
	}
	if s.Assumptions.GrowthRateMean == 0 && s.Assumptions.GrowthRateStd == 0 {
		s.Assumptions.GrowthRateMean = def.GrowthRateMean
		s.Assumptions.GrowthRateStd = def.GrowthRateStd
	}
	if s.Assumptions.DiscountRateMean == 0 && s.Assumptions.DiscountRateStd == 0 {
		s.Assumptions.DiscountRateMean = def.DiscountRateMean
		s.Assumptions.DiscountRateStd = def.DiscountRateStd
	}
	if s.Assumptions.TerminalGrowthMean == 0 && s.Assumptions.TerminalGrowthStd == 0 {
		s.Assumptions.TerminalGrowthMean = def.TerminalGrowthMean
		s.Assumptions.TerminalGrowthStd = def.TerminalGrowthStd
	}
	if s.Seed == nil {
		seed := defaultSeed
		s.Seed = &seed
	}
}
