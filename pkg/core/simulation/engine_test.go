package simulation

import (
	"errors"
	"math"
	"testing"
)

// scriptedSource returns predetermined standard-normal draws, then zeros.
type scriptedSource struct {
	draws []float64
	next  int
}

func (s *scriptedSource) NormFloat64() float64 {
	if s.next >= len(s.draws) {
		return 0
	}
	v := s.draws[s.next]
	s.next++
	return v
}

func TestRunLengthMatchesIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = 250

	out, err := Run(1000, cfg, NewSeededSource(42))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(out.Values) != 250 {
		t.Errorf("len(Values) = %d, want 250", len(out.Values))
	}
}

func TestRunDeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = 500

	first, err := Run(1000, cfg, NewSeededSource(42))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := Run(1000, cfg, NewSeededSource(42))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(first.Values) != len(second.Values) {
		t.Fatalf("length mismatch: %d vs %d", len(first.Values), len(second.Values))
	}
	for i := range first.Values {
		if first.Values[i] != second.Values[i] {
			t.Fatalf("trial %d diverged: %v vs %v", i, first.Values[i], second.Values[i])
		}
	}
	if first.Repaired != second.Repaired {
		t.Errorf("repair counts diverged: %d vs %d", first.Repaired, second.Repaired)
	}
}

func TestRunZeroVarianceCollapsesToBaseline(t *testing.T) {
	// All stds zero: every trial draws the mean parameters, so every value
	// equals the hand-computed baseline scenario.
	cfg := Config{
		ForecastYears:      5,
		Iterations:         20,
		GrowthRateMean:     0.05,
		DiscountRateMean:   0.08,
		TerminalGrowthMean: 0.02,
	}

	out, err := Run(100, cfg, NewSeededSource(1))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, v := range out.Values {
		if math.Abs(v-1936.4916) > 0.001 {
			t.Fatalf("trial %d = %v, want 1936.4916", i, v)
		}
	}
	if out.Repaired != 0 {
		t.Errorf("Repaired = %d, want 0", out.Repaired)
	}
}

func TestRunScriptedDrawsMatchClosedForm(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = 1

	// One trial consumes exactly three draws: growth, discount, terminal.
	src := &scriptedSource{draws: []float64{1, -1, 0.5}}
	out, err := Run(100, cfg, src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	g := cfg.GrowthRateMean + cfg.GrowthRateStd*1
	d := cfg.DiscountRateMean + cfg.DiscountRateStd*(-1)
	tg := cfg.TerminalGrowthMean + cfg.TerminalGrowthStd*0.5
	want, _ := EvaluateTrial(100, cfg.ForecastYears, g, d, tg)

	if out.Values[0] != want {
		t.Errorf("scripted trial = %v, want %v", out.Values[0], want)
	}
}

func TestRunCountsRepairedTrials(t *testing.T) {
	// Forced inversion: discount mean below terminal growth mean, zero
	// variance, so every trial must be repaired to the 0.03 floor.
	cfg := Config{
		ForecastYears:      5,
		Iterations:         10,
		DiscountRateMean:   0.01,
		GrowthRateMean:     0.05,
		TerminalGrowthMean: 0.02,
	}

	out, err := Run(100, cfg, NewSeededSource(7))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Repaired != cfg.Iterations {
		t.Errorf("Repaired = %d, want %d", out.Repaired, cfg.Iterations)
	}

	// The effective discount rate is 0.02+0.01, not the drawn 0.01.
	want, _ := EvaluateTrial(100, 5, 0.05, 0.03, 0.02)
	for i, v := range out.Values {
		if v != want {
			t.Fatalf("trial %d = %v, want repaired value %v", i, v, want)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("trial %d not finite: %v", i, v)
		}
	}
}

func TestRunRejectsInvalidBaseInput(t *testing.T) {
	for _, base := range []float64{0, -50} {
		_, err := Run(base, DefaultConfig(), NewSeededSource(1))
		var inputErr *InvalidInputError
		if !errors.As(err, &inputErr) {
			t.Errorf("Run(%v) error = %v, want InvalidInputError", base, err)
		}
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"zero forecast years", func(c *Config) { c.ForecastYears = 0 }},
		{"negative growth std", func(c *Config) { c.GrowthRateStd = -0.01 }},
		{"negative discount std", func(c *Config) { c.DiscountRateStd = -0.01 }},
		{"negative terminal std", func(c *Config) { c.TerminalGrowthStd = -0.01 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := Run(100, cfg, NewSeededSource(1))
			var cfgErr *InvalidConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error = %v, want InvalidConfigError", err)
			}
		})
	}
}

func TestDeriveTrialSeed(t *testing.T) {
	seen := make(map[int64]int)
	for i := 0; i < 1000; i++ {
		s := DeriveTrialSeed(42, i)
		if prev, dup := seen[s]; dup {
			t.Fatalf("trials %d and %d derived the same seed %d", prev, i, s)
		}
		seen[s] = i
	}
	if DeriveTrialSeed(42, 3) != DeriveTrialSeed(42, 3) {
		t.Error("seed derivation is not deterministic")
	}
}
