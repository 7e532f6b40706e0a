package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"montecarlo_valuation/pkg/core/fcf"
	"montecarlo_valuation/pkg/core/report"
	"montecarlo_valuation/pkg/core/scenario"
	"montecarlo_valuation/pkg/core/simulation"
	"montecarlo_valuation/pkg/core/store"
)

func main() {
	ticker := flag.String("ticker", "", "ticker symbol to value (overrides scenario)")
	scenarioPath := flag.String("scenario", "", "scenario file (.json, .hjson, .yaml)")
	baseFCF := flag.Float64("fcf", 0, "base free cash flow (skips retrieval)")
	iterations := flag.Int("iterations", 0, "number of Monte Carlo trials")
	years := flag.Int("years", 0, "explicit forecast horizon in years")
	seed := flag.Int64("seed", 0, "random seed (0 uses the scenario's seed)")
	buckets := flag.Int("buckets", 20, "histogram buckets")
	flag.Parse()

	godotenv.Load()

	sc := scenario.Default()
	if *scenarioPath != "" {
		loaded, err := scenario.Load(*scenarioPath)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		sc = loaded
	}
	if *ticker != "" {
		sc.Ticker = *ticker
	}
	if *baseFCF != 0 {
		sc.BaseFCF = *baseFCF
	}
	if *iterations > 0 {
		sc.Assumptions.Iterations = *iterations
	}
	if *years > 0 {
		sc.Assumptions.ForecastYears = *years
	}
	if *seed != 0 {
		sc.Seed = seed
	}

	ctx := context.Background()
	base, err := resolveBase(ctx, sc)
	if err != nil {
		var unavailable *fcf.Unavailable
		if errors.As(err, &unavailable) {
			log.Fatalf("No valuation possible for %s: %v", unavailable.Ticker, err)
		}
		log.Fatalf("Error: %v", err)
	}

	runSeed := int64(0)
	if sc.Seed != nil {
		runSeed = *sc.Seed
	}
	out, err := simulation.Run(base.Value, sc.Assumptions, simulation.NewSeededSource(runSeed))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	summary, err := out.Summarize()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Println()
	fmt.Print(report.Text(base.Ticker, summary))
	fmt.Println()
	fmt.Print(report.ASCII(report.Histogram(out.Values, *buckets), 50))
}

// resolveBase prefers an explicit figure; otherwise it retrieves one through
// the provider chain, using the database cache when DATABASE_URL is set.
func resolveBase(ctx context.Context, sc scenario.Scenario) (*fcf.BaseFCF, error) {
	if sc.BaseFCF > 0 {
		return &fcf.BaseFCF{Ticker: sc.Ticker, Value: sc.BaseFCF, Source: "scenario"}, nil
	}
	if sc.Ticker == "" {
		return nil, fmt.Errorf("a ticker or an explicit base free cash flow is required")
	}

	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[WARNING] Database unavailable, file cache only: %v\n", err)
		}
	}
	cache := fcf.NewCache(store.GetPool(), os.Getenv("FCF_CACHE_DIR"))
	chain := fcf.Chain{
		fcf.NewSECProvider(cache),
		fcf.NewScrapeProvider(""),
	}
	return chain.BaseFCF(ctx, sc.Ticker)
}
