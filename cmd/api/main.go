package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apisim "montecarlo_valuation/pkg/api/simulation"
	"montecarlo_valuation/pkg/core/fcf"
	"montecarlo_valuation/pkg/core/scenario"
	"montecarlo_valuation/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Server-side default assumptions, overridable per request
	defaults := scenario.Default()
	if data, err := os.ReadFile("config/simulation.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &defaults); err != nil {
			fmt.Printf("[WARNING] Bad config/simulation.yaml, using defaults: %v\n", err)
			defaults = scenario.Default()
		} else {
			fmt.Println("[CONFIG] Loaded defaults from config/simulation.yaml")
		}
	}

	// Database is optional; the FCF cache falls back to files without it
	ctx := context.Background()
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[WARNING] Database unavailable, file cache only: %v\n", err)
		} else {
			fmt.Println("[DB] Connected")
			defer store.Close()
		}
	}

	cache := fcf.NewCache(store.GetPool(), os.Getenv("FCF_CACHE_DIR"))
	provider := fcf.Chain{
		fcf.NewSECProvider(cache),
		fcf.NewScrapeProvider(""),
	}

	handler := apisim.NewHandler(provider, defaults)
	http.HandleFunc("/api/simulation/run", handler.HandleRun)
	http.HandleFunc("/api/simulation/report", handler.HandleReport)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - POST /api/simulation/run")
	fmt.Println("  - POST /api/simulation/report")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
