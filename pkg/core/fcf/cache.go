package fcf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// cacheTTL bounds how long a fetched figure is reused before the provider
// goes back to the source. Annual figures move slowly; a day is plenty.
const cacheTTL = 24 * time.Hour

// Cache stores retrieved base-FCF figures. Hybrid: Postgres when a pool is
// configured, JSON files otherwise. Only retrieved inputs are cached here;
// simulation results are never persisted.
type Cache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewCache creates a cache instance. If pool is nil it falls back to a
// file-based cache in dir; if dir is also empty it defaults to .cache/fcf.
func NewCache(pool *pgxpool.Pool, dir string) *Cache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "fcf")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check FCF cache dir: %v\n", err)
		}
	}
	return &Cache{pool: pool, fileDir: dir}
}

type cacheEntry struct {
	BaseFCF
	FetchedAt time.Time `json:"fetched_at"`
}

// Get returns a fresh cached figure for the ticker, or nil on miss/stale.
func (c *Cache) Get(ctx context.Context, ticker string) (*BaseFCF, error) {
	ticker = strings.ToUpper(ticker)

	if c.pool != nil {
		query := `
			SELECT fiscal_year, value, source, fetched_at
			FROM fcf_figures
			WHERE ticker = $1
			ORDER BY fetched_at DESC
			LIMIT 1
		`
		var entry cacheEntry
		entry.Ticker = ticker
		err := c.pool.QueryRow(ctx, query, ticker).Scan(&entry.FiscalYear, &entry.Value, &entry.Source, &entry.FetchedAt)
		if err != nil {
			return nil, nil // miss; treat DB errors as misses, source fetch will recover
		}
		if time.Since(entry.FetchedAt) > cacheTTL {
			return nil, nil
		}
		return &entry.BaseFCF, nil
	}

	if c.fileDir != "" {
		data, err := os.ReadFile(c.filePath(ticker))
		if err != nil {
			return nil, nil
		}
		var entry cacheEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached fcf: %w", err)
		}
		if time.Since(entry.FetchedAt) > cacheTTL {
			return nil, nil
		}
		return &entry.BaseFCF, nil
	}

	return nil, nil
}

// Put stores a retrieved figure.
func (c *Cache) Put(ctx context.Context, base *BaseFCF) error {
	if base == nil {
		return nil
	}
	now := time.Now()

	if c.pool != nil {
		query := `
			INSERT INTO fcf_figures (ticker, fiscal_year, value, source, fetched_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err := c.pool.Exec(ctx, query, strings.ToUpper(base.Ticker), base.FiscalYear, base.Value, base.Source, now)
		return err
	}

	if c.fileDir != "" {
		entry := cacheEntry{BaseFCF: *base, FetchedAt: now}
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(c.filePath(base.Ticker), data, 0644)
	}

	return nil
}

func (c *Cache) filePath(ticker string) string {
	return filepath.Join(c.fileDir, strings.ToUpper(ticker)+".json")
}
