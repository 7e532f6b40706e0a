package fcf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	userAgent         = "MCV Platform research@mcv.dev"
	companyTickersURL = "https://www.sec.gov/files/company_tickers.json"
	companyConceptURL = "https://data.sec.gov/api/xbrl/companyconcept/CIK%s/us-gaap/%s.json"

	conceptOperatingCashFlow = "NetCashProvidedByUsedInOperatingActivities"
	conceptCapex             = "PaymentsToAcquirePropertyPlantAndEquipment"
)

// SECProvider derives free cash flow from SEC XBRL company facts:
// FCF = net cash from operating activities - capital expenditures, taken from
// the most recent annual (10-K) fact of each concept.
type SECProvider struct {
	client      *http.Client
	tickersURL  string
	conceptURL  string
	cache       *Cache
	tickerCache map[string]string // Ticker -> CIK (zero-padded to 10)
	tickerMutex sync.Mutex
}

// NewSECProvider creates a provider against the live SEC endpoints. cache may
// be nil to disable figure caching.
func NewSECProvider(cache *Cache) *SECProvider {
	return &SECProvider{
		client:     &http.Client{Timeout: 60 * time.Second},
		tickersURL: companyTickersURL,
		conceptURL: companyConceptURL,
		cache:      cache,
	}
}

// conceptResponse is the shape of the companyconcept API payload.
type conceptResponse struct {
	CIK   int                      `json:"cik"`
	Tag   string                   `json:"tag"`
	Units map[string][]conceptFact `json:"units"`
}

type conceptFact struct {
	End        string  `json:"end"`
	Val        float64 `json:"val"`
	FiscalYear int     `json:"fy"`
	Period     string  `json:"fp"`
	Form       string  `json:"form"`
}

// BaseFCF resolves the ticker to a CIK, fetches the operating-cash-flow and
// capex concepts, and returns their difference for the latest fiscal year.
func (p *SECProvider) BaseFCF(ctx context.Context, ticker string) (*BaseFCF, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, &Unavailable{Ticker: ticker, Reason: ReasonLookupFailed, Detail: "empty ticker"}
	}

	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, ticker); err == nil && cached != nil {
			fmt.Printf("[FCF] Cache hit for %s: $%.0f (FY%d)\n", ticker, cached.Value, cached.FiscalYear)
			return cached, nil
		}
	}

	cik, err := p.lookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	cfo, err := p.latestAnnualFact(ctx, cik, conceptOperatingCashFlow)
	if err != nil {
		if u, ok := err.(*Unavailable); ok {
			u.Ticker = ticker
		}
		return nil, err
	}

	// Capex is reported as a positive payment; missing capex degrades to
	// CFO-only rather than failing the lookup.
	capex := 0.0
	if fact, err := p.latestAnnualFact(ctx, cik, conceptCapex); err == nil {
		capex = fact.Val
	} else {
		fmt.Printf("[FCF] No capex concept for %s, using operating cash flow only\n", ticker)
	}

	value := cfo.Val - capex
	if value <= 0 {
		return nil, &Unavailable{
			Ticker: ticker,
			Reason: ReasonNonPositive,
			Detail: fmt.Sprintf("derived free cash flow %.0f for FY%d", value, cfo.FiscalYear),
		}
	}

	base := &BaseFCF{Ticker: ticker, FiscalYear: cfo.FiscalYear, Value: value, Source: "sec-xbrl"}
	if p.cache != nil {
		if err := p.cache.Put(ctx, base); err != nil {
			fmt.Printf("[WARNING] Failed to cache FCF for %s: %v\n", ticker, err)
		}
	}
	fmt.Printf("[FCF] Retrieved base free cash flow for %s: $%.0f (FY%d)\n", ticker, value, base.FiscalYear)
	return base, nil
}

// lookupCIK resolves a ticker to a zero-padded CIK, lazily loading the SEC
// company_tickers.json index once per process.
func (p *SECProvider) lookupCIK(ctx context.Context, ticker string) (string, error) {
	p.tickerMutex.Lock()
	defer p.tickerMutex.Unlock()

	if p.tickerCache == nil {
		body, err := p.fetch(ctx, p.tickersURL)
		if err != nil {
			return "", &Unavailable{Ticker: ticker, Reason: ReasonLookupFailed, Detail: err.Error()}
		}
		var index map[string]struct {
			CIK    int    `json:"cik_str"`
			Ticker string `json:"ticker"`
			Title  string `json:"title"`
		}
		if err := json.Unmarshal(body, &index); err != nil {
			return "", &Unavailable{Ticker: ticker, Reason: ReasonLookupFailed, Detail: fmt.Sprintf("ticker index parse: %v", err)}
		}
		p.tickerCache = make(map[string]string, len(index))
		for _, entry := range index {
			p.tickerCache[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%010d", entry.CIK)
		}
	}

	cik, ok := p.tickerCache[ticker]
	if !ok {
		return "", &Unavailable{Ticker: ticker, Reason: ReasonLookupFailed, Detail: "ticker not in SEC index"}
	}
	return cik, nil
}

// latestAnnualFact fetches a us-gaap concept and returns its most recent
// full-year 10-K USD fact.
func (p *SECProvider) latestAnnualFact(ctx context.Context, cik, concept string) (*conceptFact, error) {
	body, err := p.fetch(ctx, fmt.Sprintf(p.conceptURL, cik, concept))
	if err != nil {
		return nil, &Unavailable{Reason: ReasonMissingField, Detail: fmt.Sprintf("%s: %v", concept, err)}
	}

	var resp conceptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Unavailable{Reason: ReasonMissingField, Detail: fmt.Sprintf("%s parse: %v", concept, err)}
	}

	var latest *conceptFact
	for i := range resp.Units["USD"] {
		fact := &resp.Units["USD"][i]
		if fact.Period != "FY" || !strings.HasPrefix(fact.Form, "10-K") {
			continue
		}
		if latest == nil || fact.FiscalYear > latest.FiscalYear {
			latest = fact
		}
	}
	if latest == nil {
		return nil, &Unavailable{Reason: ReasonMissingField, Detail: fmt.Sprintf("no annual USD fact for %s", concept)}
	}
	return latest, nil
}

func (p *SECProvider) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
