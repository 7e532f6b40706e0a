package fcf

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// defaultStatementsURL points at a public cash-flow-statement page; %s is the
// lowercased ticker.
const defaultStatementsURL = "https://stockanalysis.com/stocks/%s/financials/cash-flow-statement/"

// ScrapeProvider extracts a free-cash-flow figure from an HTML statements
// page. It is a fallback behind the XBRL provider for tickers whose filings
// do not tag the standard concepts.
type ScrapeProvider struct {
	client  *http.Client
	pageURL string
}

// NewScrapeProvider creates a scraper against pageURL (a format string taking
// the ticker); an empty pageURL selects the default statements page.
func NewScrapeProvider(pageURL string) *ScrapeProvider {
	if pageURL == "" {
		pageURL = defaultStatementsURL
	}
	return &ScrapeProvider{
		client:  &http.Client{Timeout: 60 * time.Second},
		pageURL: pageURL,
	}
}

// BaseFCF fetches the statements page and scans its tables for a
// "Free Cash Flow" row, taking the first (most recent) numeric cell.
func (p *ScrapeProvider) BaseFCF(ctx context.Context, ticker string) (*BaseFCF, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	url := fmt.Sprintf(p.pageURL, strings.ToLower(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &Unavailable{Ticker: ticker, Reason: ReasonLookupFailed, Detail: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Unavailable{Ticker: ticker, Reason: ReasonLookupFailed, Detail: fmt.Sprintf("GET %s: status %d", url, resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &Unavailable{Ticker: ticker, Reason: ReasonLookupFailed, Detail: fmt.Sprintf("html parse: %v", err)}
	}

	var value float64
	found := false
	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(row.Find("td, th").First().Text()))
		// Skip derived rows like "Free Cash Flow Margin" / "Per Share".
		if label != "free cash flow" {
			return true
		}
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			if found {
				return
			}
			if v, ok := parseMoney(cell.Text()); ok {
				value = v
				found = true
			}
		})
		return !found
	})

	if !found {
		return nil, &Unavailable{Ticker: ticker, Reason: ReasonMissingField, Detail: "no free cash flow row on statements page"}
	}
	if value <= 0 {
		return nil, &Unavailable{Ticker: ticker, Reason: ReasonNonPositive, Detail: fmt.Sprintf("scraped free cash flow %.0f", value)}
	}

	fmt.Printf("[FCF] Scraped base free cash flow for %s: $%.0f\n", ticker, value)
	return &BaseFCF{Ticker: ticker, Value: value, Source: "scrape"}, nil
}

// parseMoney parses display values like "$110,543", "(4,200)", "99.5B",
// "513M" into USD. Parenthesized values are negative; B/M/K suffixes scale.
func parseMoney(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" || strings.EqualFold(s, "n/a") {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "T"):
		multiplier = 1e12
		s = strings.TrimSuffix(s, "T")
	case strings.HasSuffix(s, "B"):
		multiplier = 1e9
		s = strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		multiplier = 1e6
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		multiplier = 1e3
		s = strings.TrimSuffix(s, "K")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v * multiplier, true
}
