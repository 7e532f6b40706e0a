package fcf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const statementsHTML = `<html><body>
<table>
  <tr><th>Metric</th><th>FY2023</th><th>FY2022</th></tr>
  <tr><td>Operating Cash Flow</td><td>110,543</td><td>122,151</td></tr>
  <tr><td>Capital Expenditures</td><td>(10,959)</td><td>(10,708)</td></tr>
  <tr><td>Free Cash Flow Margin</td><td>26.1%</td><td>28.3%</td></tr>
  <tr><td>Free Cash Flow</td><td>$99,584</td><td>$111,443</td></tr>
</table>
</body></html>`

func TestScrapeProviderFindsFreeCashFlowRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, statementsHTML)
	}))
	defer server.Close()

	p := NewScrapeProvider(server.URL + "/%s")
	base, err := p.BaseFCF(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("BaseFCF failed: %v", err)
	}
	// The margin row must be skipped; the FCF row's most recent cell wins.
	if base.Value != 99584 {
		t.Errorf("Value = %v, want 99584", base.Value)
	}
	if base.Source != "scrape" {
		t.Errorf("Source = %q, want scrape", base.Source)
	}
}

func TestScrapeProviderMissingRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table><tr><td>Revenue</td><td>1</td></tr></table></body></html>`)
	}))
	defer server.Close()

	p := NewScrapeProvider(server.URL + "/%s")
	_, err := p.BaseFCF(context.Background(), "AAPL")
	var unavailable *Unavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("error = %v, want Unavailable", err)
	}
	if unavailable.Reason != ReasonMissingField {
		t.Errorf("Reason = %q, want %q", unavailable.Reason, ReasonMissingField)
	}
}

func TestScrapeProviderNegativeFCF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table><tr><td>Free Cash Flow</td><td>(1,250)</td></tr></table></body></html>`)
	}))
	defer server.Close()

	p := NewScrapeProvider(server.URL + "/%s")
	_, err := p.BaseFCF(context.Background(), "AAPL")
	var unavailable *Unavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("error = %v, want Unavailable", err)
	}
	if unavailable.Reason != ReasonNonPositive {
		t.Errorf("Reason = %q, want %q", unavailable.Reason, ReasonNonPositive)
	}
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$110,543", 110543, true},
		{"(4,200)", -4200, true},
		{"99.5B", 99.5e9, true},
		{"513M", 513e6, true},
		{"1.2T", 1.2e12, true},
		{"750K", 750e3, true},
		{" 42 ", 42, true},
		{"-", 0, false},
		{"n/a", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseMoney(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseMoney(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
