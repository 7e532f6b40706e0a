package report

import (
	"strings"
	"testing"

	"montecarlo_valuation/pkg/core/fcf"
	"montecarlo_valuation/pkg/core/simulation"
)

var sampleSummary = simulation.Summary{
	Iterations: 5000,
	Mean:       1936.49,
	Median:     1920.11,
	StdDev:     250.42,
	P5:         1550.02,
	P95:        2380.77,
	Repaired:   2,
}

func TestTextContainsAllStatistics(t *testing.T) {
	out := Text("AAPL", sampleSummary)

	for _, want := range []string{
		"AAPL", "Iterations:", "5000",
		"Mean Enterprise Value:   $1936.49",
		"Median Enterprise Value: $1920.11",
		"Standard Deviation:      $250.42",
		"5th Percentile:          $1550.02",
		"95th Percentile:         $2380.77",
		"Repaired Trials:         2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestTextOmitsRepairLineWhenClean(t *testing.T) {
	s := sampleSummary
	s.Repaired = 0
	if strings.Contains(Text("", s), "Repaired") {
		t.Error("repair line rendered for a clean run")
	}
}

func TestMarkdownAndHTML(t *testing.T) {
	base := &fcf.BaseFCF{Ticker: "AAPL", FiscalYear: 2023, Value: 99584000000, Source: "sec-xbrl"}
	buckets := Histogram([]float64{1, 2, 2, 3, 3, 3}, 3)

	md := Markdown(base, sampleSummary, buckets)
	for _, want := range []string{"# Monte Carlo DCF Valuation - AAPL", "FY2023", "| Mean | $1936.49 |", "## Distribution"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	html, err := HTML(md)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Error("summary table not rendered as HTML table")
	}
	if !strings.Contains(html, "<h1>") {
		t.Error("title not rendered as heading")
	}
}

func TestHistogramBucketCounts(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	buckets := Histogram(values, 5)

	if len(buckets) != 5 {
		t.Fatalf("got %d buckets, want 5", len(buckets))
	}
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != len(values) {
		t.Errorf("bucket counts sum to %d, want %d", total, len(values))
	}
	// Max value belongs to the final bucket, not one past the end.
	if buckets[4].Count == 0 {
		t.Error("final bucket lost the max value")
	}
	if buckets[0].Low != 0 || buckets[4].High != 10 {
		t.Errorf("bucket range [%v, %v], want [0, 10]", buckets[0].Low, buckets[4].High)
	}
}

func TestHistogramAllEqualValues(t *testing.T) {
	buckets := Histogram([]float64{42, 42, 42}, 10)
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1 for degenerate input", len(buckets))
	}
	if buckets[0].Count != 3 {
		t.Errorf("Count = %d, want 3", buckets[0].Count)
	}
}

func TestHistogramEmpty(t *testing.T) {
	if got := Histogram(nil, 5); got != nil {
		t.Errorf("Histogram(nil) = %v, want nil", got)
	}
}

func TestASCIIBarScaling(t *testing.T) {
	buckets := []Bucket{{0, 1, 1}, {1, 2, 10}}
	out := ASCII(buckets, 20)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], strings.Repeat("#", 20)) {
		t.Errorf("peak bucket not rendered at full width: %q", lines[1])
	}
	if strings.Count(lines[0], "#") != 2 {
		t.Errorf("small bucket bar = %q, want 2 marks", lines[0])
	}
}
