// Package report renders simulation output for people: plain text for the
// CLI, markdown for composition, HTML for the API report endpoint.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"montecarlo_valuation/pkg/core/fcf"
	"montecarlo_valuation/pkg/core/simulation"
)

// renderer understands the pipe tables the markdown report uses.
var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Text renders the summary block printed after a CLI run.
func Text(ticker string, s simulation.Summary) string {
	var sb strings.Builder
	sb.WriteString("Monte Carlo DCF Valuation Results")
	if ticker != "" {
		sb.WriteString(" - " + ticker)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Iterations:              %d\n", s.Iterations)
	fmt.Fprintf(&sb, "Mean Enterprise Value:   $%.2f\n", s.Mean)
	fmt.Fprintf(&sb, "Median Enterprise Value: $%.2f\n", s.Median)
	fmt.Fprintf(&sb, "Standard Deviation:      $%.2f\n", s.StdDev)
	fmt.Fprintf(&sb, "5th Percentile:          $%.2f\n", s.P5)
	fmt.Fprintf(&sb, "95th Percentile:         $%.2f\n", s.P95)
	if s.Repaired > 0 {
		fmt.Fprintf(&sb, "Repaired Trials:         %d\n", s.Repaired)
	}
	return sb.String()
}

// Markdown renders a full report: base figure, summary table, histogram.
func Markdown(base *fcf.BaseFCF, s simulation.Summary, buckets []Bucket) string {
	var sb strings.Builder

	title := "Monte Carlo DCF Valuation"
	if base != nil && base.Ticker != "" {
		title += " - " + base.Ticker
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if base != nil {
		fmt.Fprintf(&sb, "Base free cash flow: **$%.0f**", base.Value)
		if base.FiscalYear > 0 {
			fmt.Fprintf(&sb, " (FY%d, %s)", base.FiscalYear, base.Source)
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString("| Statistic | Enterprise Value |\n")
	sb.WriteString("|---|---|\n")
	fmt.Fprintf(&sb, "| Iterations | %d |\n", s.Iterations)
	fmt.Fprintf(&sb, "| Mean | $%.2f |\n", s.Mean)
	fmt.Fprintf(&sb, "| Median | $%.2f |\n", s.Median)
	fmt.Fprintf(&sb, "| Std Dev | $%.2f |\n", s.StdDev)
	fmt.Fprintf(&sb, "| 5th Percentile | $%.2f |\n", s.P5)
	fmt.Fprintf(&sb, "| 95th Percentile | $%.2f |\n", s.P95)
	fmt.Fprintf(&sb, "| Repaired Trials | %d |\n", s.Repaired)

	if len(buckets) > 0 {
		sb.WriteString("\n## Distribution\n\n```\n")
		sb.WriteString(ASCII(buckets, 50))
		sb.WriteString("```\n")
	}
	return sb.String()
}

// HTML converts a markdown report to HTML.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
