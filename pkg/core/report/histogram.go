package report

import (
	"fmt"
	"strings"
)

// Bucket is one histogram bin over [Low, High).
type Bucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram bins values into the requested number of equal-width buckets
// spanning [min, max]. Degenerate inputs (all values equal) collapse to a
// single bucket holding everything.
func Histogram(values []float64, buckets int) []Bucket {
	if len(values) == 0 || buckets < 1 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		return []Bucket{{Low: min, High: max, Count: len(values)}}
	}

	width := (max - min) / float64(buckets)
	out := make([]Bucket, buckets)
	for i := range out {
		out[i].Low = min + float64(i)*width
		out[i].High = min + float64(i+1)*width
	}
	out[buckets-1].High = max

	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= buckets {
			idx = buckets - 1 // max lands in the final bucket
		}
		out[idx].Count++
	}
	return out
}

// ASCII renders buckets as a terminal bar chart, one line per bucket, with
// bars scaled to width characters.
func ASCII(buckets []Bucket, width int) string {
	if len(buckets) == 0 {
		return ""
	}
	if width < 1 {
		width = 50
	}

	peak := 0
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
	}
	if peak == 0 {
		return ""
	}

	var sb strings.Builder
	for _, b := range buckets {
		bar := strings.Repeat("#", b.Count*width/peak)
		sb.WriteString(fmt.Sprintf("%14.0f - %-14.0f |%s %d\n", b.Low, b.High, bar, b.Count))
	}
	return sb.String()
}
