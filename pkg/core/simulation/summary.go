package simulation

import (
	"github.com/montanaflynn/stats"
)

// Summary is the distributional snapshot of a completed run.
type Summary struct {
	Iterations int     `json:"iterations"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	P5         float64 `json:"p5"`
	P95        float64 `json:"p95"`
	Repaired   int     `json:"repaired_trials"`
}

// Summarize computes the point and distributional statistics over the full
// value sequence: arithmetic mean, median, population standard deviation, and
// the 5th/95th percentiles. Percentiles use the nearest-rank method
// (value at index ceil(p/100 * n) of the sorted sequence), so for any run
// P5 <= Median <= P95 holds.
func (o *Output) Summarize() (Summary, error) {
	data := stats.Float64Data(o.Values)

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return Summary{}, err
	}
	p5, err := stats.PercentileNearestRank(data, 5)
	if err != nil {
		return Summary{}, err
	}
	p95, err := stats.PercentileNearestRank(data, 95)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Iterations: len(o.Values),
		Mean:       mean,
		Median:     median,
		StdDev:     stdDev,
		P5:         p5,
		P95:        p95,
		Repaired:   o.Repaired,
	}, nil
}
