package shaping

import (
	"github.com/montanaflynn/stats"

	"metrodash/server/internal/models"
)

// Summary describes the average cost values of a set of records.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes a Summary over the avg_cost of records. An empty input
// yields the zero Summary.
func Summarize(records []models.MetroRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	data := make(stats.Float64Data, len(records))
	for i, r := range records {
		data[i] = r.AvgCost
	}

	// stats only fails on empty input, which is handled above.
	mean, _ := data.Mean()
	median, _ := data.Median()
	lo, _ := data.Min()
	hi, _ := data.Max()

	return Summary{
		Count:  len(records),
		Mean:   mean,
		Median: median,
		Min:    lo,
		Max:    hi,
	}
}
