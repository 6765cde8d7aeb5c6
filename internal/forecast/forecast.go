// Package forecast fits a straight-line trend to a region's price history
// and extends it past the last observation.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"metrodash/server/internal/models"
	"metrodash/server/internal/shaping"
)

// ErrInsufficientData is returned when fewer than two distinct months are
// observed.
var ErrInsufficientData = errors.New("not enough observations to fit a trend")

// Point is one dated value, observed or projected.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Projection is a least-squares trend and its extension.
type Projection struct {
	// Intercept is the fitted value at the first observed month.
	Intercept float64 `json:"intercept"`
	// Slope is the fitted change per month.
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	Observed  []Point `json:"observed"`
	Projected []Point `json:"projected"`
}

// Project fits avg_cost against month for records and projects the next
// months months, each dated on the first of its month in UTC. Records with
// a zero date are ignored.
func Project(records []models.MetroRecord, months int) (Projection, error) {
	if months < 0 {
		return Projection{}, fmt.Errorf("invalid projection length %d", months)
	}

	var (
		xs       []float64
		ys       []float64
		observed []Point
		first    time.Time
	)
	distinct := map[int]struct{}{}
	last := math.MinInt

	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		start := shaping.MonthStart(r.Date)
		if first.IsZero() || start.Before(first) {
			first = start
		}
		observed = append(observed, Point{Date: r.Date.UTC(), Value: r.AvgCost})
	}
	if len(observed) < 2 {
		return Projection{}, ErrInsufficientData
	}

	for _, p := range observed {
		idx := monthIndex(first, p.Date)
		distinct[idx] = struct{}{}
		if idx > last {
			last = idx
		}
		xs = append(xs, float64(idx))
		ys = append(ys, p.Value)
	}
	if len(distinct) < 2 {
		return Projection{}, ErrInsufficientData
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		// Every value equal: the line fits exactly.
		r2 = 1
	}

	projected := make([]Point, months)
	for i := range projected {
		idx := last + i + 1
		projected[i] = Point{
			Date:  first.AddDate(0, idx, 0),
			Value: alpha + beta*float64(idx),
		}
	}

	return Projection{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  r2,
		Observed:  observed,
		Projected: projected,
	}, nil
}

func monthIndex(origin, t time.Time) int {
	t = t.UTC()
	return (t.Year()-origin.Year())*12 + int(t.Month()) - int(origin.Month())
}
