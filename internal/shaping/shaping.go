// Package shaping derives display series from raw metro and region rows.
//
// All date arithmetic reads the record date in UTC so that month and year
// boundaries do not move with the server's local zone. Records with a zero
// date (NULL or unparseable in the store) carry no month or year and are
// dropped by every date-based function here.
package shaping

import (
	"slices"
	"sort"
	"time"

	"metrodash/server/internal/models"
)

// MonthNames labels the twelve month buckets.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func hasDate(r models.MetroRecord) bool {
	return !r.Date.IsZero()
}

// BucketByMonth partitions records by calendar month, index 0 being January.
// Order inside each bucket follows the input order.
func BucketByMonth(records []models.MetroRecord) [12][]models.MetroRecord {
	var buckets [12][]models.MetroRecord
	for i := range buckets {
		buckets[i] = []models.MetroRecord{}
	}

	for _, r := range records {
		if !hasDate(r) {
			continue
		}
		month := int(r.Date.UTC().Month()) - 1
		buckets[month] = append(buckets[month], r)
	}
	return buckets
}

// FilterByYear keeps the records dated in year.
func FilterByYear(records []models.MetroRecord, year int) []models.MetroRecord {
	out := []models.MetroRecord{}
	for _, r := range records {
		if hasDate(r) && r.Date.UTC().Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// RegionsForState returns the regions located in state, in input order.
func RegionsForState(regions []models.Region, state string) []models.Region {
	out := []models.Region{}
	for _, r := range regions {
		if r.StateName == state {
			out = append(out, r)
		}
	}
	return out
}

// DistinctStates returns the state names of regions, sorted ascending.
func DistinctStates(regions []models.Region) []string {
	seen := make(map[string]struct{}, len(regions))
	states := []string{}
	for _, r := range regions {
		if _, ok := seen[r.StateName]; ok {
			continue
		}
		seen[r.StateName] = struct{}{}
		states = append(states, r.StateName)
	}
	sort.Strings(states)
	return states
}

// DistinctYears returns the years present in records, most recent first.
func DistinctYears(records []models.MetroRecord) []int {
	years := make([]int, 0, len(records))
	for _, r := range records {
		if hasDate(r) {
			years = append(years, r.Date.UTC().Year())
		}
	}
	return DescendingYears(years)
}

// DescendingYears deduplicates years and sorts them most recent first.
func DescendingYears(years []int) []int {
	out := slices.Clone(years)
	if out == nil {
		out = []int{}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}

// MonthStart returns the first instant of t's month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
