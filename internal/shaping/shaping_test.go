package shaping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrodash/server/internal/models"
)

func metro(id int64, year int, month time.Month, d int, cost float64) models.MetroRecord {
	return models.MetroRecord{
		ID:       id,
		RegionID: 394463,
		Date:     time.Date(year, month, d, 0, 0, 0, 0, time.UTC),
		AvgCost:  cost,
	}
}

func ids(records []models.MetroRecord) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestBucketByMonth(t *testing.T) {
	records := []models.MetroRecord{
		metro(1, 2024, time.January, 15, 300000),
		metro(2, 2024, time.January, 20, 310000),
		metro(3, 2024, time.March, 1, 295000),
	}

	buckets := BucketByMonth(records)

	assert.Equal(t, []int64{1, 2}, ids(buckets[0]))
	assert.Equal(t, []int64{3}, ids(buckets[2]))
	for i, b := range buckets {
		if i == 0 || i == 2 {
			continue
		}
		assert.Empty(t, b, "bucket %d", i)
	}
}

func TestBucketByMonth_Empty(t *testing.T) {
	buckets := BucketByMonth(nil)
	for i, b := range buckets {
		assert.NotNil(t, b, "bucket %d", i)
		assert.Empty(t, b, "bucket %d", i)
	}
}

func TestBucketByMonth_Partition(t *testing.T) {
	var records []models.MetroRecord
	id := int64(0)
	for year := 2019; year <= 2024; year++ {
		for month := time.December; month >= time.January; month-- {
			id++
			records = append(records, metro(id, year, month, 1+int(id%27), float64(id)))
		}
	}

	buckets := BucketByMonth(records)

	total := 0
	seen := map[int64]bool{}
	for month, bucket := range buckets {
		total += len(bucket)
		var last int64
		for _, r := range bucket {
			assert.Equal(t, month, int(r.Date.Month())-1)
			assert.False(t, seen[r.ID], "record %d duplicated", r.ID)
			seen[r.ID] = true
			assert.Greater(t, r.ID, last, "input order is kept inside a bucket")
			last = r.ID
		}
	}
	assert.Equal(t, len(records), total)
}

func TestBucketByMonth_UsesUTC(t *testing.T) {
	// 2024-02-01 02:00 in UTC is still January 31st in New York.
	ny := time.FixedZone("EST", -5*60*60)
	r := models.MetroRecord{ID: 1, Date: time.Date(2024, time.January, 31, 21, 0, 0, 0, ny)}

	buckets := BucketByMonth([]models.MetroRecord{r})
	assert.Len(t, buckets[1], 1)
	assert.Empty(t, buckets[0])
}

func TestBucketByMonth_DropsZeroDates(t *testing.T) {
	records := []models.MetroRecord{
		{ID: 1},
		metro(2, 2024, time.May, 1, 1),
	}

	buckets := BucketByMonth(records)
	total := 0
	for _, b := range buckets {
		total += len(b)
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, []int64{2}, ids(buckets[4]))
}

func TestFilterByYear(t *testing.T) {
	records := []models.MetroRecord{
		metro(1, 2023, time.December, 31, 1),
		metro(2, 2024, time.January, 1, 2),
		metro(3, 2024, time.June, 30, 3),
		{ID: 4},
		metro(5, 2025, time.January, 1, 5),
	}

	tests := []struct {
		name     string
		year     int
		expected []int64
	}{
		{name: "Middle year", year: 2024, expected: []int64{2, 3}},
		{name: "Boundary year", year: 2023, expected: []int64{1}},
		{name: "Missing year", year: 2010, expected: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := FilterByYear(records, tt.year)
			assert.Equal(t, tt.expected, ids(once))

			twice := FilterByYear(once, tt.year)
			assert.Equal(t, once, twice, "filtering is idempotent")
		})
	}
}

func TestRegionsForState(t *testing.T) {
	regions := []models.Region{
		{RegionID: 1, RegionName: "Denver", StateName: "CO"},
		{RegionID: 2, RegionName: "Austin", StateName: "TX"},
		{RegionID: 3, RegionName: "Boulder", StateName: "CO"},
	}

	co := RegionsForState(regions, "CO")
	require.Len(t, co, 2)
	assert.Equal(t, int64(1), co[0].RegionID)
	assert.Equal(t, int64(3), co[1].RegionID)

	assert.Empty(t, RegionsForState(regions, "WY"))
}

func TestDistinctStates(t *testing.T) {
	regions := []models.Region{
		{RegionID: 1, StateName: "TX"},
		{RegionID: 2, StateName: "CO"},
		{RegionID: 3, StateName: "TX"},
		{RegionID: 4, StateName: "AZ"},
	}

	assert.Equal(t, []string{"AZ", "CO", "TX"}, DistinctStates(regions))
	assert.Equal(t, []string{}, DistinctStates(nil))
}

func TestDistinctYears(t *testing.T) {
	records := []models.MetroRecord{
		metro(1, 2022, time.March, 1, 1),
		metro(2, 2024, time.March, 1, 1),
		metro(3, 2022, time.April, 1, 1),
		{ID: 4},
		metro(5, 2023, time.March, 1, 1),
	}

	assert.Equal(t, []int{2024, 2023, 2022}, DistinctYears(records))
	assert.Equal(t, []int{}, DistinctYears(nil))
}

func TestDescendingYears(t *testing.T) {
	in := []int{2020, 2024, 2020, 2022}
	assert.Equal(t, []int{2024, 2022, 2020}, DescendingYears(in))
	assert.Equal(t, []int{2020, 2024, 2020, 2022}, in, "input is not modified")
}

func TestSummarize(t *testing.T) {
	records := []models.MetroRecord{
		metro(1, 2024, time.January, 1, 300000),
		metro(2, 2024, time.February, 1, 310000),
		metro(3, 2024, time.March, 1, 295000),
	}

	s := Summarize(records)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 301666.67, s.Mean, 0.01)
	assert.Equal(t, 300000.0, s.Median)
	assert.Equal(t, 295000.0, s.Min)
	assert.Equal(t, 310000.0, s.Max)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestMonthStart(t *testing.T) {
	got := MonthStart(time.Date(2024, time.July, 19, 13, 4, 5, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), got)
}
