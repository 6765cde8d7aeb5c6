package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"metrodash/server/internal/models"
	"metrodash/server/internal/shaping"
)

func TestWrite(t *testing.T) {
	records := []models.MetroRecord{
		{RegionName: "Denver", StateName: "CO", Date: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), AvgCost: 550000},
		{RegionName: "Denver", StateName: "CO", Date: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), AvgCost: 560000},
	}
	wb := Workbook{RegionName: "Denver", Year: 2024, Records: records}
	for i, bucket := range shaping.BucketByMonth(records) {
		wb.Months[i] = shaping.Summarize(bucket)
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, wb))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{YearlySheet, MonthlySheet}, f.GetSheetList())

	yearly, err := f.GetRows(YearlySheet)
	require.NoError(t, err)
	require.Len(t, yearly, 4)
	assert.Equal(t, "Prices in 2024 (Denver)", yearly[0][0])
	assert.Equal(t, []string{"Date", "Region", "State", "Average cost"}, yearly[1])
	assert.Equal(t, []string{"2024-01-31", "Denver", "CO", "550000"}, yearly[2])

	monthly, err := f.GetRows(MonthlySheet)
	require.NoError(t, err)
	require.Len(t, monthly, 13)
	assert.Equal(t, "January", monthly[1][0])
	assert.Equal(t, "1", monthly[1][1])
	assert.Equal(t, "December", monthly[12][0])
	assert.Equal(t, "0", monthly[12][1])
}

func TestWrite_UnknownRegion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Workbook{Year: 2020}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(YearlySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Prices in 2020 (Unknown)", title)
}
