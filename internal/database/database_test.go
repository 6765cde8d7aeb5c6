package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrodash/server/config"
)

func ptrFloat(v float64) *float64 {
	return &v
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func setupTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "metro.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		QueryTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())

	gdb, err := db.OpenGorm()
	require.NoError(t, err)

	regions := []RegionTable{
		{RegionID: 2, RegionName: "Austin", StateName: "TX"},
		{RegionID: 1, RegionName: "Denver", StateName: "CO"},
		{RegionID: 3, RegionName: "Boulder", StateName: "CO"},
	}
	require.NoError(t, gdb.Create(&regions).Error)

	metro := []MetroTable{
		{ID: 1, RegionID: 1, SizeRank: 19, Date: day(2024, time.March, 1), AvgCost: ptrFloat(295000)},
		{ID: 2, RegionID: 1, SizeRank: 19, Date: day(2024, time.January, 15), AvgCost: ptrFloat(300000)},
		{ID: 3, RegionID: 1, SizeRank: 19, Date: day(2023, time.December, 31), AvgCost: ptrFloat(290000)},
		{ID: 4, RegionID: 1, SizeRank: 19, Date: day(2024, time.February, 1), AvgCost: nil},
		{ID: 5, RegionID: 2, SizeRank: 30, Date: day(2022, time.June, 30), AvgCost: ptrFloat(410000)},
	}
	require.NoError(t, gdb.Create(&metro).Error)

	listed := day(2025, time.May, 4)
	properties := []PropertyTable{
		{ID: 1, Address: "12 Elm St", Price: 500000, Bedrooms: 3, Bathrooms: 2, Sqft: 1800, ListingDate: &listed, Source: "zillow"},
		{ID: 2, Address: "9 Oak Ave", Price: 300000, Bedrooms: 2, Bathrooms: 1, Sqft: 950, Source: "redfin"},
	}
	require.NoError(t, gdb.Create(&properties).Error)

	return db
}

func TestGetMetroRecords(t *testing.T) {
	db := setupTestDB(t)

	records, err := db.GetMetroRecords(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 3, "rows without avg_cost are skipped")

	assert.True(t, day(2023, time.December, 31).Equal(records[0].Date))
	assert.True(t, day(2024, time.January, 15).Equal(records[1].Date))
	assert.True(t, day(2024, time.March, 1).Equal(records[2].Date))

	for _, r := range records {
		assert.Equal(t, int64(1), r.RegionID)
		assert.Equal(t, "Denver", r.RegionName)
		assert.Equal(t, "CO", r.StateName)
		assert.Equal(t, 19, r.SizeRank)
	}
	assert.Equal(t, 300000.0, records[1].AvgCost)
}

func TestGetMetroRecords_UnknownRegion(t *testing.T) {
	db := setupTestDB(t)

	records, err := db.GetMetroRecords(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetDistinctYears(t *testing.T) {
	db := setupTestDB(t)

	years, err := db.GetDistinctYears(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023, 2022}, years)
}

func TestGetRegions(t *testing.T) {
	db := setupTestDB(t)

	regions, err := db.GetRegions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 3)

	names := []string{regions[0].RegionName, regions[1].RegionName, regions[2].RegionName}
	assert.Equal(t, []string{"Boulder", "Denver", "Austin"}, names)
	assert.Equal(t, "TX", regions[2].StateName)
}

func TestGetAllProperties(t *testing.T) {
	db := setupTestDB(t)

	properties, err := db.GetAllProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, properties, 2)

	assert.Equal(t, "12 Elm St", properties[0].Address)
	assert.Equal(t, 500000.0, properties[0].Price)
	assert.True(t, day(2025, time.May, 4).Equal(properties[0].ListingDate))

	assert.Equal(t, "9 Oak Ave", properties[1].Address)
	assert.True(t, properties[1].ListingDate.IsZero(), "NULL listing_date maps to the zero time")
}

func TestCancelledContext(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := db.GetRegions(ctx)
	assert.Error(t, err)
}

func TestRunMigrations_Postgres(t *testing.T) {
	db := &Database{driver: config.DriverPostgres}
	assert.ErrorIs(t, db.RunMigrations(), ErrMigrationsUnsupported)
}
