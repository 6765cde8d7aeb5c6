package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"metrodash/server/config"
)

// ErrMigrationsUnsupported is returned by RunMigrations for drivers whose
// schema is owned by the ingestion pipeline.
var ErrMigrationsUnsupported = errors.New("schema migrations are only supported for sqlite3")

// Table layouts match what the ingestion pipeline creates in postgres.

type PropertyTable struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	Address     string     `gorm:"column:address"`
	Price       float64    `gorm:"column:price"`
	Bedrooms    int        `gorm:"column:bedrooms"`
	Bathrooms   int        `gorm:"column:bathrooms"`
	Sqft        float64    `gorm:"column:sqft"`
	ListingDate *time.Time `gorm:"column:listing_date"`
	Source      string     `gorm:"column:source"`
}

func (PropertyTable) TableName() string { return "properties" }

type RegionTable struct {
	RegionID   int64  `gorm:"column:region_id;primaryKey;autoIncrement:false"`
	RegionName string `gorm:"column:region_name;not null"`
	StateName  string `gorm:"column:state_name;not null;index"`
}

func (RegionTable) TableName() string { return "regions" }

type MetroTable struct {
	ID       int64     `gorm:"column:id;primaryKey"`
	RegionID int64     `gorm:"column:region_id;not null;uniqueIndex:idx_metro_region_date"`
	SizeRank int       `gorm:"column:size_rank"`
	Date     time.Time `gorm:"column:date;not null;uniqueIndex:idx_metro_region_date"`
	AvgCost  *float64  `gorm:"column:avg_cost"`
}

func (MetroTable) TableName() string { return "metro_us" }

// MigrateSchema creates the dashboard tables on a gorm connection.
func MigrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&RegionTable{}, &MetroTable{}, &PropertyTable{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// OpenGorm opens a gorm session sharing the connection pool of d.
func (d *Database) OpenGorm() (*gorm.DB, error) {
	if d.driver != config.DriverSQLite {
		return nil, ErrMigrationsUnsupported
	}
	gdb, err := gorm.Open(&sqlite.Dialector{Conn: d.db.DB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return gdb, nil
}

// RunMigrations creates the schema of a local sqlite database.
func (d *Database) RunMigrations() error {
	gdb, err := d.OpenGorm()
	if err != nil {
		return err
	}
	return MigrateSchema(gdb)
}
