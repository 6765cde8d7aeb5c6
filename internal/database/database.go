package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"metrodash/server/config"
	"metrodash/server/internal/models"
)

// Database is a read-only handle on the record store. It is opened once at
// process start and closed at shutdown.
type Database struct {
	db           *sqlx.DB
	driver       string
	queryTimeout time.Duration
}

func NewDatabase(cfg config.DatabaseConfig) (*Database, error) {
	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	return &Database{db: db, driver: cfg.Driver, queryTimeout: cfg.QueryTimeout}, nil
}

// NewFromDB wraps an already opened connection pool.
func NewFromDB(db *sqlx.DB, queryTimeout time.Duration) *Database {
	return &Database{db: db, driver: db.DriverName(), queryTimeout: queryTimeout}
}

func (d *Database) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}

// propertyRow mirrors the properties table. listing_date is nullable in
// the listings feed.
type propertyRow struct {
	ID          int64        `db:"id"`
	Address     string       `db:"address"`
	Price       float64      `db:"price"`
	Bedrooms    int          `db:"bedrooms"`
	Bathrooms   int          `db:"bathrooms"`
	Sqft        float64      `db:"sqft"`
	ListingDate sql.NullTime `db:"listing_date"`
	Source      string       `db:"source"`
}

func (d *Database) GetAllProperties(ctx context.Context) ([]models.Property, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	query := `
        SELECT
            id,
            COALESCE(address, '') AS address,
            COALESCE(price, 0) AS price,
            COALESCE(bedrooms, 0) AS bedrooms,
            COALESCE(bathrooms, 0) AS bathrooms,
            COALESCE(sqft, 0) AS sqft,
            listing_date,
            COALESCE(source, '') AS source
        FROM properties
        ORDER BY id
    `

	var rows []propertyRow
	if err := d.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}

	properties := make([]models.Property, 0, len(rows))
	for _, row := range rows {
		p := models.Property{
			ID:        row.ID,
			Address:   row.Address,
			Price:     row.Price,
			Bedrooms:  row.Bedrooms,
			Bathrooms: row.Bathrooms,
			Sqft:      row.Sqft,
			Source:    row.Source,
		}
		if row.ListingDate.Valid {
			p.ListingDate = row.ListingDate.Time
		}
		properties = append(properties, p)
	}
	return properties, nil
}

// GetMetroRecords returns the observations of one region joined to its
// region row, oldest first. Months without a value are skipped.
func (d *Database) GetMetroRecords(ctx context.Context, regionID int64) ([]models.MetroRecord, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	query := d.db.Rebind(`
        SELECT
            mus.id,
            mus.region_id,
            mus.size_rank,
            r.region_name,
            r.state_name,
            mus.date,
            mus.avg_cost
        FROM metro_us mus
        JOIN regions r ON mus.region_id = r.region_id
        WHERE mus.region_id = ?
        AND mus.avg_cost IS NOT NULL
        ORDER BY mus.date ASC
    `)

	records := []models.MetroRecord{}
	if err := d.db.SelectContext(ctx, &records, query, regionID); err != nil {
		return nil, fmt.Errorf("failed to query metro records for region %d: %w", regionID, err)
	}
	return records, nil
}

func (d *Database) GetDistinctYears(ctx context.Context) ([]int, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	query := `
        SELECT DISTINCT CAST(EXTRACT(YEAR FROM date) AS INTEGER) AS year
        FROM metro_us
        WHERE date IS NOT NULL
        ORDER BY year DESC
    `
	if d.driver == config.DriverSQLite {
		query = `
            SELECT DISTINCT CAST(strftime('%Y', date) AS INTEGER) AS year
            FROM metro_us
            WHERE date IS NOT NULL
            ORDER BY year DESC
        `
	}

	years := []int{}
	if err := d.db.SelectContext(ctx, &years, query); err != nil {
		return nil, fmt.Errorf("failed to query distinct years: %w", err)
	}
	return years, nil
}

func (d *Database) GetRegions(ctx context.Context) ([]models.Region, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	query := `
        SELECT region_id, region_name, state_name
        FROM regions
        ORDER BY state_name, region_name, region_id
    `

	regions := []models.Region{}
	if err := d.db.SelectContext(ctx, &regions, query); err != nil {
		return nil, fmt.Errorf("failed to query regions: %w", err)
	}
	return regions, nil
}

func (d *Database) Ping(ctx context.Context) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return d.db.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sqlx.DB {
	return d.db
}
