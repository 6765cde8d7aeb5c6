package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ErrMissingConfig is returned when a required setting is not provided.
var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Dashboard DashboardConfig
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"5250"`

	// debug, release or test
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	// postgres or sqlite3
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DATABASE"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Path to the database file when Driver is sqlite3
	SQLitePath string `env:"SQLITE_PATH"`

	// Create the schema on startup (sqlite3 only)
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"false"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"1"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	QueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"10s"`
}

type DashboardConfig struct {
	// Locale used when the request carries no usable Accept-Language header
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en-US"`

	// Number of months projected on the predictions page
	ForecastMonths int `env:"FORECAST_MONTHS" envDefault:"12"`

	ChartWidth  int `env:"CHART_WIDTH" envDefault:"1024"`
	ChartHeight int `env:"CHART_HEIGHT" envDefault:"400"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that would need a baked-in credential or
// an unknown driver to work.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		required := []struct {
			name  string
			value string
		}{
			{"POSTGRES_USER", c.Database.User},
			{"POSTGRES_PASSWORD", c.Database.Password},
			{"POSTGRES_DATABASE", c.Database.Name},
		}
		for _, r := range required {
			if r.value == "" {
				return fmt.Errorf("%w: %s", ErrMissingConfig, r.name)
			}
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH", ErrMissingConfig)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Dashboard.ForecastMonths <= 0 {
		return fmt.Errorf("FORECAST_MONTHS must be positive, got %d", c.Dashboard.ForecastMonths)
	}
	if c.Dashboard.ChartWidth <= 0 || c.Dashboard.ChartHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive, got %dx%d", c.Dashboard.ChartWidth, c.Dashboard.ChartHeight)
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.SQLitePath
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
