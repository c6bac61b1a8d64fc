// Package config builds the pipeline configuration once at startup from the
// environment and holds the database connections shared by the components.
// No component reads environment variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds the connection settings for one MySQL database.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// DSN renders the database/sql data source name for the MySQL driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Config is the explicit configuration object for an ETL run, constructed
// once and passed by reference to every component.
type Config struct {
	// Warehouse is the analytical store holding staging, dimension and fact
	// tables. Losing it is the only run-level fatal failure.
	Warehouse DatabaseConfig
	// OLTP1 is the bookings transaction store (customers, bookings, payments).
	OLTP1 DatabaseConfig
	// OLTP2 is the fleet transaction store (aircrafts, flights, routes).
	OLTP2 DatabaseConfig

	// APIURL and APIKey configure the flights HTTP source.
	APIURL   string
	APIKey   string
	APILimit int

	// CSVPath is the satisfaction survey file.
	CSVPath string

	// SourceTimeout bounds each source's extract; exceeding it is that
	// source's failure, not the run's.
	SourceTimeout time.Duration
	// MergeTimeout bounds each target table's merge transaction.
	MergeTimeout time.Duration

	// RunInterval is the schedule period for -mode scheduled.
	RunInterval time.Duration
	// BatchSize caps the rows per staging INSERT statement.
	BatchSize int

	EnableDetailedLogging bool
}

// Load reads the configuration from environment variables, applying defaults
// where a variable is unset. Only the API key and CSV path have no default.
func Load() *Config {
	return &Config{
		Warehouse: loadDatabase("DW", "AirlineDW"),
		OLTP1:     loadDatabase("OLTP1", "AirFlightsOLTP1"),
		OLTP2:     loadDatabase("OLTP2", "AirFlightsOLTP2"),

		APIURL:   envOr("API_URL", "http://api.aviationstack.com/v1/flights"),
		APIKey:   os.Getenv("API_KEY"),
		APILimit: envIntOr("API_LIMIT", 100),

		CSVPath: os.Getenv("CSV_PATH"),

		SourceTimeout: envDurationOr("SOURCE_TIMEOUT", 30*time.Second),
		MergeTimeout:  envDurationOr("MERGE_TIMEOUT", 2*time.Minute),
		RunInterval:   envDurationOr("RUN_INTERVAL", 1*time.Hour),
		BatchSize:     envIntOr("BATCH_SIZE", 500),

		EnableDetailedLogging: envOr("ETL_VERBOSE", "false") == "true",
	}
}

// loadDatabase reads one database's settings using the given env var prefix,
// e.g. DW_HOST, DW_PORT, DW_USER, DW_PASSWORD, DW_NAME.
func loadDatabase(prefix, defaultName string) DatabaseConfig {
	return DatabaseConfig{
		Host:     envOr(prefix+"_HOST", "localhost"),
		Port:     envIntOr(prefix+"_PORT", 3306),
		User:     envOr(prefix+"_USER", "root"),
		Password: os.Getenv(prefix + "_PASSWORD"),
		DBName:   envOr(prefix+"_NAME", defaultName),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
