package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jbweber/homelab/restkit/internal/datastore"
	"github.com/jbweber/homelab/restkit/internal/logging"
	"github.com/jbweber/homelab/restkit/internal/migrations"
)

// DriverMemory keeps every resource in process memory; no database is opened
const DriverMemory = "memory"

// Config holds all configuration for the restkit service
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the storage engine
type DatabaseConfig struct {
	Driver string     `yaml:"driver"` // sqlite, postgres or memory
	Path   string     `yaml:"path"`   // sqlite database file, ~ is expanded
	DSN    string     `yaml:"dsn"`    // postgres connection string
	Pool   PoolConfig `yaml:"pool"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: datastore.DriverSQLite,
			Path:   "~/restkit/data/restkit.db",
			Pool:   defaultPool(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatJSON,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}

	switch c.Database.Driver {
	case datastore.DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case datastore.DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}

	if c.Database.Pool.MaxOpenConns < 0 || c.Database.Pool.MaxIdleConns < 0 {
		errs = append(errs, errors.New("database.pool connection limits must not be negative"))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
	}

	return errors.Join(errs...)
}

// InitializeDatabase opens, tunes and migrates the configured database.
// The memory driver returns a nil datastore.
func (c *Config) InitializeDatabase() (*datastore.Datastore, error) {
	var (
		ds  *datastore.Datastore
		err error
	)

	switch c.Database.Driver {
	case DriverMemory:
		return nil, nil
	case datastore.DriverSQLite:
		ds, err = c.openSQLite()
	case datastore.DriverPostgres:
		ds, err = c.openPostgres()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := migrations.Run(ds.DB); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return ds, nil
}

func (c *Config) openSQLite() (*datastore.Datastore, error) {
	dbPath := c.expandPath(c.Database.Path)

	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	ds, err := datastore.Open(datastore.DriverSQLite, dbPath)
	if err != nil {
		return nil, err
	}

	if err := tune(ds, c.Database.Pool); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
	}

	return ds, nil
}

func (c *Config) openPostgres() (*datastore.Datastore, error) {
	ds, err := datastore.Open(datastore.DriverPostgres, c.Database.DSN)
	if err != nil {
		return nil, err
	}

	if err := tune(ds, c.Database.Pool); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to apply pool settings: %w", err)
	}

	if err := ds.DB.Ping(); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return ds, nil
}

// expandPath expands ~ to home directory
func (c *Config) expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Return original path if we can't get home dir
		return path
	}

	return filepath.Join(homeDir, path[2:])
}
