package datastore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by default
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Datastore wraps the database handle shared by all repositories
type Datastore struct {
	DB *sqlx.DB
}

// Open connects to the database identified by driver and dsn.
// For SQLite, foreign key enforcement is switched on.
func Open(driver, dsn string) (*Datastore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &Datastore{DB: db}, nil
}

// New wraps an existing sqlx handle, mostly useful for tests
func New(db *sqlx.DB) *Datastore {
	return &Datastore{DB: db}
}

// Driver returns the name of the underlying database driver
func (ds *Datastore) Driver() string {
	return ds.DB.DriverName()
}

// Ping verifies the database is reachable
func (ds *Datastore) Ping(ctx context.Context) error {
	return ds.DB.PingContext(ctx)
}

// Close closes the underlying database handle
func (ds *Datastore) Close() error {
	return ds.DB.Close()
}
