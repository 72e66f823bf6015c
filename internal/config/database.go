package config

import (
	"fmt"
	"time"

	"github.com/jbweber/homelab/restkit/internal/datastore"
)

// PoolConfig sizes the database connection pool
type PoolConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

func defaultPool() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: time.Minute,
	}
}

// sqlitePragmas are applied to every SQLite datastore after it is opened
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000", // writers wait for the lock instead of failing with SQLITE_BUSY
	"PRAGMA cache_size = 10000",
	"PRAGMA temp_store = MEMORY",
	"PRAGMA mmap_size = 268435456",
	"PRAGMA optimize",
}

// tune applies the pool settings and, for SQLite, the performance pragmas
func tune(ds *datastore.Datastore, pool PoolConfig) error {
	ds.DB.SetMaxOpenConns(pool.MaxOpenConns)
	ds.DB.SetMaxIdleConns(pool.MaxIdleConns)
	ds.DB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	ds.DB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	if ds.Driver() != datastore.DriverSQLite {
		return nil
	}
	for _, pragma := range sqlitePragmas {
		if _, err := ds.DB.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}
