package migrations

import (
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
)

// Migration represents a database migration with up and down functions
type Migration struct {
	Version int64
	Name    string
	Up      func(*sqlx.Tx) error
	Down    func(*sqlx.Tx) error
}

// Migrator handles database migrations
type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: []Migration{},
	}
}

// AddMigration adds a migration to the migrator
func (m *Migrator) AddMigration(migration Migration) {
	m.migrations = append(m.migrations, migration)
	// Sort migrations by version
	sort.Slice(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
}

// RunMigrations runs all pending migrations
func (m *Migrator) RunMigrations() error {
	// Create migrations table if it doesn't exist
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get current version
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	// Run pending migrations
	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			if err := m.runMigration(migration); err != nil {
				return fmt.Errorf("failed to run migration %d (%s): %w", migration.Version, migration.Name, err)
			}
		}
	}

	return nil
}

// Rollback reverts the most recently applied migration
func (m *Migrator) Rollback() error {
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if currentVersion == 0 {
		return nil
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version != currentVersion {
			continue
		}
		if migration.Down == nil {
			return fmt.Errorf("migration %d (%s) cannot be rolled back", migration.Version, migration.Name)
		}
		return m.inTx(func(tx *sqlx.Tx) error {
			if err := migration.Down(tx); err != nil {
				return err
			}
			_, err := tx.Exec(tx.Rebind("DELETE FROM schema_migrations WHERE version = ?"), migration.Version)
			return err
		})
	}

	return fmt.Errorf("migration %d is applied but not registered", currentVersion)
}

// createMigrationsTable creates the migrations tracking table
func (m *Migrator) createMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// getCurrentVersion returns the current migration version
func (m *Migrator) getCurrentVersion() (int64, error) {
	var version int64
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// runMigration executes a single migration and records it in one transaction
func (m *Migrator) runMigration(migration Migration) error {
	return m.inTx(func(tx *sqlx.Tx) error {
		if err := migration.Up(tx); err != nil {
			return err
		}
		_, err := tx.Exec(tx.Rebind("INSERT INTO schema_migrations (version, name) VALUES (?, ?)"), migration.Version, migration.Name)
		return err
	})
}

func (m *Migrator) inTx(fn func(*sqlx.Tx) error) error {
	tx, err := m.db.Beginx()
	if err != nil {
		return err
	}
	// Rollback after a successful commit is a no-op returning sql.ErrTxDone
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// GetCurrentVersion returns the current migration version (public method)
func (m *Migrator) GetCurrentVersion() (int64, error) {
	return m.getCurrentVersion()
}

// GetMigrations returns all registered migrations
func (m *Migrator) GetMigrations() []Migration {
	return m.migrations
}

// All returns every migration known to restkit, in version order
func All() []Migration {
	all := append([]Migration{}, GetInitialMigrations()...)
	all = append(all, GetPerformanceMigrations()...)
	return all
}

// Run registers every known migration on db and applies the pending ones
func Run(db *sqlx.DB) error {
	migrator := NewMigrator(db)
	for _, migration := range All() {
		migrator.AddMigration(migration)
	}
	return migrator.RunMigrations()
}
