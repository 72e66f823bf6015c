package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jbweber/homelab/restkit/internal/datastore"
	"github.com/jbweber/homelab/restkit/internal/migrations"
)

// CleanupTestDB removes the test database file
func CleanupTestDB(dsn string) error {
	// Extract file path from DSN
	if len(dsn) < 5 || dsn[:5] != "file:" {
		return fmt.Errorf("invalid DSN format")
	}

	path := dsn[5:]
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SetupTestDB creates and returns a test datastore over in-memory SQLite
func SetupTestDB(t *testing.T, testName string) (*datastore.Datastore, func()) {
	t.Helper()
	dsn := NewTestDSN(testName)

	ds, err := datastore.Open(datastore.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		if err := ds.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
		_ = CleanupTestDB(dsn)
	}

	return ds, cleanup
}

// SetupTestDBWithMigrations creates a test datastore with the full schema applied
func SetupTestDBWithMigrations(t *testing.T, testName string) (*datastore.Datastore, func()) {
	t.Helper()
	ds, cleanup := SetupTestDB(t, testName)

	if err := migrations.Run(ds.DB); err != nil {
		cleanup()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return ds, cleanup
}
