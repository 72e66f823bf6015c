// Package testutil provides shared helpers for tests that need a database.
package testutil

import "fmt"

// NewTestDSN returns a unique in-memory SQLite DSN for the given test name.
// Databases with different names never share state.
func NewTestDSN(testName string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", testName)
}
