package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isConstraintViolation reports whether err is an integrity constraint failure
// raised by one of the supported database drivers.
func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// Extended result codes keep the primary code in the low byte
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 23: integrity constraint violation
		return pqErr.Code.Class() == "23"
	}

	return false
}

// wrapWriteError annotates a failed write, marking constraint failures with ErrConstraintViolation
func wrapWriteError(op, table string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("failed to %s %s: %w: %w", op, table, ErrConstraintViolation, err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, table, err)
}
