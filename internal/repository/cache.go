package repository

import (
	"sync"

	"github.com/jmoiron/sqlx"
)

// PreparedStatementCache caches prepared statements for better performance.
// Positional and named statements are kept apart since sqlx prepares them differently.
type PreparedStatementCache struct {
	mu         sync.RWMutex
	statements map[string]*sqlx.Stmt
	named      map[string]*sqlx.NamedStmt
	db         *sqlx.DB
}

// NewPreparedStatementCache creates a new prepared statement cache
func NewPreparedStatementCache(db *sqlx.DB) *PreparedStatementCache {
	return &PreparedStatementCache{
		statements: make(map[string]*sqlx.Stmt),
		named:      make(map[string]*sqlx.NamedStmt),
		db:         db,
	}
}

// Get retrieves or creates a prepared statement for a query using bind vars
func (c *PreparedStatementCache) Get(query string) (*sqlx.Stmt, error) {
	c.mu.RLock()
	if stmt, ok := c.statements[query]; ok {
		c.mu.RUnlock()
		return stmt, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if stmt, ok := c.statements[query]; ok {
		return stmt, nil
	}

	stmt, err := c.db.Preparex(query)
	if err != nil {
		return nil, err
	}

	c.statements[query] = stmt
	return stmt, nil
}

// GetNamed retrieves or creates a prepared statement for a query using :name parameters
func (c *PreparedStatementCache) GetNamed(query string) (*sqlx.NamedStmt, error) {
	c.mu.RLock()
	if stmt, ok := c.named[query]; ok {
		c.mu.RUnlock()
		return stmt, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if stmt, ok := c.named[query]; ok {
		return stmt, nil
	}

	stmt, err := c.db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}

	c.named[query] = stmt
	return stmt, nil
}

// Close closes all prepared statements and clears the cache
func (c *PreparedStatementCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for _, stmt := range c.statements {
		if err := stmt.Close(); err != nil {
			lastErr = err
		}
	}
	for _, stmt := range c.named {
		if err := stmt.Close(); err != nil {
			lastErr = err
		}
	}

	c.statements = make(map[string]*sqlx.Stmt)
	c.named = make(map[string]*sqlx.NamedStmt)
	return lastErr
}

// Clear removes a specific prepared statement from cache
func (c *PreparedStatementCache) Clear(query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stmt, ok := c.statements[query]; ok {
		delete(c.statements, query)
		return stmt.Close()
	}
	if stmt, ok := c.named[query]; ok {
		delete(c.named, query)
		return stmt.Close()
	}

	return nil
}

// Size returns the number of cached prepared statements
func (c *PreparedStatementCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.statements) + len(c.named)
}
