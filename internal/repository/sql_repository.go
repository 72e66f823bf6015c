package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jbweber/homelab/restkit/internal/datastore"
)

// Table describes how an entity is laid out in the database.
// Columns lists the domain columns; id and version are implied.
// Every column must match a db tag on the entity.
type Table struct {
	Name    string
	Columns []string
}

// SQLRepository is a generic Repository over a sqlx handle.
// It works on any entity whose fields carry db tags matching Table.
type SQLRepository[T any, E EntityPtr[T]] struct {
	ds    *datastore.Datastore
	table Table
	stmts *PreparedStatementCache

	selectOneSQL string
	selectAllSQL string
	insertSQL    string
	updateSQL    string
	deleteSQL    string
}

// NewSQLRepository creates a repository for the entities stored in table
func NewSQLRepository[T any, E EntityPtr[T]](ds *datastore.Datastore, table Table) *SQLRepository[T, E] {
	selectCols := strings.Join(append([]string{"id", "version"}, table.Columns...), ", ")

	params := make([]string, len(table.Columns))
	assignments := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		params[i] = ":" + col
		assignments[i] = col + " = :" + col
	}

	return &SQLRepository[T, E]{
		ds:    ds,
		table: table,
		stmts: NewPreparedStatementCache(ds.DB),

		selectOneSQL: ds.DB.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", selectCols, table.Name)),
		selectAllSQL: fmt.Sprintf("SELECT %s FROM %s ORDER BY id", selectCols, table.Name),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			table.Name, strings.Join(table.Columns, ", "), strings.Join(params, ", ")),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = :id AND version = :version",
			table.Name, strings.Join(assignments, ", ")),
		deleteSQL: ds.DB.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table.Name)),
	}
}

// FindOne retrieves an entity by its ID
func (r *SQLRepository[T, E]) FindOne(ctx context.Context, id int64) (E, bool, error) {
	stmt, err := r.stmts.Get(r.selectOneSQL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to prepare select from %s: %w", r.table.Name, err)
	}

	entity := E(new(T))
	if err := stmt.GetContext(ctx, entity, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to find %s %d: %w", r.table.Name, id, err)
	}
	return entity, true, nil
}

// FindAll retrieves all entities ordered by ID
func (r *SQLRepository[T, E]) FindAll(ctx context.Context) ([]E, error) {
	return r.selectMany(ctx, r.selectAllSQL)
}

// Save inserts or updates an entity depending on whether it has an ID
func (r *SQLRepository[T, E]) Save(ctx context.Context, entity E) (E, error) {
	if entity.GetID() == 0 {
		return r.insert(ctx, entity)
	}
	return r.update(ctx, entity)
}

// Delete removes an entity by its ID
func (r *SQLRepository[T, E]) Delete(ctx context.Context, entity E) error {
	stmt, err := r.stmts.Get(r.deleteSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare delete from %s: %w", r.table.Name, err)
	}
	if _, err := stmt.ExecContext(ctx, entity.GetID()); err != nil {
		return wrapWriteError("delete from", r.table.Name, err)
	}
	return nil
}

// Close releases the prepared statements held by the repository
func (r *SQLRepository[T, E]) Close() error {
	return r.stmts.Close()
}

func (r *SQLRepository[T, E]) insert(ctx context.Context, entity E) (E, error) {
	stmt, err := r.stmts.GetNamed(r.insertSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert into %s: %w", r.table.Name, err)
	}

	var id int64
	if err := stmt.GetContext(ctx, &id, entity); err != nil {
		return nil, wrapWriteError("insert into", r.table.Name, err)
	}

	saved := clone[T](entity)
	saved.SetID(id)
	saved.SetVersion(0)
	return saved, nil
}

func (r *SQLRepository[T, E]) update(ctx context.Context, entity E) (E, error) {
	stmt, err := r.stmts.GetNamed(r.updateSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update of %s: %w", r.table.Name, err)
	}

	result, err := stmt.ExecContext(ctx, entity)
	if err != nil {
		return nil, wrapWriteError("update", r.table.Name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%s %d at version %d: %w", r.table.Name, entity.GetID(), entity.GetVersion(), ErrStaleEntity)
	}

	saved := clone[T](entity)
	saved.SetVersion(entity.GetVersion() + 1)
	return saved, nil
}

func (r *SQLRepository[T, E]) selectMany(ctx context.Context, query string, args ...any) ([]E, error) {
	stmt, err := r.stmts.Get(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select from %s: %w", r.table.Name, err)
	}

	var rows []T
	if err := stmt.SelectContext(ctx, &rows, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table.Name, err)
	}

	entities := make([]E, len(rows))
	for i := range rows {
		entities[i] = E(&rows[i])
	}
	return entities, nil
}

// SQLCrudeRepository is a SQLRepository for non-removable entities.
// The table must have an enabled column.
type SQLCrudeRepository[T any, E ToggleablePtr[T]] struct {
	*SQLRepository[T, E]
	selectEnabledSQL string
}

// NewSQLCrudeRepository creates a repository for non-removable entities stored in table
func NewSQLCrudeRepository[T any, E ToggleablePtr[T]](ds *datastore.Datastore, table Table) *SQLCrudeRepository[T, E] {
	base := NewSQLRepository[T, E](ds, table)
	return &SQLCrudeRepository[T, E]{
		SQLRepository: base,
		selectEnabledSQL: ds.DB.Rebind(fmt.Sprintf("SELECT id, version, %s FROM %s WHERE enabled = ? ORDER BY id",
			strings.Join(table.Columns, ", "), table.Name)),
	}
}

// FindAllEnabled retrieves the enabled entities ordered by ID
func (r *SQLCrudeRepository[T, E]) FindAllEnabled(ctx context.Context) ([]E, error) {
	return r.selectMany(ctx, r.selectEnabledSQL, true)
}
