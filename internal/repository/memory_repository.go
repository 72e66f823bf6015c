package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryOption configures a MemoryRepository
type MemoryOption[T any] func(*memoryConfig[T])

type uniqueKey[T any] struct {
	name string
	key  func(*T) string
}

type memoryConfig[T any] struct {
	name   string
	unique []uniqueKey[T]
}

// WithUniqueKey rejects saves where key collides with another stored entity.
// Collisions are reported as ErrConstraintViolation.
func WithUniqueKey[T any](name string, key func(*T) string) MemoryOption[T] {
	return func(c *memoryConfig[T]) {
		c.unique = append(c.unique, uniqueKey[T]{name: name, key: key})
	}
}

// WithName sets the collection name used in error messages
func WithName[T any](name string) MemoryOption[T] {
	return func(c *memoryConfig[T]) {
		c.name = name
	}
}

// MemoryRepository is a Repository kept in process memory.
// Entities are copied on the way in and out, so callers never share state with the store.
type MemoryRepository[T any, E EntityPtr[T]] struct {
	mu     sync.RWMutex
	cfg    memoryConfig[T]
	nextID int64
	rows   map[int64]T
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository[T any, E EntityPtr[T]](opts ...MemoryOption[T]) *MemoryRepository[T, E] {
	cfg := memoryConfig[T]{name: "entity"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryRepository[T, E]{
		cfg:  cfg,
		rows: make(map[int64]T),
	}
}

// FindOne retrieves an entity by its ID
func (r *MemoryRepository[T, E]) FindOne(ctx context.Context, id int64) (E, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, false, nil
	}
	return E(&row), true, nil
}

// FindAll retrieves all entities ordered by ID
func (r *MemoryRepository[T, E]) FindAll(ctx context.Context) ([]E, error) {
	return r.filter(ctx, func(E) bool { return true })
}

// Save inserts or updates an entity depending on whether it has an ID
func (r *MemoryRepository[T, E]) Save(ctx context.Context, entity E) (E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved := clone[T](entity)
	id := saved.GetID()

	if id == 0 {
		if err := r.checkUnique(saved, 0); err != nil {
			return nil, err
		}
		r.nextID++
		saved.SetID(r.nextID)
		saved.SetVersion(0)
	} else {
		current, ok := r.rows[id]
		if !ok || E(&current).GetVersion() != saved.GetVersion() {
			return nil, fmt.Errorf("%s %d at version %d: %w", r.cfg.name, id, saved.GetVersion(), ErrStaleEntity)
		}
		if err := r.checkUnique(saved, id); err != nil {
			return nil, err
		}
		saved.SetVersion(saved.GetVersion() + 1)
	}

	r.rows[saved.GetID()] = *(*T)(saved)
	return clone[T](saved), nil
}

// Delete removes an entity by its ID
func (r *MemoryRepository[T, E]) Delete(ctx context.Context, entity E) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, entity.GetID())
	return nil
}

// Size returns the number of stored entities
func (r *MemoryRepository[T, E]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func (r *MemoryRepository[T, E]) filter(ctx context.Context, keep func(E) bool) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	entities := make([]E, 0, len(ids))
	for _, id := range ids {
		row := r.rows[id]
		if e := E(&row); keep(e) {
			entities = append(entities, e)
		}
	}
	return entities, nil
}

// checkUnique must be called with the write lock held
func (r *MemoryRepository[T, E]) checkUnique(entity E, selfID int64) error {
	for _, uk := range r.cfg.unique {
		want := uk.key((*T)(entity))
		for id, row := range r.rows {
			if id == selfID {
				continue
			}
			if uk.key(&row) == want {
				return fmt.Errorf("%s %s %q already exists: %w", r.cfg.name, uk.name, want, ErrConstraintViolation)
			}
		}
	}
	return nil
}

// MemoryCrudeRepository is a MemoryRepository for non-removable entities
type MemoryCrudeRepository[T any, E ToggleablePtr[T]] struct {
	*MemoryRepository[T, E]
}

// NewMemoryCrudeRepository creates an empty in-memory repository for non-removable entities
func NewMemoryCrudeRepository[T any, E ToggleablePtr[T]](opts ...MemoryOption[T]) *MemoryCrudeRepository[T, E] {
	return &MemoryCrudeRepository[T, E]{MemoryRepository: NewMemoryRepository[T, E](opts...)}
}

// FindAllEnabled retrieves the enabled entities ordered by ID
func (r *MemoryCrudeRepository[T, E]) FindAllEnabled(ctx context.Context) ([]E, error) {
	return r.filter(ctx, func(e E) bool { return e.IsEnabled() })
}
