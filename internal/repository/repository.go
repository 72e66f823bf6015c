package repository

import (
	"context"

	"github.com/jbweber/homelab/restkit/internal/domain"
)

// Repository is the minimal persistence contract consumed by the service layer.
type Repository[E any] interface {
	// FindOne returns the entity with the given id.
	// A missing entity is reported with ok == false and a nil error.
	FindOne(ctx context.Context, id int64) (entity E, ok bool, err error)

	// FindAll returns every entity in an engine defined order
	FindAll(ctx context.Context) ([]E, error)

	// Save inserts the entity when its ID is zero and updates it otherwise.
	// The returned entity carries the assigned ID and the new version.
	Save(ctx context.Context, entity E) (E, error)
}

// CrudRepository adds permanent removal to Repository
type CrudRepository[E any] interface {
	Repository[E]

	// Delete removes the entity. Deleting a missing entity is not an error.
	Delete(ctx context.Context, entity E) error
}

// CrudeRepository adds listing of enabled entities to Repository
type CrudeRepository[E any] interface {
	Repository[E]

	// FindAllEnabled returns only the entities whose enabled flag is set
	FindAllEnabled(ctx context.Context) ([]E, error)
}

// EntityPtr constrains E to be a pointer to T implementing domain.Entity,
// which lets the engines allocate and copy entities generically.
type EntityPtr[T any] interface {
	*T
	domain.Entity
}

// ToggleablePtr is EntityPtr for non-removable entities
type ToggleablePtr[T any] interface {
	*T
	domain.Toggleable
}

// clone returns a shallow copy of e so callers never share engine state
func clone[T any, E EntityPtr[T]](e E) E {
	c := *(*T)(e)
	return E(&c)
}
