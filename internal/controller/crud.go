package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/restkit/internal/service"
)

// CrudController serves a removable resource
type CrudController[T any, D Body[T]] struct {
	*Controller[T, D]
	ops service.CrudOperations[D]
}

// NewCrud creates a controller for the create, read, update, delete capability set
func NewCrud[T any, D Body[T]](resource string, ops service.CrudOperations[D], duplicates DuplicateReporter[D], opts ...Option) *CrudController[T, D] {
	return &CrudController[T, D]{
		Controller: newController[T, D](resource, ops, duplicates, opts),
		ops:        ops,
	}
}

// Delete handles DELETE /{id}; success has an empty body
func (c *CrudController[T, D]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, OpDelete, err)
		return
	}

	if err := c.ops.Delete(r.Context(), id); err != nil {
		c.fail(w, r, OpDelete, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	c.observe(OpDelete, http.StatusOK)
}

// Routes returns a router with the CRUD endpoints.
// A non-positive {id} answers 400 request.invalidId; an unknown positive id answers 404.
func (c *CrudController[T, D]) Routes() chi.Router {
	r := chi.NewRouter()
	c.register(r)
	r.Delete("/{id}", c.Delete)
	return r
}
