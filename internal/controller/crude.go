package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/restkit/internal/service"
)

// CrudeController serves a non-removable resource
type CrudeController[T any, D Body[T]] struct {
	*Controller[T, D]
	ops service.CrudeOperations[D]
}

// NewCrude creates a controller for the create, read, update, enable, disable capability set
func NewCrude[T any, D Body[T]](resource string, ops service.CrudeOperations[D], duplicates DuplicateReporter[D], opts ...Option) *CrudeController[T, D] {
	return &CrudeController[T, D]{
		Controller: newController[T, D](resource, ops, duplicates, opts),
		ops:        ops,
	}
}

// Enable handles PUT /{id}/enable
func (c *CrudeController[T, D]) Enable(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, OpEnable, c.ops.Enable)
}

// Disable handles PUT /{id}/disable
func (c *CrudeController[T, D]) Disable(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, OpDisable, c.ops.Disable)
}

func (c *CrudeController[T, D]) toggle(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, id int64) (D, error)) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, op, err)
		return
	}

	toggled, err := fn(r.Context(), id)
	if err != nil {
		c.fail(w, r, op, translateStale(err, id))
		return
	}

	c.ok(w, r, op, toggled)
}

// Routes returns a router with the CRUDE endpoints.
// A non-positive {id} answers 400 request.invalidId; an unknown positive id answers 404.
func (c *CrudeController[T, D]) Routes() chi.Router {
	r := chi.NewRouter()
	c.register(r)
	r.Put("/{id}/enable", c.Enable)
	r.Put("/{id}/disable", c.Disable)
	return r
}
