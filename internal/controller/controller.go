// Package controller exposes resource services as chi routes.
//
// Controllers are generic over the transfer model T; D is its pointer type.
// Only the routes of the declared capability set are registered, so a
// DELETE on a non-removable resource is answered with 405 by the router.
package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/restkit/internal/apperror"
	"github.com/jbweber/homelab/restkit/internal/dto"
	"github.com/jbweber/homelab/restkit/internal/repository"
	"github.com/jbweber/homelab/restkit/internal/service"
)

// Body constrains D to be a pointer to the transfer model T
type Body[T any] interface {
	*T
	dto.Identified
}

// DuplicateReporter builds the resource specific error for a uniqueness violation
type DuplicateReporter[D any] interface {
	Duplicated(d D) *apperror.DuplicatedPropertyError
}

// Observer is notified once per handled operation
type Observer interface {
	ObserveOperation(resource, operation, outcome string)
}

// Operation names reported to the Observer
const (
	OpCreate   = "create"
	OpFindByID = "find_by_id"
	OpFindAll  = "find_all"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpEnable   = "enable"
	OpDisable  = "disable"
)

// Option configures a controller
type Option func(*options)

type options struct {
	observer Observer
	validate *validator.Validate
}

// WithObserver reports every operation outcome to o
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// WithValidator replaces the default validator
func WithValidator(v *validator.Validate) Option {
	return func(opts *options) {
		opts.validate = v
	}
}

// Controller serves the operations shared by every resource
type Controller[T any, D Body[T]] struct {
	resource   string
	ops        service.Operations[D]
	duplicates DuplicateReporter[D]
	opts       options
}

func newController[T any, D Body[T]](resource string, ops service.Operations[D], duplicates DuplicateReporter[D], opts []Option) *Controller[T, D] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.validate == nil {
		o.validate = NewValidator()
	}
	return &Controller[T, D]{
		resource:   resource,
		ops:        ops,
		duplicates: duplicates,
		opts:       o,
	}
}

// Create handles POST /
func (c *Controller[T, D]) Create(w http.ResponseWriter, r *http.Request) {
	var body T
	d := D(&body)

	if err := c.readBody(r, d); err != nil {
		c.fail(w, r, OpCreate, err)
		return
	}

	created, err := c.ops.Create(r.Context(), d)
	if err != nil {
		c.fail(w, r, OpCreate, c.translateWrite(err, d))
		return
	}

	c.ok(w, r, OpCreate, created)
}

// FindByID handles GET /{id}
func (c *Controller[T, D]) FindByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, OpFindByID, err)
		return
	}

	found, err := c.ops.FindByID(r.Context(), id)
	if err != nil {
		c.fail(w, r, OpFindByID, err)
		return
	}

	c.ok(w, r, OpFindByID, found)
}

// FindAll handles GET /
func (c *Controller[T, D]) FindAll(w http.ResponseWriter, r *http.Request) {
	all, err := c.ops.FindAll(r.Context())
	if err != nil {
		c.fail(w, r, OpFindAll, err)
		return
	}
	if all == nil {
		all = []D{}
	}

	c.ok(w, r, OpFindAll, all)
}

// Update handles PUT /{id}. The path id always wins over the body id.
func (c *Controller[T, D]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, OpUpdate, err)
		return
	}

	var body T
	d := D(&body)
	if err := c.readBody(r, d); err != nil {
		c.fail(w, r, OpUpdate, err)
		return
	}

	if bodyID := d.GetID(); bodyID != 0 && bodyID != id {
		zerolog.Ctx(r.Context()).Debug().
			Int64("path_id", id).
			Int64("body_id", bodyID).
			Msg("body id differs from path id, using path id")
	}
	d.SetID(id)

	updated, err := c.ops.Update(r.Context(), d)
	if err != nil {
		c.fail(w, r, OpUpdate, c.translateWrite(err, d))
		return
	}

	c.ok(w, r, OpUpdate, updated)
}

// register adds the shared routes to r
func (c *Controller[T, D]) register(r chi.Router) {
	r.Get("/", c.FindAll)
	r.Post("/", c.Create)
	r.Get("/{id}", c.FindByID)
	r.Put("/{id}", c.Update)
}

func (c *Controller[T, D]) readBody(r *http.Request, d D) error {
	if err := decodeBody(r, d); err != nil {
		return err
	}
	return validateBody(r.Context(), c.opts.validate, d)
}

// translateWrite maps storage signals of a create or update to domain errors
func (c *Controller[T, D]) translateWrite(err error, d D) error {
	if errors.Is(err, repository.ErrConstraintViolation) && c.duplicates != nil {
		return c.duplicates.Duplicated(d)
	}
	return translateStale(err, d.GetID())
}

func translateStale(err error, id int64) error {
	if errors.Is(err, repository.ErrStaleEntity) {
		return &apperror.ConcurrentModificationError{ID: id}
	}
	return err
}

func (c *Controller[T, D]) ok(w http.ResponseWriter, r *http.Request, op string, body any) {
	writeJSON(w, r, http.StatusOK, body)
	c.observe(op, http.StatusOK)
}

func (c *Controller[T, D]) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	restErr := writeError(w, r, err)
	c.observe(op, restErr.Status)
}

func (c *Controller[T, D]) observe(op string, status int) {
	if c.opts.observer != nil {
		c.opts.observer.ObserveOperation(c.resource, op, outcome(status))
	}
}

func outcome(status int) string {
	switch {
	case status < 300:
		return "success"
	case status == http.StatusBadRequest:
		return "invalid"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusConflict:
		return "conflict"
	default:
		return "error"
	}
}
