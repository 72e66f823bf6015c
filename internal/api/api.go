// Package api assembles the HTTP surface of restkit.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/restkit/internal/controller"
	"github.com/jbweber/homelab/restkit/internal/datastore"
	"github.com/jbweber/homelab/restkit/internal/logging"
	"github.com/jbweber/homelab/restkit/internal/metrics"
	"github.com/jbweber/homelab/restkit/internal/resources"
)

// Prefix every resource is mounted under
const Prefix = "/api/v0"

// Options configures the API
type Options struct {
	// Datastore backs the resources; nil keeps them in memory
	Datastore *datastore.Datastore
	Logger    zerolog.Logger
	// Metrics is optional; when set, operations and requests are counted and exposed at MetricsPath
	Metrics     *metrics.Metrics
	MetricsPath string
}

// API holds the resources and shared infrastructure
type API struct {
	opts      Options
	resources []resources.Resource
	closers   []io.Closer
}

// New creates the API and wires every resource
func New(opts Options) *API {
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	var controllerOpts []controller.Option
	if opts.Metrics != nil {
		controllerOpts = append(controllerOpts, controller.WithObserver(opts.Metrics))
	}

	all, closers := resources.All(opts.Datastore, controllerOpts...)
	return &API{
		opts:      opts,
		resources: all,
		closers:   closers,
	}
}

// Handler returns a router with the middleware stack and every route registered
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(a.opts.Logger))
	if a.opts.Metrics != nil {
		r.Use(a.opts.Metrics.Middleware)
	}
	r.Use(middleware.Recoverer)

	a.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all API endpoints to the given chi router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/", a.rootHandler)
	r.Get("/healthz", a.healthHandler)

	if a.opts.Metrics != nil {
		r.Method(http.MethodGet, a.opts.MetricsPath, a.opts.Metrics.Handler())
	}

	for _, res := range a.resources {
		r.Mount(fmt.Sprintf("%s/%s", Prefix, res.Name), res.Handler)
	}
}

// Close releases resources held by the repositories. The datastore is owned by the caller.
func (a *API) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
