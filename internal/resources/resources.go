// Package resources wires the resources served by restkit.
package resources

import (
	"io"
	"net/http"

	"github.com/jbweber/homelab/restkit/internal/controller"
	"github.com/jbweber/homelab/restkit/internal/datastore"
)

// Resource is a mountable set of routes
type Resource struct {
	Name    string
	Handler http.Handler
}

// All builds every resource. Without a datastore the resources are kept in memory.
// The returned closers release per-repository state and should be closed on shutdown.
func All(ds *datastore.Datastore, opts ...controller.Option) ([]Resource, []io.Closer) {
	clubRepo := NewClubRepository(ds)
	instanceRepo := NewInstanceRepository(ds)

	var closers []io.Closer
	for _, repo := range []any{clubRepo, instanceRepo} {
		if c, ok := repo.(io.Closer); ok {
			closers = append(closers, c)
		}
	}

	return []Resource{
		{Name: "clubs", Handler: NewClubs(clubRepo, opts...).Routes()},
		{Name: "instances", Handler: NewInstances(instanceRepo, opts...).Routes()},
	}, closers
}
