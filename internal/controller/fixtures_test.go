package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/restkit/internal/apperror"
	"github.com/jbweber/homelab/restkit/internal/domain"
	"github.com/jbweber/homelab/restkit/internal/dto"
	"github.com/jbweber/homelab/restkit/internal/repository"
	"github.com/jbweber/homelab/restkit/internal/service"
)

type clubMapper struct{}

func (clubMapper) ToEntity(d *dto.Club) *domain.Club {
	return &domain.Club{Name: d.Name, Town: d.Town, Email: d.Email}
}

func (clubMapper) ToDTO(e *domain.Club) *dto.Club {
	return &dto.Club{Base: dto.Base{ID: e.ID}, Name: e.Name, Town: e.Town, Email: e.Email}
}

func (clubMapper) Apply(e *domain.Club, d *dto.Club) *domain.Club {
	e.Name, e.Town, e.Email = d.Name, d.Town, d.Email
	return e
}

func (clubMapper) NotFound(id int64) *apperror.EntityNotFoundError {
	return apperror.NotFound(id, "club.notFound", "Club not found")
}

func (clubMapper) Duplicated(d *dto.Club) *apperror.DuplicatedPropertyError {
	return apperror.Duplicated("name", d.Name, "club.duplicatedName", "Club name already in use")
}

type instanceMapper struct{}

func (instanceMapper) ToEntity(d *dto.Instance) *domain.Instance {
	e := &domain.Instance{Name: d.Name, Path: d.Path}
	e.Enabled = d.Enabled
	return e
}

func (instanceMapper) ToDTO(e *domain.Instance) *dto.Instance {
	d := &dto.Instance{Name: e.Name, Path: e.Path}
	d.ID = e.ID
	d.Enabled = e.Enabled
	return d
}

func (instanceMapper) Apply(e *domain.Instance, d *dto.Instance) *domain.Instance {
	e.Name, e.Path = d.Name, d.Path
	return e
}

func (instanceMapper) NotFound(id int64) *apperror.EntityNotFoundError {
	return apperror.NotFound(id, "instance.notFound", "Instance not found")
}

func (instanceMapper) Duplicated(d *dto.Instance) *apperror.DuplicatedPropertyError {
	return apperror.Duplicated("name", d.Name, "instance.duplicatedName", "Instance name already in use")
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) ObserveOperation(resource, operation, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, resource+" "+operation+" "+outcome)
}

func newClubRouter(opts ...Option) http.Handler {
	repo := repository.NewMemoryRepository[domain.Club](
		repository.WithUniqueKey("name", func(c *domain.Club) string { return c.Name }),
	)
	svc := service.NewCrud[*dto.Club, *domain.Club](repo, clubMapper{})
	return NewCrud[dto.Club]("clubs", svc, clubMapper{}, opts...).Routes()
}

func newInstanceRouter(opts ...Option) http.Handler {
	repo := repository.NewMemoryCrudeRepository[domain.Instance](
		repository.WithUniqueKey("name", func(i *domain.Instance) string { return i.Name }),
	)
	svc := service.NewCrude[*dto.Instance, *domain.Instance](repo, instanceMapper{})
	return NewCrude[dto.Instance]("instances", svc, instanceMapper{}, opts...).Routes()
}

// do sends a request through h with a request scoped logger, mounting h the way the api does
func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	root := chi.NewRouter()
	root.Mount("/api/v0/res", h)

	req := httptest.NewRequest(method, "/api/v0/res"+path, strings.NewReader(body))
	logger := zerolog.New(zerolog.NewTestWriter(t))
	req = req.WithContext(logger.WithContext(context.Background()))

	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, req)
	return rec
}
