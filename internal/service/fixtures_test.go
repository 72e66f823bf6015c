package service

import (
	"context"

	"github.com/jbweber/homelab/restkit/internal/apperror"
	"github.com/jbweber/homelab/restkit/internal/domain"
	"github.com/jbweber/homelab/restkit/internal/dto"
	"github.com/jbweber/homelab/restkit/internal/repository"
)

type testClubMapper struct{}

func (testClubMapper) ToEntity(d *dto.Club) *domain.Club {
	return &domain.Club{
		BaseEntity: domain.BaseEntity{ID: d.ID},
		Name:       d.Name,
		Town:       d.Town,
		Email:      d.Email,
	}
}

func (testClubMapper) ToDTO(e *domain.Club) *dto.Club {
	return &dto.Club{Base: dto.Base{ID: e.ID}, Name: e.Name, Town: e.Town, Email: e.Email}
}

// Apply deliberately copies the id too, so tests prove the service restores identity
func (testClubMapper) Apply(e *domain.Club, d *dto.Club) *domain.Club {
	e.ID = d.ID
	e.Name = d.Name
	e.Town = d.Town
	e.Email = d.Email
	return e
}

func (testClubMapper) NotFound(id int64) *apperror.EntityNotFoundError {
	return apperror.NotFound(id, "club.notFound", "Club not found")
}

type testInstanceMapper struct{}

func (testInstanceMapper) ToEntity(d *dto.Instance) *domain.Instance {
	e := &domain.Instance{Name: d.Name, Path: d.Path}
	e.ID = d.ID
	e.Enabled = d.Enabled
	return e
}

func (testInstanceMapper) ToDTO(e *domain.Instance) *dto.Instance {
	d := &dto.Instance{Name: e.Name, Path: e.Path}
	d.ID = e.ID
	d.Enabled = e.Enabled
	return d
}

// Apply copies the enabled flag as well; the service must undo that
func (testInstanceMapper) Apply(e *domain.Instance, d *dto.Instance) *domain.Instance {
	e.Name = d.Name
	e.Path = d.Path
	e.Enabled = d.Enabled
	return e
}

func (testInstanceMapper) NotFound(id int64) *apperror.EntityNotFoundError {
	return apperror.NotFound(id, "instance.notFound", "Instance not found")
}

func newClubService() (*CrudService[*dto.Club, *domain.Club], *repository.MemoryRepository[domain.Club, *domain.Club]) {
	repo := repository.NewMemoryRepository[domain.Club](
		repository.WithUniqueKey("name", func(c *domain.Club) string { return c.Name }),
	)
	return NewCrud[*dto.Club, *domain.Club](repo, testClubMapper{}), repo
}

func newInstanceService() (*CrudeService[*dto.Instance, *domain.Instance], *repository.MemoryCrudeRepository[domain.Instance, *domain.Instance]) {
	repo := repository.NewMemoryCrudeRepository[domain.Instance]()
	return NewCrude[*dto.Instance, *domain.Instance](repo, testInstanceMapper{}), repo
}

func newInstance(name string, enabled bool) *dto.Instance {
	d := &dto.Instance{Name: name, Path: "/srv/" + name}
	d.Enabled = enabled
	return d
}

// countingRepo records writes so tests can assert that none happened
type countingRepo[E any] struct {
	repository.CrudRepository[E]
	saves   int
	deletes int
}

func (r *countingRepo[E]) Save(ctx context.Context, e E) (E, error) {
	r.saves++
	return r.CrudRepository.Save(ctx, e)
}

func (r *countingRepo[E]) Delete(ctx context.Context, e E) error {
	r.deletes++
	return r.CrudRepository.Delete(ctx, e)
}
