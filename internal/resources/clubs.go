package resources

import (
	"github.com/jbweber/homelab/restkit/internal/apperror"
	"github.com/jbweber/homelab/restkit/internal/controller"
	"github.com/jbweber/homelab/restkit/internal/datastore"
	"github.com/jbweber/homelab/restkit/internal/domain"
	"github.com/jbweber/homelab/restkit/internal/dto"
	"github.com/jbweber/homelab/restkit/internal/repository"
	"github.com/jbweber/homelab/restkit/internal/service"
)

// Club error codes
const (
	CodeClubNotFound      = "club.notFound"
	CodeClubDuplicateName = "club.duplicatedName"
)

var clubsTable = repository.Table{
	Name:    "clubs",
	Columns: []string{"name", "town", "email"},
}

// ClubMapper maps clubs between their wire and stored forms
type ClubMapper struct{}

func (ClubMapper) ToEntity(d *dto.Club) *domain.Club {
	return &domain.Club{
		Name:  d.Name,
		Town:  d.Town,
		Email: d.Email,
	}
}

func (ClubMapper) ToDTO(e *domain.Club) *dto.Club {
	return &dto.Club{
		Base:  dto.Base{ID: e.ID},
		Name:  e.Name,
		Town:  e.Town,
		Email: e.Email,
	}
}

func (ClubMapper) Apply(e *domain.Club, d *dto.Club) *domain.Club {
	e.Name = d.Name
	e.Town = d.Town
	e.Email = d.Email
	return e
}

func (ClubMapper) NotFound(id int64) *apperror.EntityNotFoundError {
	return apperror.NotFound(id, CodeClubNotFound, "Club not found")
}

// Duplicated reports a club whose name is taken
func (ClubMapper) Duplicated(d *dto.Club) *apperror.DuplicatedPropertyError {
	return apperror.Duplicated("name", d.Name, CodeClubDuplicateName, "A club with this name already exists")
}

// NewClubRepository returns the SQL engine when ds is set and the memory engine otherwise
func NewClubRepository(ds *datastore.Datastore) repository.CrudRepository[*domain.Club] {
	if ds != nil {
		return repository.NewSQLRepository[domain.Club](ds, clubsTable)
	}
	return repository.NewMemoryRepository[domain.Club](
		repository.WithName[domain.Club]("club"),
		repository.WithUniqueKey("name", func(c *domain.Club) string { return c.Name }),
	)
}

// NewClubs wires the clubs resource
func NewClubs(repo repository.CrudRepository[*domain.Club], opts ...controller.Option) *controller.CrudController[dto.Club, *dto.Club] {
	svc := service.NewCrud[*dto.Club, *domain.Club](repo, ClubMapper{})
	return controller.NewCrud[dto.Club]("clubs", svc, ClubMapper{}, opts...)
}
