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

// Instance error codes
const (
	CodeInstanceNotFound      = "instance.notFound"
	CodeInstanceDuplicateName = "instance.duplicatedName"
)

var instancesTable = repository.Table{
	Name:    "instances",
	Columns: []string{"enabled", "name", "path"},
}

// InstanceMapper maps instances between their wire and stored forms.
// Apply leaves the enabled flag alone; it only changes through enable and disable.
type InstanceMapper struct{}

func (InstanceMapper) ToEntity(d *dto.Instance) *domain.Instance {
	e := &domain.Instance{
		Name: d.Name,
		Path: d.Path,
	}
	e.Enabled = d.Enabled
	return e
}

func (InstanceMapper) ToDTO(e *domain.Instance) *dto.Instance {
	d := &dto.Instance{
		Name: e.Name,
		Path: e.Path,
	}
	d.ID = e.ID
	d.Enabled = e.Enabled
	return d
}

func (InstanceMapper) Apply(e *domain.Instance, d *dto.Instance) *domain.Instance {
	e.Name = d.Name
	e.Path = d.Path
	return e
}

func (InstanceMapper) NotFound(id int64) *apperror.EntityNotFoundError {
	return apperror.NotFound(id, CodeInstanceNotFound, "Instance not found")
}

// Duplicated reports an instance whose name is taken
func (InstanceMapper) Duplicated(d *dto.Instance) *apperror.DuplicatedPropertyError {
	return apperror.Duplicated("name", d.Name, CodeInstanceDuplicateName, "An instance with this name already exists")
}

// NewInstanceRepository returns the SQL engine when ds is set and the memory engine otherwise
func NewInstanceRepository(ds *datastore.Datastore) repository.CrudeRepository[*domain.Instance] {
	if ds != nil {
		return repository.NewSQLCrudeRepository[domain.Instance](ds, instancesTable)
	}
	return repository.NewMemoryCrudeRepository[domain.Instance](
		repository.WithName[domain.Instance]("instance"),
		repository.WithUniqueKey("name", func(i *domain.Instance) string { return i.Name }),
	)
}

// NewInstances wires the instances resource
func NewInstances(repo repository.CrudeRepository[*domain.Instance], opts ...controller.Option) *controller.CrudeController[dto.Instance, *dto.Instance] {
	svc := service.NewCrude[*dto.Instance, *domain.Instance](repo, InstanceMapper{})
	return controller.NewCrude[dto.Instance]("instances", svc, InstanceMapper{}, opts...)
}
