// Package service implements the resource operations on top of the storage port.
//
// A Service is generic over a transfer model D and an entity E. Each resource
// supplies a Mapper; identity, version and enabled flag handling live here once.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/restkit/internal/apperror"
	"github.com/jbweber/homelab/restkit/internal/domain"
	"github.com/jbweber/homelab/restkit/internal/dto"
	"github.com/jbweber/homelab/restkit/internal/repository"
)

// Mapper converts between the transfer model and the entity of one resource.
// All methods must be pure and deterministic.
type Mapper[D dto.Identified, E domain.Entity] interface {
	// ToEntity builds a new entity from a creation request
	ToEntity(d D) E

	// ToDTO maps every client visible field of e
	ToDTO(e E) D

	// Apply copies the domain fields of d onto the fetched entity e and returns it.
	// Identity, version and the enabled flag are restored by the service afterwards.
	Apply(e E, d D) E

	// NotFound builds the resource specific error for a missing id
	NotFound(id int64) *apperror.EntityNotFoundError
}

// Reader is the read side of every resource
type Reader[D any] interface {
	FindByID(ctx context.Context, id int64) (D, error)
	FindAll(ctx context.Context) ([]D, error)
}

// Writer creates and updates resources
type Writer[D any] interface {
	Create(ctx context.Context, d D) (D, error)
	Update(ctx context.Context, d D) (D, error)
}

// Deleter permanently removes resources
type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// Toggler switches the enabled flag of non-removable resources
type Toggler[D any] interface {
	Enable(ctx context.Context, id int64) (D, error)
	Disable(ctx context.Context, id int64) (D, error)
}

// Operations is the capability set shared by every resource
type Operations[D any] interface {
	Reader[D]
	Writer[D]
}

// CrudOperations is the create, read, update, delete capability set
type CrudOperations[D any] interface {
	Operations[D]
	Deleter
}

// CrudeOperations is the create, read, update, enable, disable capability set
type CrudeOperations[D any] interface {
	Operations[D]
	Toggler[D]
}

// Service implements Operations over a Repository
type Service[D dto.Identified, E domain.Entity] struct {
	repo   repository.Repository[E]
	mapper Mapper[D, E]
}

// New creates a Service for one resource
func New[D dto.Identified, E domain.Entity](repo repository.Repository[E], mapper Mapper[D, E]) *Service[D, E] {
	return &Service[D, E]{
		repo:   repo,
		mapper: mapper,
	}
}

// Create stores a new entity built from d. Any id on d is ignored.
func (s *Service[D, E]) Create(ctx context.Context, d D) (D, error) {
	entity := s.mapper.ToEntity(d)
	entity.SetID(0)
	entity.SetVersion(0)

	saved, err := s.repo.Save(ctx, entity)
	if err != nil {
		var zero D
		return zero, err
	}

	zerolog.Ctx(ctx).Debug().Int64("id", saved.GetID()).Msg("created entity")
	return s.mapper.ToDTO(saved), nil
}

// FindByID returns the entity with the given id
func (s *Service[D, E]) FindByID(ctx context.Context, id int64) (D, error) {
	entity, err := s.fetch(ctx, id)
	if err != nil {
		var zero D
		return zero, err
	}
	return s.mapper.ToDTO(entity), nil
}

// FindAll returns every entity in storage order
func (s *Service[D, E]) FindAll(ctx context.Context) ([]D, error) {
	entities, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapAll(entities), nil
}

// Update overwrites the domain fields of the entity identified by d.GetID()
func (s *Service[D, E]) Update(ctx context.Context, d D) (D, error) {
	return s.update(ctx, d, s.mapper.Apply)
}

// fetch loads an entity or fails with the resource's not found error
func (s *Service[D, E]) fetch(ctx context.Context, id int64) (E, error) {
	entity, ok, err := s.repo.FindOne(ctx, id)
	if err != nil {
		var zero E
		return zero, err
	}
	if !ok {
		zerolog.Ctx(ctx).Debug().Int64("id", id).Msg("entity not found")
		var zero E
		return zero, s.mapper.NotFound(id)
	}
	return entity, nil
}

func (s *Service[D, E]) update(ctx context.Context, d D, apply func(E, D) E) (D, error) {
	var zero D

	current, err := s.fetch(ctx, d.GetID())
	if err != nil {
		return zero, err
	}

	id, version := current.GetID(), current.GetVersion()
	next := apply(current, d)
	next.SetID(id)
	next.SetVersion(version)

	saved, err := s.repo.Save(ctx, next)
	if err != nil {
		return zero, err
	}

	zerolog.Ctx(ctx).Debug().Int64("id", id).Int64("version", saved.GetVersion()).Msg("updated entity")
	return s.mapper.ToDTO(saved), nil
}

func (s *Service[D, E]) mapAll(entities []E) []D {
	dtos := make([]D, len(entities))
	for i, e := range entities {
		dtos[i] = s.mapper.ToDTO(e)
	}
	return dtos
}
