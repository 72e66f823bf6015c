package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/restkit/internal/domain"
	"github.com/jbweber/homelab/restkit/internal/dto"
	"github.com/jbweber/homelab/restkit/internal/repository"
)

// CrudService adds permanent removal to Service
type CrudService[D dto.Identified, E domain.Entity] struct {
	*Service[D, E]
	repo repository.CrudRepository[E]
}

// NewCrud creates a CrudService for one removable resource
func NewCrud[D dto.Identified, E domain.Entity](repo repository.CrudRepository[E], mapper Mapper[D, E]) *CrudService[D, E] {
	return &CrudService[D, E]{
		Service: New[D, E](repo, mapper),
		repo:    repo,
	}
}

// Delete removes the entity with the given id
func (s *CrudService[D, E]) Delete(ctx context.Context, id int64) error {
	entity, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, entity); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Int64("id", id).Msg("deleted entity")
	return nil
}
