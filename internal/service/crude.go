package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/restkit/internal/domain"
	"github.com/jbweber/homelab/restkit/internal/dto"
	"github.com/jbweber/homelab/restkit/internal/repository"
)

// CrudeService serves non-removable resources. Listing hides disabled
// entities and the enabled flag only changes through Enable and Disable.
type CrudeService[D dto.Identified, E domain.Toggleable] struct {
	*Service[D, E]
	repo repository.CrudeRepository[E]
}

// NewCrude creates a CrudeService for one non-removable resource
func NewCrude[D dto.Identified, E domain.Toggleable](repo repository.CrudeRepository[E], mapper Mapper[D, E]) *CrudeService[D, E] {
	return &CrudeService[D, E]{
		Service: New[D, E](repo, mapper),
		repo:    repo,
	}
}

// FindAll returns the enabled entities in storage order
func (s *CrudeService[D, E]) FindAll(ctx context.Context) ([]D, error) {
	entities, err := s.repo.FindAllEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapAll(entities), nil
}

// Update overwrites the domain fields of an entity, keeping its enabled flag
func (s *CrudeService[D, E]) Update(ctx context.Context, d D) (D, error) {
	return s.update(ctx, d, func(e E, d D) E {
		enabled := e.IsEnabled()
		next := s.mapper.Apply(e, d)
		next.SetEnabled(enabled)
		return next
	})
}

// Enable sets the enabled flag. Enabling an enabled entity is a no-op success.
func (s *CrudeService[D, E]) Enable(ctx context.Context, id int64) (D, error) {
	return s.setEnabled(ctx, id, true)
}

// Disable clears the enabled flag. Disabling a disabled entity is a no-op success.
func (s *CrudeService[D, E]) Disable(ctx context.Context, id int64) (D, error) {
	return s.setEnabled(ctx, id, false)
}

func (s *CrudeService[D, E]) setEnabled(ctx context.Context, id int64, enabled bool) (D, error) {
	var zero D

	// Always start from the stored record so no other field is overwritten
	entity, err := s.fetch(ctx, id)
	if err != nil {
		return zero, err
	}

	entity.SetEnabled(enabled)
	saved, err := s.repo.Save(ctx, entity)
	if err != nil {
		return zero, err
	}

	zerolog.Ctx(ctx).Debug().Int64("id", id).Bool("enabled", enabled).Msg("toggled entity")
	return s.mapper.ToDTO(saved), nil
}
