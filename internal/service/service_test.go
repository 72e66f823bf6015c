package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/restkit/internal/apperror"
	"github.com/jbweber/homelab/restkit/internal/domain"
	"github.com/jbweber/homelab/restkit/internal/dto"
	"github.com/jbweber/homelab/restkit/internal/repository"
)

func TestService_CreateThenFind(t *testing.T) {
	svc, _ := newClubService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.Club{Name: "Rovers", Town: "Leeds"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	found, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestService_CreateIgnoresClientID(t *testing.T) {
	svc, _ := newClubService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.Club{Base: dto.Base{ID: 77}, Name: "Rovers", Town: "Leeds"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = svc.FindByID(ctx, 77)
	var notFound *apperror.EntityNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestService_CreateDuplicate(t *testing.T) {
	svc, _ := newClubService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.Club{Name: "Rovers", Town: "Leeds"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &dto.Club{Name: "Rovers", Town: "York"})
	assert.ErrorIs(t, err, repository.ErrConstraintViolation)
}

func TestService_FindByIDNotFound(t *testing.T) {
	svc, _ := newClubService()

	_, err := svc.FindByID(context.Background(), 404)
	require.Error(t, err)

	var notFound *apperror.EntityNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(404), notFound.ID)
	assert.Equal(t, "club.notFound", notFound.Code)
}

func TestService_FindAll(t *testing.T) {
	svc, _ := newClubService()
	ctx := context.Background()

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, name := range []string{"A", "B"} {
		_, err := svc.Create(ctx, &dto.Club{Name: name, Town: "T"})
		require.NoError(t, err)
	}

	all, err = svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "B", all[1].Name)
}

func TestService_UpdatePreservesIdentity(t *testing.T) {
	svc, _ := newClubService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.Club{Name: "A", Town: "T"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &dto.Club{Name: "Other", Town: "T"})
	require.NoError(t, err)

	// The mapper copies the id; the service must still write to the fetched record
	update := &dto.Club{Base: dto.Base{ID: created.ID}, Name: "B", Town: "U"}
	mapper := testClubMapper{}
	svc.mapper = applyWithID{mapper, 2}

	updated, err := svc.Update(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "B", updated.Name)

	other, err := svc.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Other", other.Name)
}

// applyWithID simulates a careless mapper that rewrites identity
type applyWithID struct {
	testClubMapper
	id int64
}

func (m applyWithID) Apply(e *domain.Club, d *dto.Club) *domain.Club {
	e = m.testClubMapper.Apply(e, d)
	e.ID = m.id
	e.Version = 99
	return e
}

func TestService_UpdateUnknownWritesNothing(t *testing.T) {
	base, _ := newClubService()
	repo := &countingRepo[*domain.Club]{CrudRepository: repository.NewMemoryRepository[domain.Club]()}
	svc := NewCrud[*dto.Club, *domain.Club](repo, base.mapper)

	_, err := svc.Update(context.Background(), &dto.Club{Base: dto.Base{ID: 5}, Name: "X", Town: "Y"})

	var notFound *apperror.EntityNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(5), notFound.ID)
	assert.Equal(t, 0, repo.saves)
}

func TestService_UpdateKeepsUnmappedFields(t *testing.T) {
	repo := repository.NewMemoryRepository[domain.Club]()
	ctx := context.Background()

	stored, err := repo.Save(ctx, &domain.Club{Name: "A", Town: "T", Email: "a@example.com"})
	require.NoError(t, err)

	// A mapper that only knows about the name
	svc := NewCrud[*dto.Club, *domain.Club](repo, nameOnlyMapper{})
	_, err = svc.Update(ctx, &dto.Club{Base: dto.Base{ID: stored.ID}, Name: "B"})
	require.NoError(t, err)

	found, _, err := repo.FindOne(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", found.Name)
	assert.Equal(t, "T", found.Town)
	assert.Equal(t, "a@example.com", found.Email)
}

type nameOnlyMapper struct{ testClubMapper }

func (nameOnlyMapper) Apply(e *domain.Club, d *dto.Club) *domain.Club {
	e.Name = d.Name
	return e
}

func TestService_RepositoryErrorPropagates(t *testing.T) {
	boom := errors.New("storage unavailable")
	svc := New[*dto.Club, *domain.Club](failingRepo{err: boom}, testClubMapper{})
	ctx := context.Background()

	_, err := svc.FindByID(ctx, 1)
	assert.ErrorIs(t, err, boom)

	_, err = svc.FindAll(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Create(ctx, &dto.Club{Name: "A"})
	assert.ErrorIs(t, err, boom)
}

type failingRepo struct{ err error }

func (r failingRepo) FindOne(context.Context, int64) (*domain.Club, bool, error) {
	return nil, false, r.err
}

func (r failingRepo) FindAll(context.Context) ([]*domain.Club, error) { return nil, r.err }

func (r failingRepo) Save(context.Context, *domain.Club) (*domain.Club, error) { return nil, r.err }

func TestCrudService_Delete(t *testing.T) {
	svc, repo := newClubService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.Club{Name: "A", Town: "T"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, 0, repo.Size())

	err = svc.Delete(ctx, created.ID)
	var notFound *apperror.EntityNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, created.ID, notFound.ID)
}

func TestCrudService_DeleteUnknownDoesNotCallStorage(t *testing.T) {
	repo := &countingRepo[*domain.Club]{CrudRepository: repository.NewMemoryRepository[domain.Club]()}
	svc := NewCrud[*dto.Club, *domain.Club](repo, testClubMapper{})

	err := svc.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, 0, repo.deletes)
}

// Compile-time checks of the capability sets
var (
	_ CrudOperations[*dto.Club]      = (*CrudService[*dto.Club, *domain.Club])(nil)
	_ CrudeOperations[*dto.Instance] = (*CrudeService[*dto.Instance, *domain.Instance])(nil)
)
