package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
)

func seedCreator(t *testing.T, repo *CreatorRepository, name, email string) *entities.CreatorAccount {
	t.Helper()
	c := &entities.CreatorAccount{
		DisplayName: name,
		Email:       email,
		Status:      entities.CreatorStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestCreatorRepo_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createCreatorTable(t, db)
	repo := NewCreatorRepository(db)

	created := seedCreator(t, repo, "Asha", "asha@example.com")
	assert.Equal(t, int64(1), created.Version)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.DisplayName)
	assert.Equal(t, entities.CreatorStatusActive, got.Status)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCreatorRepo_ListSearchesNameAndEmail(t *testing.T) {
	db := newTestDB(t)
	createCreatorTable(t, db)
	repo := NewCreatorRepository(db)
	ctx := context.Background()

	seedCreator(t, repo, "Asha Kumar", "asha@example.com")
	seedCreator(t, repo, "Ben", "ben@example.com")
	seedCreator(t, repo, "Chitra", "chitra@asha.net")

	all, total, err := repo.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	matches, total, err := repo.List(ctx, "asha", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "matches display name or email")
	assert.Len(t, matches, 2)
}

func TestCreatorRepo_UpdateBumpsVersion(t *testing.T) {
	db := newTestDB(t)
	createCreatorTable(t, db)
	repo := NewCreatorRepository(db)
	ctx := context.Background()

	c := seedCreator(t, repo, "Asha", "asha@example.com")
	c.Status = entities.CreatorStatusSuspended
	c.StrikeCount = 2

	require.NoError(t, repo.Update(ctx, c, 1))
	assert.Equal(t, int64(2), c.Version)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.CreatorStatusSuspended, got.Status)
	assert.Equal(t, 2, got.StrikeCount)
	assert.Equal(t, int64(2), got.Version)
}

func TestCreatorRepo_UpdateStaleVersionConflicts(t *testing.T) {
	db := newTestDB(t)
	createCreatorTable(t, db)
	repo := NewCreatorRepository(db)
	ctx := context.Background()

	c := seedCreator(t, repo, "Asha", "asha@example.com")
	require.NoError(t, repo.Update(ctx, c, 1))

	stale := *c
	err := repo.Update(ctx, &stale, 1)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestCreatorRepo_UpdateMissingRowIsNotFound(t *testing.T) {
	db := newTestDB(t)
	createCreatorTable(t, db)
	repo := NewCreatorRepository(db)

	ghost := &entities.CreatorAccount{ID: uuid.New(), Status: entities.CreatorStatusActive}
	err := repo.Update(context.Background(), ghost, 1)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
