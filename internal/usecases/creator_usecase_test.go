package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/google/uuid"

	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/usecases"
)

func newCreatorFixture() (*usecases.CreatorUsecase, *MockCreatorRepository) {
	repo := new(MockCreatorRepository)
	return usecases.NewCreatorUsecase(repo), repo
}

func TestRegisterCreator_StartsActiveAndUnverified(t *testing.T) {
	u, repo := newCreatorFixture()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.CreatorAccount) bool {
		return c.Status == entities.CreatorStatusActive && !c.IsVerified && !c.WalletFrozen
	})).Return(nil)

	creator, err := u.Register(context.Background(), &entities.CreateCreatorInput{
		DisplayName: "Asha",
		Email:       "asha@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.CreatorStatusActive, creator.Status)
	assert.False(t, creator.IsVerified)
}

func TestSetVerified_TogglesBadge(t *testing.T) {
	u, repo := newCreatorFixture()
	creator := activeCreator()

	repo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *entities.CreatorAccount) bool {
		return c.IsVerified
	}), int64(1)).Return(nil)

	updated, err := u.SetVerified(context.Background(), creator.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)
}

func TestSetWalletFrozen_Toggles(t *testing.T) {
	u, repo := newCreatorFixture()
	creator := activeCreator()

	repo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	repo.On("Update", mock.Anything, mock.Anything, int64(1)).Return(nil)

	frozen, err := u.SetWalletFrozen(context.Background(), creator.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.True(t, frozen.WalletFrozen)

	thawed, err := u.SetWalletFrozen(context.Background(), creator.ID, uuid.New(), false)
	require.NoError(t, err)
	assert.False(t, thawed.WalletFrozen)
}

func TestSuspend_MovesActiveToSuspended(t *testing.T) {
	u, repo := newCreatorFixture()
	creator := activeCreator()

	repo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *entities.CreatorAccount) bool {
		return c.Status == entities.CreatorStatusSuspended
	}), int64(1)).Return(nil)

	suspended, err := u.Suspend(context.Background(), creator.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, entities.CreatorStatusSuspended, suspended.Status)
}

func TestBannedAccountRejectsEveryActionButUnban(t *testing.T) {
	creator := activeCreator()
	creator.Status = entities.CreatorStatusBanned
	adminID := uuid.New()

	actions := map[string]func(u *usecases.CreatorUsecase) error{
		"verify": func(u *usecases.CreatorUsecase) error {
			_, err := u.SetVerified(context.Background(), creator.ID, adminID, true)
			return err
		},
		"freeze": func(u *usecases.CreatorUsecase) error {
			_, err := u.SetWalletFrozen(context.Background(), creator.ID, adminID, true)
			return err
		},
		"suspend": func(u *usecases.CreatorUsecase) error {
			_, err := u.Suspend(context.Background(), creator.ID, adminID)
			return err
		},
		"unsuspend": func(u *usecases.CreatorUsecase) error {
			_, err := u.Unsuspend(context.Background(), creator.ID, adminID)
			return err
		},
		"ban": func(u *usecases.CreatorUsecase) error {
			_, err := u.Ban(context.Background(), creator.ID, adminID)
			return err
		},
	}

	for name, action := range actions {
		t.Run(name, func(t *testing.T) {
			u, repo := newCreatorFixture()
			repo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)

			err := action(u)
			assert.ErrorIs(t, err, domainerrors.ErrAccountBanned)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUnban_RestoresActive(t *testing.T) {
	u, repo := newCreatorFixture()
	creator := activeCreator()
	creator.Status = entities.CreatorStatusBanned
	creator.StrikeCount = 5

	repo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *entities.CreatorAccount) bool {
		return c.Status == entities.CreatorStatusActive && c.StrikeCount == 5
	}), int64(1)).Return(nil)

	restored, err := u.Unban(context.Background(), creator.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, entities.CreatorStatusActive, restored.Status)
}

func TestUnban_NotBannedIsNoOp(t *testing.T) {
	u, repo := newCreatorFixture()
	creator := activeCreator()

	repo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)

	same, err := u.Unban(context.Background(), creator.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, entities.CreatorStatusActive, same.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSuspend_RetriesLostRace(t *testing.T) {
	u, repo := newCreatorFixture()
	creator := activeCreator()

	first := *creator
	second := *creator
	repo.On("GetByID", mock.Anything, creator.ID).Return(&first, nil).Once()
	repo.On("GetByID", mock.Anything, creator.ID).Return(&second, nil).Once()
	repo.On("Update", mock.Anything, mock.Anything, int64(1)).Return(domainerrors.ErrConflict).Once()
	repo.On("Update", mock.Anything, mock.Anything, int64(1)).Return(nil).Once()

	_, err := u.Suspend(context.Background(), creator.ID, uuid.New())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSuspend_GivesUpAfterRepeatedConflicts(t *testing.T) {
	u, repo := newCreatorFixture()
	creator := activeCreator()

	repo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	repo.On("Update", mock.Anything, mock.Anything, int64(1)).Return(domainerrors.ErrConflict)

	_, err := u.Suspend(context.Background(), creator.ID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}
