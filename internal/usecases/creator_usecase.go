package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/domain/repositories"
	"promptmint.backend/pkg/logger"
	"promptmint.backend/pkg/metrics"
)

// CreatorUsecase manages creator accounts: registration, verification, the
// wallet freeze flag and the status ladder. A banned account accepts no
// admin action other than Unban.
type CreatorUsecase struct {
	creatorRepo repositories.CreatorRepository
}

// NewCreatorUsecase creates a new creator usecase
func NewCreatorUsecase(creatorRepo repositories.CreatorRepository) *CreatorUsecase {
	return &CreatorUsecase{creatorRepo: creatorRepo}
}

// Register creates a new creator account, active and unverified.
func (u *CreatorUsecase) Register(ctx context.Context, input *entities.CreateCreatorInput) (*entities.CreatorAccount, error) {
	creator := &entities.CreatorAccount{
		ID:          uuid.New(),
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Status:      entities.CreatorStatusActive,
		CreatedAt:   time.Now(),
	}
	if err := u.creatorRepo.Create(ctx, creator); err != nil {
		return nil, err
	}

	logger.Info(ctx, "creator registered",
		zap.String("creator_id", creator.ID.String()),
		zap.String("email", creator.Email))

	return creator, nil
}

// GetByID returns a single creator account
func (u *CreatorUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.CreatorAccount, error) {
	return u.creatorRepo.GetByID(ctx, id)
}

// List returns creator accounts, optionally filtered by a name/email search
func (u *CreatorUsecase) List(ctx context.Context, search string, limit, offset int) ([]*entities.CreatorAccount, int64, error) {
	return u.creatorRepo.List(ctx, search, limit, offset)
}

// SetVerified toggles the verification badge.
func (u *CreatorUsecase) SetVerified(ctx context.Context, id, adminID uuid.UUID, verified bool) (*entities.CreatorAccount, error) {
	return u.mutate(ctx, id, adminID, "creator.verify", func(c *entities.CreatorAccount) error {
		c.IsVerified = verified
		return nil
	})
}

// SetWalletFrozen freezes or unfreezes the creator's wallet. A frozen wallet
// keeps accruing earnings but rejects new withdrawal requests.
func (u *CreatorUsecase) SetWalletFrozen(ctx context.Context, id, adminID uuid.UUID, frozen bool) (*entities.CreatorAccount, error) {
	return u.mutate(ctx, id, adminID, "creator.freeze_wallet", func(c *entities.CreatorAccount) error {
		c.WalletFrozen = frozen
		return nil
	})
}

// Suspend moves an active account to SUSPENDED. Suspending an already
// suspended account is a no-op.
func (u *CreatorUsecase) Suspend(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error) {
	return u.mutate(ctx, id, adminID, "creator.suspend", func(c *entities.CreatorAccount) error {
		c.Status = entities.CreatorStatusSuspended
		return nil
	})
}

// Unsuspend restores a suspended account to ACTIVE.
func (u *CreatorUsecase) Unsuspend(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error) {
	return u.mutate(ctx, id, adminID, "creator.unsuspend", func(c *entities.CreatorAccount) error {
		c.Status = entities.CreatorStatusActive
		return nil
	})
}

// Ban moves an account to BANNED. From there only Unban is accepted.
func (u *CreatorUsecase) Ban(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error) {
	return u.mutate(ctx, id, adminID, "creator.ban", func(c *entities.CreatorAccount) error {
		c.Status = entities.CreatorStatusBanned
		return nil
	})
}

// Unban restores a banned account to ACTIVE. Strike history is kept.
func (u *CreatorUsecase) Unban(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error) {
	for attempt := 0; ; attempt++ {
		creator, err := u.creatorRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if creator.Status != entities.CreatorStatusBanned {
			return creator, nil
		}

		creator.Status = entities.CreatorStatusActive
		err = u.creatorRepo.Update(ctx, creator, creator.Version)
		if err == nil {
			metrics.AdminActionCount.WithLabelValues("creator.unban", "ok").Inc()
			logger.Info(ctx, "creator unbanned",
				zap.String("creator_id", id.String()),
				zap.String("admin_id", adminID.String()))
			return creator, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("creator").Inc()
			return nil, err
		}
	}
}

func (u *CreatorUsecase) mutate(ctx context.Context, id, adminID uuid.UUID, action string, apply func(*entities.CreatorAccount) error) (*entities.CreatorAccount, error) {
	for attempt := 0; ; attempt++ {
		creator, err := u.creatorRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if creator.Status == entities.CreatorStatusBanned {
			return nil, domainerrors.ErrAccountBanned
		}

		if err := apply(creator); err != nil {
			return nil, err
		}

		err = u.creatorRepo.Update(ctx, creator, creator.Version)
		if err == nil {
			metrics.AdminActionCount.WithLabelValues(action, "ok").Inc()
			logger.Info(ctx, "creator account updated",
				zap.String("creator_id", id.String()),
				zap.String("action", action),
				zap.String("admin_id", adminID.String()))
			return creator, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("creator").Inc()
			return nil, err
		}
	}
}
