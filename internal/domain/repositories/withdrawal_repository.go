package repositories

import (
	"context"

	"github.com/google/uuid"
	"promptmint.backend/internal/domain/entities"
)

// WithdrawalRepository defines withdrawal request data operations
type WithdrawalRepository interface {
	Create(ctx context.Context, request *entities.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error)
	ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int64, error)
	CountByStatus(ctx context.Context, status entities.WithdrawalStatus) (int64, error)
	// SumOpenByCreator returns the total requested amount of PENDING and
	// PROCESSING requests for a creator, i.e. the active reservation.
	SumOpenByCreator(ctx context.Context, creatorID uuid.UUID) (int64, error)
	// Update persists the request iff the stored version equals
	// expectedVersion, bumping the version. Returns ErrConflict otherwise.
	Update(ctx context.Context, request *entities.WithdrawalRequest, expectedVersion int64) error
}
