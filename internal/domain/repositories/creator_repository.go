package repositories

import (
	"context"

	"github.com/google/uuid"
	"promptmint.backend/internal/domain/entities"
)

// CreatorRepository defines creator account data operations
type CreatorRepository interface {
	Create(ctx context.Context, creator *entities.CreatorAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CreatorAccount, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entities.CreatorAccount, int64, error)
	// Update persists the account iff the stored version equals
	// expectedVersion, bumping the version. Returns ErrConflict otherwise.
	Update(ctx context.Context, creator *entities.CreatorAccount, expectedVersion int64) error
}
