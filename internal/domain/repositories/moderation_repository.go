package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"promptmint.backend/internal/domain/entities"
)

// ModerationRepository defines moderation case, strike and keyword data operations
type ModerationRepository interface {
	CreateCase(ctx context.Context, c *entities.ModerationCase) error
	GetCaseByID(ctx context.Context, id uuid.UUID) (*entities.ModerationCase, error)
	ListCasesByStatus(ctx context.Context, status entities.ModerationCaseStatus, limit, offset int) ([]*entities.ModerationCase, int64, error)
	CountCasesByStatus(ctx context.Context, status entities.ModerationCaseStatus) (int64, error)
	// HasBlockedCase reports whether a BLOCKED case exists for the subject.
	// The approval engine consults this before honoring an approve call.
	HasBlockedCase(ctx context.Context, subjectType entities.ModerationSubjectType, subjectID uuid.UUID) (bool, error)
	// UpdateCase persists the case iff the stored version equals
	// expectedVersion, bumping the version. Returns ErrConflict otherwise.
	UpdateCase(ctx context.Context, c *entities.ModerationCase, expectedVersion int64) error

	CreateStrike(ctx context.Context, s *entities.Strike) error
	ListStrikes(ctx context.Context, userID uuid.UUID) ([]*entities.Strike, error)
	// CountActiveStrikes counts strikes that have not expired as of now.
	CountActiveStrikes(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	CreateKeyword(ctx context.Context, k *entities.BannedKeyword) error
	ListKeywords(ctx context.Context) ([]*entities.BannedKeyword, error)
}
