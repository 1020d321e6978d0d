package repositories

import (
	"context"

	"github.com/google/uuid"
	"promptmint.backend/internal/domain/entities"
)

// TemplateRepository defines template data operations
type TemplateRepository interface {
	Create(ctx context.Context, template *entities.Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Template, error)
	ListByStatus(ctx context.Context, status entities.ApprovalStatus, limit, offset int) ([]*entities.Template, int64, error)
	CountByStatus(ctx context.Context, status entities.ApprovalStatus) (int64, error)
	// Update persists the template iff the stored version equals
	// expectedVersion, bumping the version. Returns ErrConflict otherwise.
	Update(ctx context.Context, template *entities.Template, expectedVersion int64) error
}
