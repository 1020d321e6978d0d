package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/infrastructure/models"
)

// TemplateRepository implements template data operations
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create creates a new template record
func (r *TemplateRepository) Create(ctx context.Context, template *entities.Template) error {
	template.ID = uuid.New()
	template.Version = 1
	template.CreatedAt = time.Now()
	template.UpdatedAt = template.CreatedAt

	m := &models.Template{
		ID:                 template.ID,
		CreatorID:          template.CreatorID,
		Title:              template.Title,
		Prompt:             template.Prompt,
		PreviewURL:         template.PreviewURL,
		ApprovalStatus:     string(template.ApprovalStatus),
		IsPaused:           template.IsPaused,
		IsFeatured:         template.IsFeatured,
		RejectionReason:    template.RejectionReason.Ptr(),
		PreviousTemplateID: template.PreviousTemplateID,
		Version:            template.Version,
		CreatedAt:          template.CreatedAt,
		UpdatedAt:          template.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// GetByID gets a template by ID
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Template, error) {
	var m models.Template
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByStatus lists templates by approval status with pagination
func (r *TemplateRepository) ListByStatus(ctx context.Context, status entities.ApprovalStatus, limit, offset int) ([]*entities.Template, int64, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.Template{})
	if status != "" {
		q = q.Where("approval_status = ?", string(status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Template
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	templates := make([]*entities.Template, 0, len(ms))
	for i := range ms {
		templates = append(templates, r.toEntity(&ms[i]))
	}
	return templates, total, nil
}

// CountByStatus counts templates in an approval status
func (r *TemplateRepository) CountByStatus(ctx context.Context, status entities.ApprovalStatus) (int64, error) {
	var total int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.Template{}).
		Where("approval_status = ?", string(status)).
		Count(&total).Error
	return total, err
}

// Update persists the template iff the stored version matches expectedVersion
func (r *TemplateRepository) Update(ctx context.Context, template *entities.Template, expectedVersion int64) error {
	db := GetDB(ctx, r.db)
	now := time.Now()

	res := db.WithContext(ctx).
		Model(&models.Template{}).
		Where("id = ? AND version = ?", template.ID, expectedVersion).
		Updates(map[string]interface{}{
			"approval_status":  string(template.ApprovalStatus),
			"is_paused":        template.IsPaused,
			"is_featured":      template.IsFeatured,
			"rejection_reason": template.RejectionReason.Ptr(),
			"version":          expectedVersion + 1,
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Template{}).
			Where("id = ?", template.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrConflict
	}

	template.Version = expectedVersion + 1
	template.UpdatedAt = now
	return nil
}

func (r *TemplateRepository) toEntity(m *models.Template) *entities.Template {
	return &entities.Template{
		ID:                 m.ID,
		CreatorID:          m.CreatorID,
		Title:              m.Title,
		Prompt:             m.Prompt,
		PreviewURL:         m.PreviewURL,
		ApprovalStatus:     entities.ApprovalStatus(m.ApprovalStatus),
		IsPaused:           m.IsPaused,
		IsFeatured:         m.IsFeatured,
		RejectionReason:    null.StringFromPtr(m.RejectionReason),
		PreviousTemplateID: m.PreviousTemplateID,
		UseCount:           m.UseCount,
		LikeCount:          m.LikeCount,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
