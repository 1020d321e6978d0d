package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/infrastructure/models"
)

// CreatorRepository implements creator account data operations
type CreatorRepository struct {
	db *gorm.DB
}

// NewCreatorRepository creates a new creator repository
func NewCreatorRepository(db *gorm.DB) *CreatorRepository {
	return &CreatorRepository{db: db}
}

// Create creates a new creator account
func (r *CreatorRepository) Create(ctx context.Context, creator *entities.CreatorAccount) error {
	creator.ID = uuid.New()
	creator.Version = 1
	creator.CreatedAt = time.Now()
	creator.UpdatedAt = creator.CreatedAt

	m := r.toModel(creator)
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// GetByID gets a creator account by ID
func (r *CreatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CreatorAccount, error) {
	var m models.CreatorAccount
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List lists creator accounts with optional name/email search
func (r *CreatorRepository) List(ctx context.Context, search string, limit, offset int) ([]*entities.CreatorAccount, int64, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.CreatorAccount{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("display_name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.CreatorAccount
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	creators := make([]*entities.CreatorAccount, 0, len(ms))
	for i := range ms {
		creators = append(creators, r.toEntity(&ms[i]))
	}
	return creators, total, nil
}

// Update persists the account iff the stored version matches expectedVersion
func (r *CreatorRepository) Update(ctx context.Context, creator *entities.CreatorAccount, expectedVersion int64) error {
	db := GetDB(ctx, r.db)
	now := time.Now()

	res := db.WithContext(ctx).
		Model(&models.CreatorAccount{}).
		Where("id = ? AND version = ?", creator.ID, expectedVersion).
		Updates(map[string]interface{}{
			"is_verified":   creator.IsVerified,
			"wallet_frozen": creator.WalletFrozen,
			"status":        string(creator.Status),
			"strike_count":  creator.StrikeCount,
			"version":       expectedVersion + 1,
			"updated_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Row missing or version moved underneath us.
		var count int64
		if err := db.WithContext(ctx).Model(&models.CreatorAccount{}).
			Where("id = ?", creator.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrConflict
	}

	creator.Version = expectedVersion + 1
	creator.UpdatedAt = now
	return nil
}

func (r *CreatorRepository) toModel(c *entities.CreatorAccount) *models.CreatorAccount {
	return &models.CreatorAccount{
		ID:           c.ID,
		DisplayName:  c.DisplayName,
		Email:        c.Email,
		IsVerified:   c.IsVerified,
		WalletFrozen: c.WalletFrozen,
		Status:       string(c.Status),
		StrikeCount:  c.StrikeCount,
		Version:      c.Version,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r *CreatorRepository) toEntity(m *models.CreatorAccount) *entities.CreatorAccount {
	return &entities.CreatorAccount{
		ID:           m.ID,
		DisplayName:  m.DisplayName,
		Email:        m.Email,
		IsVerified:   m.IsVerified,
		WalletFrozen: m.WalletFrozen,
		Status:       entities.CreatorStatus(m.Status),
		StrikeCount:  m.StrikeCount,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
