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

// WithdrawalRepository implements withdrawal request data operations
type WithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create creates a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, request *entities.WithdrawalRequest) error {
	request.ID = uuid.New()
	request.Version = 1
	request.RequestedAt = time.Now()
	request.UpdatedAt = request.RequestedAt

	m := r.toModel(request)
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// GetByID gets a withdrawal request by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	var m models.WithdrawalRequest
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByStatus lists withdrawal requests by status with pagination
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int64, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.WithdrawalRequest{})
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.WithdrawalRequest
	if err := q.Order("requested_at ASC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	requests := make([]*entities.WithdrawalRequest, 0, len(ms))
	for i := range ms {
		requests = append(requests, r.toEntity(&ms[i]))
	}
	return requests, total, nil
}

// CountByStatus counts withdrawal requests in a status
func (r *WithdrawalRepository) CountByStatus(ctx context.Context, status entities.WithdrawalStatus) (int64, error) {
	var total int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Where("status = ?", string(status)).
		Count(&total).Error
	return total, err
}

// SumOpenByCreator sums requested amounts of PENDING and PROCESSING requests
func (r *WithdrawalRepository) SumOpenByCreator(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	var total int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Where("creator_id = ? AND status IN ?", creatorID, []string{
			string(entities.WithdrawalStatusPending),
			string(entities.WithdrawalStatusProcessing),
		}).
		Select("COALESCE(SUM(requested_amount), 0)").
		Scan(&total).Error
	return total, err
}

// Update persists the request iff the stored version matches expectedVersion
func (r *WithdrawalRepository) Update(ctx context.Context, request *entities.WithdrawalRequest, expectedVersion int64) error {
	db := GetDB(ctx, r.db)
	now := time.Now()

	res := db.WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Where("id = ? AND version = ?", request.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":           string(request.Status),
			"transaction_id":   request.TransactionID.Ptr(),
			"rejection_reason": request.RejectionReason.Ptr(),
			"processed_by":     request.ProcessedBy,
			"approved_at":      request.ApprovedAt,
			"completed_at":     request.CompletedAt,
			"rejected_at":      request.RejectedAt,
			"version":          expectedVersion + 1,
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
			Where("id = ?", request.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrConflict
	}

	request.Version = expectedVersion + 1
	request.UpdatedAt = now
	return nil
}

func (r *WithdrawalRepository) toModel(w *entities.WithdrawalRequest) *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		ID:              w.ID,
		CreatorID:       w.CreatorID,
		RequestedAmount: w.RequestedAmount,
		PlatformFee:     w.PlatformFee,
		TaxWithheld:     w.TaxWithheld,
		NetPayable:      w.NetPayable,
		Status:          string(w.Status),
		PayoutSnapshot:  w.PayoutSnapshot,
		TransactionID:   w.TransactionID.Ptr(),
		RejectionReason: w.RejectionReason.Ptr(),
		ProcessedBy:     w.ProcessedBy,
		Version:         w.Version,
		RequestedAt:     w.RequestedAt,
		ApprovedAt:      w.ApprovedAt,
		CompletedAt:     w.CompletedAt,
		RejectedAt:      w.RejectedAt,
		CreatedAt:       w.RequestedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (r *WithdrawalRepository) toEntity(m *models.WithdrawalRequest) *entities.WithdrawalRequest {
	return &entities.WithdrawalRequest{
		ID:              m.ID,
		CreatorID:       m.CreatorID,
		RequestedAmount: m.RequestedAmount,
		PlatformFee:     m.PlatformFee,
		TaxWithheld:     m.TaxWithheld,
		NetPayable:      m.NetPayable,
		Status:          entities.WithdrawalStatus(m.Status),
		PayoutSnapshot:  m.PayoutSnapshot,
		TransactionID:   null.StringFromPtr(m.TransactionID),
		RejectionReason: null.StringFromPtr(m.RejectionReason),
		ProcessedBy:     m.ProcessedBy,
		Version:         m.Version,
		RequestedAt:     m.RequestedAt,
		ApprovedAt:      m.ApprovedAt,
		CompletedAt:     m.CompletedAt,
		RejectedAt:      m.RejectedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
