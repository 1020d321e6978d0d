package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/infrastructure/models"
)

// LedgerRepository implements the append-only ledger store
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Append assigns the next per-creator sequence number and inserts the entry.
// The (creator_id, sequence) unique index is the backstop against two
// concurrent appends claiming the same slot; on that violation the caller's
// transaction fails and the usecase retries.
func (r *LedgerRepository) Append(ctx context.Context, entry *entities.LedgerEntry) error {
	db := GetDB(ctx, r.db)

	if entry.IdempotencyKey.Valid {
		var existing models.LedgerEntry
		err := db.WithContext(ctx).
			Where("idempotency_key = ?", entry.IdempotencyKey.String).
			First(&existing).Error
		if err == nil {
			return domainerrors.ErrAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	var maxSeq int64
	if err := db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("creator_id = ?", entry.CreatorID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&maxSeq).Error; err != nil {
		return err
	}

	entry.ID = uuid.New()
	entry.Sequence = maxSeq + 1
	entry.CreatedAt = time.Now()

	m := &models.LedgerEntry{
		ID:                  entry.ID,
		CreatorID:           entry.CreatorID,
		Kind:                string(entry.Kind),
		Amount:              entry.Amount,
		RelatedTemplateID:   entry.RelatedTemplateID,
		RelatedWithdrawalID: entry.RelatedWithdrawalID,
		IdempotencyKey:      entry.IdempotencyKey.Ptr(),
		Sequence:            entry.Sequence,
		CreatedAt:           entry.CreatedAt,
	}

	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateErr(err) {
			return domainerrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByIdempotencyKey returns the entry recorded for an external event key
func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.LedgerEntry, error) {
	var m models.LedgerEntry
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("idempotency_key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Sum folds the signed amounts of all entries for a creator
func (r *LedgerRepository) Sum(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	var total int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("creator_id = ?", creatorID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// SumKinds folds only entries of the given kinds
func (r *LedgerRepository) SumKinds(ctx context.Context, creatorID uuid.UUID, kinds []entities.LedgerEntryKind) (int64, error) {
	ks := make([]string, 0, len(kinds))
	for _, k := range kinds {
		ks = append(ks, string(k))
	}

	var total int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("creator_id = ? AND kind IN ?", creatorID, ks).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// List returns entries for a creator ordered by sequence, optionally bounded
// by a time range, with pagination
func (r *LedgerRepository) List(ctx context.Context, creatorID uuid.UUID, from, to *time.Time, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.LedgerEntry{}).Where("creator_id = ?", creatorID)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.LedgerEntry
	if err := q.Order("sequence ASC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*entities.LedgerEntry, 0, len(ms))
	for i := range ms {
		entries = append(entries, r.toEntity(&ms[i]))
	}
	return entries, total, nil
}

// GetSnapshot returns the cached balance counter for a creator
func (r *LedgerRepository) GetSnapshot(ctx context.Context, creatorID uuid.UUID) (*entities.BalanceSnapshot, error) {
	var m models.CreatorBalance
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("creator_id = ?", creatorID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.BalanceSnapshot{
		CreatorID: m.CreatorID,
		Lifetime:  m.Lifetime,
		Available: m.Available,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// AdjustSnapshot applies deltas to the cached counter, creating the row on
// first use. Runs in the caller's transaction when one is active.
func (r *LedgerRepository) AdjustSnapshot(ctx context.Context, creatorID uuid.UUID, availableDelta, lifetimeDelta int64) error {
	db := GetDB(ctx, r.db)
	now := time.Now()

	res := db.WithContext(ctx).
		Model(&models.CreatorBalance{}).
		Where("creator_id = ?", creatorID).
		Updates(map[string]interface{}{
			"available":  gorm.Expr("available + ?", availableDelta),
			"lifetime":   gorm.Expr("lifetime + ?", lifetimeDelta),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	return db.WithContext(ctx).Create(&models.CreatorBalance{
		CreatorID: creatorID,
		Available: availableDelta,
		Lifetime:  lifetimeDelta,
		UpdatedAt: now,
	}).Error
}

// ListSnapshots returns all cached balance counters (reconciliation scan)
func (r *LedgerRepository) ListSnapshots(ctx context.Context) ([]*entities.BalanceSnapshot, error) {
	var ms []models.CreatorBalance
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.BalanceSnapshot, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.BalanceSnapshot{
			CreatorID: m.CreatorID,
			Lifetime:  m.Lifetime,
			Available: m.Available,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return out, nil
}

func (r *LedgerRepository) toEntity(m *models.LedgerEntry) *entities.LedgerEntry {
	e := &entities.LedgerEntry{
		ID:                  m.ID,
		CreatorID:           m.CreatorID,
		Kind:                entities.LedgerEntryKind(m.Kind),
		Amount:              m.Amount,
		RelatedTemplateID:   m.RelatedTemplateID,
		RelatedWithdrawalID: m.RelatedWithdrawalID,
		Sequence:            m.Sequence,
		CreatedAt:           m.CreatedAt,
	}
	if m.IdempotencyKey != nil {
		e.IdempotencyKey.SetValid(*m.IdempotencyKey)
	}
	return e
}

// isDuplicateErr recognizes unique-constraint violations. The DB handle is
// opened with TranslateError, so both the postgres and sqlite drivers report
// gorm.ErrDuplicatedKey; the message check covers drivers that do not
// translate.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
