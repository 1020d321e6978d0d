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

// ModerationRepository implements moderation case, strike and keyword data operations
type ModerationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new moderation repository
func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// CreateCase creates a new moderation case
func (r *ModerationRepository) CreateCase(ctx context.Context, c *entities.ModerationCase) error {
	c.ID = uuid.New()
	c.Version = 1
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	m := r.toCaseModel(c)
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// GetCaseByID gets a moderation case by ID
func (r *ModerationRepository) GetCaseByID(ctx context.Context, id uuid.UUID) (*entities.ModerationCase, error) {
	var m models.ModerationCase
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toCaseEntity(&m), nil
}

// ListCasesByStatus lists moderation cases by status with pagination
func (r *ModerationRepository) ListCasesByStatus(ctx context.Context, status entities.ModerationCaseStatus, limit, offset int) ([]*entities.ModerationCase, int64, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.ModerationCase{})
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.ModerationCase
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	cases := make([]*entities.ModerationCase, 0, len(ms))
	for i := range ms {
		cases = append(cases, r.toCaseEntity(&ms[i]))
	}
	return cases, total, nil
}

// CountCasesByStatus counts moderation cases in a status
func (r *ModerationRepository) CountCasesByStatus(ctx context.Context, status entities.ModerationCaseStatus) (int64, error) {
	var total int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.ModerationCase{}).
		Where("status = ?", string(status)).
		Count(&total).Error
	return total, err
}

// HasBlockedCase reports whether a BLOCKED case exists for the subject
func (r *ModerationRepository) HasBlockedCase(ctx context.Context, subjectType entities.ModerationSubjectType, subjectID uuid.UUID) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.ModerationCase{}).
		Where("subject_type = ? AND subject_id = ? AND status = ?",
			string(subjectType), subjectID, string(entities.CaseStatusBlocked)).
		Count(&count).Error
	return count > 0, err
}

// UpdateCase persists the case iff the stored version matches expectedVersion
func (r *ModerationRepository) UpdateCase(ctx context.Context, c *entities.ModerationCase, expectedVersion int64) error {
	db := GetDB(ctx, r.db)
	now := time.Now()

	res := db.WithContext(ctx).
		Model(&models.ModerationCase{}).
		Where("id = ? AND version = ?", c.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":         string(c.Status),
			"flagged_reason": c.FlaggedReason.Ptr(),
			"reviewed_by":    c.ReviewedBy,
			"reviewed_at":    c.ReviewedAt,
			"version":        expectedVersion + 1,
			"updated_at":     now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.ModerationCase{}).
			Where("id = ?", c.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrConflict
	}

	c.Version = expectedVersion + 1
	c.UpdatedAt = now
	return nil
}

// CreateStrike records a strike against a user
func (r *ModerationRepository) CreateStrike(ctx context.Context, s *entities.Strike) error {
	s.ID = uuid.New()
	if s.IssuedAt.IsZero() {
		s.IssuedAt = time.Now()
	}

	m := &models.Strike{
		ID:            s.ID,
		UserID:        s.UserID,
		ViolationType: s.ViolationType,
		IssuedBy:      s.IssuedBy,
		IssuedAt:      s.IssuedAt,
		ExpiresAt:     s.ExpiresAt,
		CreatedAt:     s.IssuedAt,
	}
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// ListStrikes lists all strikes for a user, newest first
func (r *ModerationRepository) ListStrikes(ctx context.Context, userID uuid.UUID) ([]*entities.Strike, error) {
	var ms []models.Strike
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	strikes := make([]*entities.Strike, 0, len(ms))
	for i := range ms {
		m := ms[i]
		strikes = append(strikes, &entities.Strike{
			ID:            m.ID,
			UserID:        m.UserID,
			ViolationType: m.ViolationType,
			IssuedBy:      m.IssuedBy,
			IssuedAt:      m.IssuedAt,
			ExpiresAt:     m.ExpiresAt,
		})
	}
	return strikes, nil
}

// CountActiveStrikes counts strikes that have not expired as of now
func (r *ModerationRepository) CountActiveStrikes(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	var count int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.Strike{}).
		Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, now).
		Count(&count).Error
	return int(count), err
}

// CreateKeyword adds a banned keyword rule
func (r *ModerationRepository) CreateKeyword(ctx context.Context, k *entities.BannedKeyword) error {
	k.ID = uuid.New()
	k.CreatedAt = time.Now()

	m := &models.BannedKeyword{
		ID:        k.ID,
		Phrase:    k.Phrase,
		Action:    string(k.Action),
		CreatedBy: k.CreatedBy,
		CreatedAt: k.CreatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateErr(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ListKeywords lists all banned keyword rules
func (r *ModerationRepository) ListKeywords(ctx context.Context) ([]*entities.BannedKeyword, error) {
	var ms []models.BannedKeyword
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}

	keywords := make([]*entities.BannedKeyword, 0, len(ms))
	for i := range ms {
		m := ms[i]
		keywords = append(keywords, &entities.BannedKeyword{
			ID:        m.ID,
			Phrase:    m.Phrase,
			Action:    entities.KeywordAction(m.Action),
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		})
	}
	return keywords, nil
}

func (r *ModerationRepository) toCaseModel(c *entities.ModerationCase) *models.ModerationCase {
	return &models.ModerationCase{
		ID:              c.ID,
		SubjectType:     string(c.SubjectType),
		SubjectID:       c.SubjectID,
		AuthorID:        c.AuthorID,
		ScoreNSFW:       c.Scores.NSFW,
		ScoreViolence:   c.Scores.Violence,
		ScoreHateSpeech: c.Scores.HateSpeech,
		OverallRisk:     string(c.OverallRisk),
		Status:          string(c.Status),
		FlaggedReason:   c.FlaggedReason.Ptr(),
		ReviewedBy:      c.ReviewedBy,
		ReviewedAt:      c.ReviewedAt,
		PreviousCaseID:  c.PreviousCaseID,
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (r *ModerationRepository) toCaseEntity(m *models.ModerationCase) *entities.ModerationCase {
	return &entities.ModerationCase{
		ID:          m.ID,
		SubjectType: entities.ModerationSubjectType(m.SubjectType),
		SubjectID:   m.SubjectID,
		AuthorID:    m.AuthorID,
		Scores: entities.ModerationScores{
			NSFW:       m.ScoreNSFW,
			Violence:   m.ScoreViolence,
			HateSpeech: m.ScoreHateSpeech,
		},
		OverallRisk:    entities.RiskLevel(m.OverallRisk),
		Status:         entities.ModerationCaseStatus(m.Status),
		FlaggedReason:  null.StringFromPtr(m.FlaggedReason),
		ReviewedBy:     m.ReviewedBy,
		ReviewedAt:     m.ReviewedAt,
		PreviousCaseID: m.PreviousCaseID,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
