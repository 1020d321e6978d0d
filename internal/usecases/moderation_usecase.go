package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promptmint.backend/internal/config"
	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/domain/repositories"
	"promptmint.backend/pkg/logger"
	"promptmint.backend/pkg/metrics"
)

// ModerationUsecase scores submitted content into risk bands, applies the
// banned-keyword policy, runs the human review queue and escalates repeat
// offenders through the strike ladder.
type ModerationUsecase struct {
	moderationRepo repositories.ModerationRepository
	templateRepo   repositories.TemplateRepository
	creatorRepo    repositories.CreatorRepository
	notifier       Notifier
	cfg            config.ModerationConfig
}

// NewModerationUsecase creates a new moderation usecase
func NewModerationUsecase(
	moderationRepo repositories.ModerationRepository,
	templateRepo repositories.TemplateRepository,
	creatorRepo repositories.CreatorRepository,
	notifier Notifier,
	cfg config.ModerationConfig,
) *ModerationUsecase {
	return &ModerationUsecase{
		moderationRepo: moderationRepo,
		templateRepo:   templateRepo,
		creatorRepo:    creatorRepo,
		notifier:       notifier,
		cfg:            cfg,
	}
}

// riskLevel bands the highest category score. The max decides, not the
// average: one extreme category must not be diluted by harmless ones.
func (u *ModerationUsecase) riskLevel(scores entities.ModerationScores) entities.RiskLevel {
	max := scores.Max()
	switch {
	case max >= u.cfg.CriticalThreshold:
		return entities.RiskLevelCritical
	case max >= u.cfg.HighThreshold:
		return entities.RiskLevelHigh
	case max >= u.cfg.MediumThreshold:
		return entities.RiskLevelMedium
	}
	return entities.RiskLevelLow
}

// Evaluate opens a moderation case for a content submission. Only a banned
// keyword with an AUTO_BLOCK action blocks the case without human review;
// FLAG and WARNING matches annotate the case for the reviewer, and risk
// scores alone never block, they only set the band a reviewer triages by.
func (u *ModerationUsecase) Evaluate(ctx context.Context, input *entities.EvaluateInput) (*entities.ModerationCase, error) {
	if err := validateScores(input.Scores); err != nil {
		return nil, err
	}

	keywords, err := u.moderationRepo.ListKeywords(ctx)
	if err != nil {
		return nil, err
	}

	matched := strongestMatch(input.Content, keywords)

	c := &entities.ModerationCase{
		ID:          uuid.New(),
		SubjectType: input.SubjectType,
		SubjectID:   input.SubjectID,
		AuthorID:    input.AuthorID,
		Scores:      input.Scores,
		OverallRisk: u.riskLevel(input.Scores),
		Status:      entities.CaseStatusPending,
		CreatedAt:   time.Now(),
	}

	autoBlock := false
	if matched != nil {
		c.FlaggedReason.SetValid(fmt.Sprintf("matched banned phrase %q (%s)", matched.Phrase, matched.Action))
		autoBlock = matched.Action == entities.KeywordActionAutoBlock
	}
	if autoBlock {
		c.Status = entities.CaseStatusBlocked
	}

	if err := u.moderationRepo.CreateCase(ctx, c); err != nil {
		return nil, err
	}

	if autoBlock {
		metrics.ModerationAutoBlockCount.Inc()
		logger.Warn(ctx, "content auto-blocked",
			zap.String("case_id", c.ID.String()),
			zap.String("subject_id", c.SubjectID.String()),
			zap.String("reason", c.FlaggedReason.String))
		u.cascadeBlock(ctx, c)
	} else {
		logger.Info(ctx, "moderation case opened",
			zap.String("case_id", c.ID.String()),
			zap.String("risk", string(c.OverallRisk)))
	}

	return c, nil
}

// Review applies a human decision to a pending case. Decisions are final: a
// second decision on the same case fails with ErrAlreadyDecided, including
// when two reviewers race on the same case.
func (u *ModerationUsecase) Review(ctx context.Context, caseID uuid.UUID, decision entities.ReviewDecision, adminID uuid.UUID) (*entities.ModerationCase, error) {
	var target entities.ModerationCaseStatus
	switch decision {
	case entities.DecisionApprove:
		target = entities.CaseStatusApproved
	case entities.DecisionBlock:
		target = entities.CaseStatusBlocked
	case entities.DecisionReview:
		target = entities.CaseStatusReviewed
	default:
		return nil, domainerrors.BadRequest("unknown review decision")
	}

	for attempt := 0; ; attempt++ {
		c, err := u.moderationRepo.GetCaseByID(ctx, caseID)
		if err != nil {
			return nil, err
		}
		if c.Status.IsTerminal() {
			return nil, domainerrors.ErrAlreadyDecided
		}

		now := time.Now()
		c.Status = target
		c.ReviewedBy = &adminID
		c.ReviewedAt = &now

		err = u.moderationRepo.UpdateCase(ctx, c, c.Version)
		if err == nil {
			metrics.AdminActionCount.WithLabelValues("moderation.review", "ok").Inc()
			logger.Info(ctx, "moderation case decided",
				zap.String("case_id", caseID.String()),
				zap.String("decision", string(decision)),
				zap.String("admin_id", adminID.String()))
			if target == entities.CaseStatusBlocked {
				u.cascadeBlock(ctx, c)
			}
			return c, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		// The race loser re-reads: the winner's decision is terminal now.
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("moderation_case").Inc()
			return nil, err
		}
	}
}

// cascadeBlock propagates a blocked template case to the approval record so
// a blocked template can never stay live or pending.
func (u *ModerationUsecase) cascadeBlock(ctx context.Context, c *entities.ModerationCase) {
	if c.SubjectType != entities.SubjectTypeTemplate {
		return
	}

	reason := "blocked by moderation"
	if c.FlaggedReason.Valid {
		reason = c.FlaggedReason.String
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		template, err := u.templateRepo.GetByID(ctx, c.SubjectID)
		if err != nil {
			logger.Error(ctx, "blocked case cascade failed to load template",
				zap.String("case_id", c.ID.String()), zap.Error(err))
			return
		}
		if template.ApprovalStatus == entities.ApprovalStatusRejected {
			return
		}

		template.ApprovalStatus = entities.ApprovalStatusRejected
		template.RejectionReason.SetValid(reason)
		template.IsFeatured = false

		err = u.templateRepo.Update(ctx, template, template.Version)
		if err == nil {
			u.notify(ctx, EventTemplateRejected, template.CreatorID, template.ID, reason)
			return
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			logger.Error(ctx, "blocked case cascade failed to update template",
				zap.String("case_id", c.ID.String()), zap.Error(err))
			return
		}
	}
	metrics.ConflictRetryExhaustedCount.WithLabelValues("template").Inc()
}

// IssueStrike records a violation against a creator and escalates their
// account when the active strike count crosses the policy thresholds.
// Expired strikes never count.
func (u *ModerationUsecase) IssueStrike(ctx context.Context, adminID uuid.UUID, input *entities.IssueStrikeInput) (*entities.Strike, error) {
	creator, err := u.creatorRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if creator.Status == entities.CreatorStatusBanned {
		return nil, domainerrors.ErrAccountBanned
	}

	strike := &entities.Strike{
		ID:            uuid.New(),
		UserID:        input.UserID,
		ViolationType: input.ViolationType,
		IssuedBy:      adminID,
		IssuedAt:      time.Now(),
		ExpiresAt:     input.ExpiresAt,
	}
	if err := u.moderationRepo.CreateStrike(ctx, strike); err != nil {
		return nil, err
	}

	active, err := u.moderationRepo.CountActiveStrikes(ctx, input.UserID, time.Now())
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		creator, err = u.creatorRepo.GetByID(ctx, input.UserID)
		if err != nil {
			return nil, err
		}

		creator.StrikeCount = active
		event := ""
		switch {
		case active >= u.cfg.BanAfter:
			creator.Status = entities.CreatorStatusBanned
			event = EventAccountBanned
		case active >= u.cfg.SuspendAfter && creator.Status == entities.CreatorStatusActive:
			creator.Status = entities.CreatorStatusSuspended
			event = EventAccountSuspended
		}

		err = u.creatorRepo.Update(ctx, creator, creator.Version)
		if err == nil {
			metrics.AdminActionCount.WithLabelValues("moderation.strike", "ok").Inc()
			logger.Info(ctx, "strike issued",
				zap.String("user_id", input.UserID.String()),
				zap.String("violation", input.ViolationType),
				zap.Int("active_strikes", active),
				zap.String("status", string(creator.Status)))
			if event != "" {
				u.notify(ctx, event, creator.ID, strike.ID,
					fmt.Sprintf("account status changed to %s after %d active strikes", creator.Status, active))
			}
			u.notify(ctx, EventStrikeIssued, creator.ID, strike.ID, input.ViolationType)
			return strike, nil
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

// AddKeyword registers a banned phrase. The rule applies to future
// evaluations only; existing cases are not re-scored.
func (u *ModerationUsecase) AddKeyword(ctx context.Context, adminID uuid.UUID, input *entities.AddKeywordInput) (*entities.BannedKeyword, error) {
	phrase := strings.TrimSpace(strings.ToLower(input.Phrase))
	if phrase == "" {
		return nil, domainerrors.BadRequest("phrase is required")
	}
	switch input.Action {
	case entities.KeywordActionAutoBlock, entities.KeywordActionFlag, entities.KeywordActionWarning:
	default:
		return nil, domainerrors.BadRequest("unknown keyword action")
	}

	keyword := &entities.BannedKeyword{
		ID:        uuid.New(),
		Phrase:    phrase,
		Action:    input.Action,
		CreatedBy: adminID,
		CreatedAt: time.Now(),
	}
	if err := u.moderationRepo.CreateKeyword(ctx, keyword); err != nil {
		return nil, err
	}

	logger.Info(ctx, "banned keyword added",
		zap.String("phrase", phrase),
		zap.String("action", string(input.Action)),
		zap.String("admin_id", adminID.String()))

	return keyword, nil
}

// ListKeywords returns all banned keywords
func (u *ModerationUsecase) ListKeywords(ctx context.Context) ([]*entities.BannedKeyword, error) {
	return u.moderationRepo.ListKeywords(ctx)
}

// GetCase returns a single moderation case
func (u *ModerationUsecase) GetCase(ctx context.Context, id uuid.UUID) (*entities.ModerationCase, error) {
	return u.moderationRepo.GetCaseByID(ctx, id)
}

// ListCases returns the review queue for a status
func (u *ModerationUsecase) ListCases(ctx context.Context, status entities.ModerationCaseStatus, limit, offset int) ([]*entities.ModerationCase, int64, error) {
	return u.moderationRepo.ListCasesByStatus(ctx, status, limit, offset)
}

// ListStrikes returns all strikes recorded against a user
func (u *ModerationUsecase) ListStrikes(ctx context.Context, userID uuid.UUID) ([]*entities.Strike, error) {
	return u.moderationRepo.ListStrikes(ctx, userID)
}

func validateScores(s entities.ModerationScores) error {
	for _, v := range []float64{s.NSFW, s.Violence, s.HateSpeech} {
		if v < 0 || v > 1 {
			return domainerrors.BadRequest("scores must be between 0 and 1")
		}
	}
	return nil
}

// strongestMatch returns the matched keyword with the most severe action,
// AUTO_BLOCK > FLAG > WARNING. Matching is case-insensitive substring.
func strongestMatch(content string, keywords []*entities.BannedKeyword) *entities.BannedKeyword {
	if content == "" {
		return nil
	}
	lowered := strings.ToLower(content)

	severity := map[entities.KeywordAction]int{
		entities.KeywordActionWarning:   1,
		entities.KeywordActionFlag:      2,
		entities.KeywordActionAutoBlock: 3,
	}

	var best *entities.BannedKeyword
	for _, k := range keywords {
		if !strings.Contains(lowered, strings.ToLower(k.Phrase)) {
			continue
		}
		if best == nil || severity[k.Action] > severity[best.Action] {
			best = k
		}
	}
	return best
}

func (u *ModerationUsecase) notify(ctx context.Context, event string, creatorID, subjectID uuid.UUID, message string) {
	if u.notifier == nil {
		return
	}
	if err := u.notifier.Notify(ctx, Notification{
		Event:     event,
		CreatorID: creatorID,
		SubjectID: subjectID,
		Message:   message,
	}); err != nil {
		logger.Warn(ctx, "notification delivery failed",
			zap.String("event", event), zap.Error(err))
	}
}
