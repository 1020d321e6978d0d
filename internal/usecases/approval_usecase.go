package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/domain/repositories"
	"promptmint.backend/pkg/logger"
	"promptmint.backend/pkg/metrics"
)

// ApprovalUsecase drives a template's approval lifecycle:
// PENDING -> APPROVED | REJECTED. Rejection is terminal; a resubmission is a
// fresh PENDING record linked to the rejected one. Pause and feature flags
// exist only on approved templates.
type ApprovalUsecase struct {
	templateRepo   repositories.TemplateRepository
	creatorRepo    repositories.CreatorRepository
	moderationRepo repositories.ModerationRepository
	notifier       Notifier
}

// NewApprovalUsecase creates a new approval usecase
func NewApprovalUsecase(
	templateRepo repositories.TemplateRepository,
	creatorRepo repositories.CreatorRepository,
	moderationRepo repositories.ModerationRepository,
	notifier Notifier,
) *ApprovalUsecase {
	return &ApprovalUsecase{
		templateRepo:   templateRepo,
		creatorRepo:    creatorRepo,
		moderationRepo: moderationRepo,
		notifier:       notifier,
	}
}

// Submit registers a new template in the review queue.
func (u *ApprovalUsecase) Submit(ctx context.Context, input *entities.SubmitTemplateInput) (*entities.Template, error) {
	creator, err := u.creatorRepo.GetByID(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}
	if creator.Status == entities.CreatorStatusBanned {
		return nil, domainerrors.ErrAccountBanned
	}

	template := &entities.Template{
		ID:             uuid.New(),
		CreatorID:      input.CreatorID,
		Title:          input.Title,
		Prompt:         input.Prompt,
		PreviewURL:     input.PreviewURL,
		ApprovalStatus: entities.ApprovalStatusPending,
		CreatedAt:      time.Now(),
	}
	if err := u.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	logger.Info(ctx, "template submitted for review",
		zap.String("template_id", template.ID.String()),
		zap.String("creator_id", input.CreatorID.String()))

	return template, nil
}

// Approve moves a pending template to APPROVED, making it publicly listable
// and accrual-eligible. A template with a BLOCKED moderation case cannot be
// approved until the block is lifted through a new case. Approving an
// already approved template is a no-op.
func (u *ApprovalUsecase) Approve(ctx context.Context, templateID, adminID uuid.UUID) (*entities.Template, error) {
	for attempt := 0; ; attempt++ {
		template, err := u.templateRepo.GetByID(ctx, templateID)
		if err != nil {
			return nil, err
		}
		switch template.ApprovalStatus {
		case entities.ApprovalStatusApproved:
			return template, nil
		case entities.ApprovalStatusRejected:
			return nil, domainerrors.ErrInvalidTransition
		}

		blocked, err := u.moderationRepo.HasBlockedCase(ctx, entities.SubjectTypeTemplate, templateID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, domainerrors.ErrModerationBlocked
		}

		template.ApprovalStatus = entities.ApprovalStatusApproved
		err = u.templateRepo.Update(ctx, template, template.Version)
		if err == nil {
			metrics.AdminActionCount.WithLabelValues("template.approve", "ok").Inc()
			logger.Info(ctx, "template approved",
				zap.String("template_id", templateID.String()),
				zap.String("admin_id", adminID.String()))
			u.notify(ctx, EventTemplateApproved, template.CreatorID, template.ID, "your template is now live")
			return template, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("template").Inc()
			return nil, err
		}
	}
}

// Reject moves a pending template to REJECTED with a mandatory reason.
// Rejecting an already rejected template is a no-op; an approved template
// cannot be rejected, only paused.
func (u *ApprovalUsecase) Reject(ctx context.Context, templateID, adminID uuid.UUID, reason string) (*entities.Template, error) {
	if reason == "" {
		return nil, domainerrors.BadRequest("rejection reason is required")
	}

	for attempt := 0; ; attempt++ {
		template, err := u.templateRepo.GetByID(ctx, templateID)
		if err != nil {
			return nil, err
		}
		switch template.ApprovalStatus {
		case entities.ApprovalStatusRejected:
			return template, nil
		case entities.ApprovalStatusApproved:
			return nil, domainerrors.ErrInvalidTransition
		}

		template.ApprovalStatus = entities.ApprovalStatusRejected
		template.RejectionReason.SetValid(reason)
		err = u.templateRepo.Update(ctx, template, template.Version)
		if err == nil {
			metrics.AdminActionCount.WithLabelValues("template.reject", "ok").Inc()
			logger.Info(ctx, "template rejected",
				zap.String("template_id", templateID.String()),
				zap.String("admin_id", adminID.String()),
				zap.String("reason", reason))
			u.notify(ctx, EventTemplateRejected, template.CreatorID, template.ID, reason)
			return template, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("template").Inc()
			return nil, err
		}
	}
}

// SetPaused pauses or unpauses an approved template. A paused template stays
// approved but is delisted and stops accruing earnings.
func (u *ApprovalUsecase) SetPaused(ctx context.Context, templateID uuid.UUID, paused bool) (*entities.Template, error) {
	return u.mutateApproved(ctx, templateID, "template.pause", func(t *entities.Template) {
		t.IsPaused = paused
	})
}

// SetFeatured marks or unmarks an approved template as featured on the
// marketplace front page.
func (u *ApprovalUsecase) SetFeatured(ctx context.Context, templateID uuid.UUID, featured bool) (*entities.Template, error) {
	return u.mutateApproved(ctx, templateID, "template.feature", func(t *entities.Template) {
		t.IsFeatured = featured
	})
}

func (u *ApprovalUsecase) mutateApproved(ctx context.Context, templateID uuid.UUID, action string, mutate func(*entities.Template)) (*entities.Template, error) {
	for attempt := 0; ; attempt++ {
		template, err := u.templateRepo.GetByID(ctx, templateID)
		if err != nil {
			return nil, err
		}
		if template.ApprovalStatus != entities.ApprovalStatusApproved {
			return nil, domainerrors.ErrInvalidTransition
		}

		mutate(template)
		err = u.templateRepo.Update(ctx, template, template.Version)
		if err == nil {
			metrics.AdminActionCount.WithLabelValues(action, "ok").Inc()
			return template, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("template").Inc()
			return nil, err
		}
	}
}

// Resubmit creates a fresh pending template from a rejected one, carrying
// the content forward and linking back to the rejected record.
func (u *ApprovalUsecase) Resubmit(ctx context.Context, templateID uuid.UUID, input *entities.SubmitTemplateInput) (*entities.Template, error) {
	previous, err := u.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if previous.ApprovalStatus != entities.ApprovalStatusRejected {
		return nil, domainerrors.ErrInvalidTransition
	}

	creator, err := u.creatorRepo.GetByID(ctx, previous.CreatorID)
	if err != nil {
		return nil, err
	}
	if creator.Status == entities.CreatorStatusBanned {
		return nil, domainerrors.ErrAccountBanned
	}

	previousID := previous.ID
	template := &entities.Template{
		ID:                 uuid.New(),
		CreatorID:          previous.CreatorID,
		Title:              previous.Title,
		Prompt:             previous.Prompt,
		PreviewURL:         previous.PreviewURL,
		ApprovalStatus:     entities.ApprovalStatusPending,
		PreviousTemplateID: &previousID,
		CreatedAt:          time.Now(),
	}
	if input != nil {
		if input.Title != "" {
			template.Title = input.Title
		}
		if input.Prompt != "" {
			template.Prompt = input.Prompt
		}
		if input.PreviewURL != "" {
			template.PreviewURL = input.PreviewURL
		}
	}

	if err := u.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	logger.Info(ctx, "template resubmitted",
		zap.String("template_id", template.ID.String()),
		zap.String("previous_template_id", previousID.String()))

	return template, nil
}

// GetByID returns a single template
func (u *ApprovalUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Template, error) {
	return u.templateRepo.GetByID(ctx, id)
}

// ListByStatus returns the review queue for a status
func (u *ApprovalUsecase) ListByStatus(ctx context.Context, status entities.ApprovalStatus, limit, offset int) ([]*entities.Template, int64, error) {
	return u.templateRepo.ListByStatus(ctx, status, limit, offset)
}

func (u *ApprovalUsecase) notify(ctx context.Context, event string, creatorID, subjectID uuid.UUID, message string) {
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
