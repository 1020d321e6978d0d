package usecases

import (
	"context"

	"github.com/google/uuid"
	"promptmint.backend/internal/domain/entities"
)

// Notification event names emitted by the engines.
const (
	EventTemplateApproved    = "template.approved"
	EventTemplateRejected    = "template.rejected"
	EventStrikeIssued        = "strike.issued"
	EventAccountSuspended    = "account.suspended"
	EventAccountBanned       = "account.banned"
	EventWithdrawalCompleted = "withdrawal.completed"
	EventWithdrawalRejected  = "withdrawal.rejected"
)

// Notification is an outbound event about a creator-visible decision.
type Notification struct {
	Event     string    `json:"event"`
	CreatorID uuid.UUID `json:"creatorId"`
	SubjectID uuid.UUID `json:"subjectId"`
	Message   string    `json:"message"`
}

// Notifier delivers notifications out of band. Delivery failures are logged
// by implementations and never fail the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// PayoutGateway initiates payouts with the external payment provider.
// It returns the provider's reference for the transfer.
type PayoutGateway interface {
	InitiatePayout(ctx context.Context, request *entities.WithdrawalRequest) (string, error)
}

// maxCASRetries bounds the optimistic-concurrency retry loop. A lost race
// after this many attempts surfaces ErrConflict to the caller.
const maxCASRetries = 3
