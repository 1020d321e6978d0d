package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// LedgerEntryKind represents the kind of a ledger entry
type LedgerEntryKind string

const (
	LedgerKindAccrual            LedgerEntryKind = "ACCRUAL"
	LedgerKindCommission         LedgerEntryKind = "COMMISSION"
	LedgerKindWithdrawalDebit    LedgerEntryKind = "WITHDRAWAL_DEBIT"
	LedgerKindWithdrawalReversal LedgerEntryKind = "WITHDRAWAL_REVERSAL"
)

// Sign returns the expected sign of an entry amount for the kind:
// accruals and reversals credit the creator, commission and debits charge it.
func (k LedgerEntryKind) Sign() int {
	switch k {
	case LedgerKindAccrual, LedgerKindWithdrawalReversal:
		return 1
	case LedgerKindCommission, LedgerKindWithdrawalDebit:
		return -1
	}
	return 0
}

// LedgerEntry is an immutable, append-only monetary event. Amount is signed
// and in minor currency units (paise). Sequence is monotonic per creator and
// assigned atomically on append; entries are never updated or deleted.
type LedgerEntry struct {
	ID                  uuid.UUID       `json:"id"`
	CreatorID           uuid.UUID       `json:"creatorId"`
	Kind                LedgerEntryKind `json:"kind"`
	Amount              int64           `json:"amount"`
	RelatedTemplateID   *uuid.UUID      `json:"relatedTemplateId,omitempty"`
	RelatedWithdrawalID *uuid.UUID      `json:"relatedWithdrawalId,omitempty"`
	IdempotencyKey      null.String     `json:"idempotencyKey,omitempty"`
	Sequence            int64           `json:"sequence"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// Balance is the derived balance view for a creator. Available is the signed
// fold over the entry log minus open withdrawal reservations; reservations
// are not ledger entries.
type Balance struct {
	Lifetime          int64 `json:"lifetime"`
	Available         int64 `json:"available"`
	PendingWithdrawal int64 `json:"pendingWithdrawal"`
}

// BalanceSnapshot is the materialized balance counter kept alongside the
// entry log. It is a cache: the fold over entries stays authoritative and a
// reconciliation job compares the two.
type BalanceSnapshot struct {
	CreatorID uuid.UUID `json:"creatorId"`
	Lifetime  int64     `json:"lifetime"`
	Available int64     `json:"available"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UsageEarningInput represents a usage event that accrues earnings
type UsageEarningInput struct {
	TemplateID   uuid.UUID `json:"templateId" binding:"required"`
	GrossAmount  int64     `json:"grossAmount" binding:"required"`
	UsageEventID string    `json:"usageEventId" binding:"required"`
}
