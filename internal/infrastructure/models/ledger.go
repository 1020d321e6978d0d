package models

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry rows are append-only: no UpdatedAt, no soft delete. The
// (creator_id, sequence) unique index is the backstop for the per-creator
// monotonic sequence invariant; idempotency_key dedupes retried appends.
type LedgerEntry struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatorID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_creator_seq,priority:1"`
	Kind                string     `gorm:"type:varchar(30);not null;index"`
	Amount              int64      `gorm:"not null"`
	RelatedTemplateID   *uuid.UUID `gorm:"type:uuid;index"`
	RelatedWithdrawalID *uuid.UUID `gorm:"type:uuid;index"`
	IdempotencyKey      *string    `gorm:"type:varchar(255);uniqueIndex"`
	Sequence            int64      `gorm:"not null;uniqueIndex:idx_ledger_creator_seq,priority:2"`
	CreatedAt           time.Time
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

// CreatorBalance is the materialized balance counter per creator.
type CreatorBalance struct {
	CreatorID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Lifetime  int64     `gorm:"not null;default:0"`
	Available int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (CreatorBalance) TableName() string { return "creator_balances" }
