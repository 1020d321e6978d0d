package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"promptmint.backend/internal/domain/entities"
)

// LedgerRepository defines the append-only ledger store. Append is the only
// mutation primitive; entries are never updated or deleted.
type LedgerRepository interface {
	// Append assigns the next per-creator sequence number atomically and
	// inserts the entry. Returns ErrAlreadyExists when the idempotency key
	// has been seen before.
	Append(ctx context.Context, entry *entities.LedgerEntry) error
	GetByIdempotencyKey(ctx context.Context, key string) (*entities.LedgerEntry, error)
	// Sum folds the signed amounts of all entries for a creator.
	Sum(ctx context.Context, creatorID uuid.UUID) (int64, error)
	// SumKinds folds only entries of the given kinds.
	SumKinds(ctx context.Context, creatorID uuid.UUID, kinds []entities.LedgerEntryKind) (int64, error)
	List(ctx context.Context, creatorID uuid.UUID, from, to *time.Time, limit, offset int) ([]*entities.LedgerEntry, int64, error)

	// Materialized balance cache. The fold stays authoritative; the cache
	// is adjusted in the same transaction as the append and verified by the
	// reconciliation job.
	GetSnapshot(ctx context.Context, creatorID uuid.UUID) (*entities.BalanceSnapshot, error)
	AdjustSnapshot(ctx context.Context, creatorID uuid.UUID, availableDelta, lifetimeDelta int64) error
	ListSnapshots(ctx context.Context) ([]*entities.BalanceSnapshot, error)
}
