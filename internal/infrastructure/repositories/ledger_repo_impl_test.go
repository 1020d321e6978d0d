package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
)

func TestLedgerAppend_SequenceIsMonotonicPerCreator(t *testing.T) {
	db := newTestDB(t)
	createLedgerTables(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(ctx, &entities.LedgerEntry{
			CreatorID: alice,
			Kind:      entities.LedgerKindAccrual,
			Amount:    1000,
		}))
	}
	require.NoError(t, repo.Append(ctx, &entities.LedgerEntry{
		CreatorID: bob,
		Kind:      entities.LedgerKindAccrual,
		Amount:    500,
	}))

	entries, total, err := repo.List(ctx, alice, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Sequence)
	}

	bobEntries, _, err := repo.List(ctx, bob, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, bobEntries, 1)
	assert.Equal(t, int64(1), bobEntries[0].Sequence, "sequences are per creator")
}

func TestLedgerAppend_IdempotencyKeyDeduplicates(t *testing.T) {
	db := newTestDB(t)
	createLedgerTables(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	creatorID := uuid.New()
	first := &entities.LedgerEntry{
		CreatorID: creatorID,
		Kind:      entities.LedgerKindAccrual,
		Amount:    10000,
	}
	first.IdempotencyKey.SetValid("usage:evt-42:accrual")
	require.NoError(t, repo.Append(ctx, first))

	dup := &entities.LedgerEntry{
		CreatorID: creatorID,
		Kind:      entities.LedgerKindAccrual,
		Amount:    10000,
	}
	dup.IdempotencyKey.SetValid("usage:evt-42:accrual")
	assert.ErrorIs(t, repo.Append(ctx, dup), domainerrors.ErrAlreadyExists)

	got, err := repo.GetByIdempotencyKey(ctx, "usage:evt-42:accrual")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.GetByIdempotencyKey(ctx, "usage:evt-missing:accrual")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestIsDuplicateErr_RecognizesTranslatedAndRawErrors(t *testing.T) {
	assert.True(t, isDuplicateErr(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateErr(fmt.Errorf("append entry: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, isDuplicateErr(errors.New(`pq: duplicate key value violates unique constraint "idx_ledger_entries_idempotency_key"`)))
	assert.True(t, isDuplicateErr(errors.New("UNIQUE constraint failed: ledger_entries.idempotency_key")))
	assert.False(t, isDuplicateErr(errors.New("connection reset by peer")))
}

func TestLedgerSum_FoldsSignedAmounts(t *testing.T) {
	db := newTestDB(t)
	createLedgerTables(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	creatorID := uuid.New()
	amounts := map[entities.LedgerEntryKind]int64{
		entities.LedgerKindAccrual:         10000,
		entities.LedgerKindCommission:      -2000,
		entities.LedgerKindWithdrawalDebit: -5000,
	}
	for kind, amount := range amounts {
		require.NoError(t, repo.Append(ctx, &entities.LedgerEntry{
			CreatorID: creatorID,
			Kind:      kind,
			Amount:    amount,
		}))
	}

	total, err := repo.Sum(ctx, creatorID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), total)

	lifetime, err := repo.SumKinds(ctx, creatorID, []entities.LedgerEntryKind{
		entities.LedgerKindAccrual, entities.LedgerKindCommission,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8000), lifetime)

	other, err := repo.Sum(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), other, "unknown creator folds to zero")
}

func TestLedgerList_TimeWindow(t *testing.T) {
	db := newTestDB(t)
	createLedgerTables(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	creatorID := uuid.New()
	require.NoError(t, repo.Append(ctx, &entities.LedgerEntry{
		CreatorID: creatorID,
		Kind:      entities.LedgerKindAccrual,
		Amount:    100,
	}))
	require.NoError(t, repo.Append(ctx, &entities.LedgerEntry{
		CreatorID: creatorID,
		Kind:      entities.LedgerKindAccrual,
		Amount:    200,
	}))

	// Backdate the first entry out of the window.
	past := time.Now().Add(-48 * time.Hour)
	mustExec(t, db, `UPDATE ledger_entries SET created_at = ? WHERE sequence = 1 AND creator_id = ?`, past, creatorID)

	from := time.Now().Add(-time.Hour)
	entries, total, err := repo.List(ctx, creatorID, &from, nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(200), entries[0].Amount)

	to := time.Now().Add(-24 * time.Hour)
	older, _, err := repo.List(ctx, creatorID, nil, &to, 10, 0)
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, int64(100), older[0].Amount)
}

func TestAdjustSnapshot_CreatesThenIncrements(t *testing.T) {
	db := newTestDB(t)
	createLedgerTables(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	creatorID := uuid.New()

	_, err := repo.GetSnapshot(ctx, creatorID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	require.NoError(t, repo.AdjustSnapshot(ctx, creatorID, 10000, 10000))
	require.NoError(t, repo.AdjustSnapshot(ctx, creatorID, -2000, -2000))
	require.NoError(t, repo.AdjustSnapshot(ctx, creatorID, -5000, 0))

	snap, err := repo.GetSnapshot(ctx, creatorID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), snap.Available)
	assert.Equal(t, int64(8000), snap.Lifetime)

	snaps, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	createLedgerTables(t, db)
	repo := NewLedgerRepository(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	creatorID := uuid.New()
	wantErr := domainerrors.ErrInsufficientBalance

	err := uow.Do(ctx, func(txCtx context.Context) error {
		if err := repo.Append(txCtx, &entities.LedgerEntry{
			CreatorID: creatorID,
			Kind:      entities.LedgerKindAccrual,
			Amount:    100,
		}); err != nil {
			return err
		}
		if err := repo.AdjustSnapshot(txCtx, creatorID, 100, 100); err != nil {
			return err
		}
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	total, err := repo.Sum(ctx, creatorID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total, "rolled-back entry must not count")

	_, err = repo.GetSnapshot(ctx, creatorID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	createLedgerTables(t, db)
	repo := NewLedgerRepository(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	creatorID := uuid.New()
	err := uow.Do(ctx, func(txCtx context.Context) error {
		return repo.Append(txCtx, &entities.LedgerEntry{
			CreatorID: creatorID,
			Kind:      entities.LedgerKindAccrual,
			Amount:    250,
		})
	})
	require.NoError(t, err)

	total, err := repo.Sum(ctx, creatorID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), total)
}
