package usecases

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/domain/repositories"
	"promptmint.backend/pkg/logger"
	"promptmint.backend/pkg/metrics"
)

// LedgerUsecase owns every write to the earnings ledger except the
// withdrawal debit, which the withdrawal processor appends in its own
// transaction. Balances are always derived by folding entries; the
// materialized snapshot is a cache adjusted in the same transaction.
type LedgerUsecase struct {
	ledgerRepo     repositories.LedgerRepository
	templateRepo   repositories.TemplateRepository
	withdrawalRepo repositories.WithdrawalRepository
	uow            repositories.UnitOfWork
	commissionRate float64
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(
	ledgerRepo repositories.LedgerRepository,
	templateRepo repositories.TemplateRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	uow repositories.UnitOfWork,
	commissionRate float64,
) *LedgerUsecase {
	return &LedgerUsecase{
		ledgerRepo:     ledgerRepo,
		templateRepo:   templateRepo,
		withdrawalRepo: withdrawalRepo,
		uow:            uow,
		commissionRate: commissionRate,
	}
}

// roundShare computes a proportional share of an amount in minor units,
// rounded half away from zero.
func roundShare(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate))
}

// AccrueUsageEarning records a paid usage event against a template: a
// positive ACCRUAL for the gross amount and a negative COMMISSION for the
// platform's cut, appended atomically. Replaying the same usage event
// returns the original accrual entry without writing anything.
func (u *LedgerUsecase) AccrueUsageEarning(ctx context.Context, input *entities.UsageEarningInput) (*entities.LedgerEntry, error) {
	if input.GrossAmount <= 0 {
		return nil, domainerrors.BadRequest("gross amount must be positive")
	}
	if input.UsageEventID == "" {
		return nil, domainerrors.BadRequest("usage event id is required")
	}

	template, err := u.templateRepo.GetByID(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if !template.CanAccrue() {
		return nil, domainerrors.ErrNotAccruable
	}

	accrualKey := fmt.Sprintf("usage:%s:accrual", input.UsageEventID)
	commissionKey := fmt.Sprintf("usage:%s:commission", input.UsageEventID)

	if existing, err := u.ledgerRepo.GetByIdempotencyKey(ctx, accrualKey); err == nil {
		logger.Info(ctx, "usage event replayed, returning original accrual",
			zap.String("usage_event_id", input.UsageEventID))
		return existing, nil
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	commission := roundShare(input.GrossAmount, u.commissionRate)
	templateID := template.ID
	now := time.Now()

	accrual := &entities.LedgerEntry{
		ID:                uuid.New(),
		CreatorID:         template.CreatorID,
		Kind:              entities.LedgerKindAccrual,
		Amount:            input.GrossAmount,
		RelatedTemplateID: &templateID,
		CreatedAt:         now,
	}
	accrual.IdempotencyKey.SetValid(accrualKey)

	var appendErr error
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		appendErr = u.uow.Do(ctx, func(txCtx context.Context) error {
			if err := u.ledgerRepo.Append(txCtx, accrual); err != nil {
				return err
			}
			if err := u.ledgerRepo.AdjustSnapshot(txCtx, template.CreatorID, input.GrossAmount, input.GrossAmount); err != nil {
				return err
			}

			if commission > 0 {
				entry := &entities.LedgerEntry{
					ID:                uuid.New(),
					CreatorID:         template.CreatorID,
					Kind:              entities.LedgerKindCommission,
					Amount:            -commission,
					RelatedTemplateID: &templateID,
					CreatedAt:         now,
				}
				entry.IdempotencyKey.SetValid(commissionKey)
				if err := u.ledgerRepo.Append(txCtx, entry); err != nil {
					return err
				}
				if err := u.ledgerRepo.AdjustSnapshot(txCtx, template.CreatorID, -commission, -commission); err != nil {
					return err
				}
			}
			return nil
		})
		if appendErr == nil {
			break
		}
		if errors.Is(appendErr, domainerrors.ErrAlreadyExists) {
			// Lost the race against a concurrent replay of the same event.
			return u.ledgerRepo.GetByIdempotencyKey(ctx, accrualKey)
		}
		if !errors.Is(appendErr, domainerrors.ErrConflict) {
			return nil, appendErr
		}
	}
	if appendErr != nil {
		metrics.ConflictRetryExhaustedCount.WithLabelValues("ledger").Inc()
		return nil, appendErr
	}

	metrics.LedgerAppendCount.WithLabelValues(string(entities.LedgerKindAccrual)).Inc()
	if commission > 0 {
		metrics.LedgerAppendCount.WithLabelValues(string(entities.LedgerKindCommission)).Inc()
	}

	logger.Info(ctx, "usage earning accrued",
		zap.String("creator_id", template.CreatorID.String()),
		zap.String("template_id", template.ID.String()),
		zap.Int64("gross", input.GrossAmount),
		zap.Int64("commission", commission))

	return accrual, nil
}

// GetBalance derives a creator's balance view: lifetime earnings are the
// fold over accruals and commission, available is the full fold minus the
// open withdrawal reservation.
func (u *LedgerUsecase) GetBalance(ctx context.Context, creatorID uuid.UUID) (*entities.Balance, error) {
	fold, err := u.ledgerRepo.Sum(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	lifetime, err := u.ledgerRepo.SumKinds(ctx, creatorID, []entities.LedgerEntryKind{
		entities.LedgerKindAccrual,
		entities.LedgerKindCommission,
	})
	if err != nil {
		return nil, err
	}
	reserved, err := u.withdrawalRepo.SumOpenByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	return &entities.Balance{
		Lifetime:          lifetime,
		Available:         fold - reserved,
		PendingWithdrawal: reserved,
	}, nil
}

// ListEntries returns a creator's ledger statement, newest first, optionally
// bounded by a time window.
func (u *LedgerUsecase) ListEntries(ctx context.Context, creatorID uuid.UUID, from, to *time.Time, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	return u.ledgerRepo.List(ctx, creatorID, from, to, limit, offset)
}

// ReconciliationResult is one creator's comparison of the authoritative
// entry fold against the cached snapshot.
type ReconciliationResult struct {
	CreatorID uuid.UUID `json:"creatorId"`
	Fold      int64     `json:"fold"`
	Cached    int64     `json:"cached"`
	Drift     int64     `json:"drift"`
}

// Reconcile recomputes every cached balance from the entry log and reports
// the drift. It never repairs the cache; a nonzero drift means a bug and is
// surfaced loudly for an operator.
func (u *LedgerUsecase) Reconcile(ctx context.Context) ([]ReconciliationResult, error) {
	snapshots, err := u.ledgerRepo.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ReconciliationResult, 0, len(snapshots))
	for _, snap := range snapshots {
		fold, err := u.ledgerRepo.Sum(ctx, snap.CreatorID)
		if err != nil {
			return nil, err
		}
		drift := fold - snap.Available
		results = append(results, ReconciliationResult{
			CreatorID: snap.CreatorID,
			Fold:      fold,
			Cached:    snap.Available,
			Drift:     drift,
		})

		metrics.ReconciliationDrift.WithLabelValues(snap.CreatorID.String()).Set(math.Abs(float64(drift)))
		if drift != 0 {
			logger.Error(ctx, "ledger cache drift detected",
				zap.String("creator_id", snap.CreatorID.String()),
				zap.Int64("fold", fold),
				zap.Int64("cached", snap.Available),
				zap.Int64("drift", drift))
		}
	}
	return results, nil
}
