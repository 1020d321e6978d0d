package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
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

// WithdrawalUsecase drives the payout state machine:
// PENDING -> PROCESSING -> COMPLETED, with REJECTED reachable from PENDING
// and PROCESSING. Fees are computed once at request time; the ledger debit
// happens exactly once, at completion.
type WithdrawalUsecase struct {
	withdrawalRepo repositories.WithdrawalRepository
	creatorRepo    repositories.CreatorRepository
	ledgerRepo     repositories.LedgerRepository
	uow            repositories.UnitOfWork
	gateway        PayoutGateway
	notifier       Notifier
	cfg            config.EarningsConfig
}

// NewWithdrawalUsecase creates a new withdrawal usecase
func NewWithdrawalUsecase(
	withdrawalRepo repositories.WithdrawalRepository,
	creatorRepo repositories.CreatorRepository,
	ledgerRepo repositories.LedgerRepository,
	uow repositories.UnitOfWork,
	gateway PayoutGateway,
	notifier Notifier,
	cfg config.EarningsConfig,
) *WithdrawalUsecase {
	return &WithdrawalUsecase{
		withdrawalRepo: withdrawalRepo,
		creatorRepo:    creatorRepo,
		ledgerRepo:     ledgerRepo,
		uow:            uow,
		gateway:        gateway,
		notifier:       notifier,
		cfg:            cfg,
	}
}

// Request creates a withdrawal request after checking every precondition in
// order: frozen wallet, account status, minimum amount, then available
// balance. The balance check runs inside the same transaction as the insert,
// and the transaction version-bumps the creator row so concurrent requests
// for one creator serialize instead of both drawing on the same funds.
func (u *WithdrawalUsecase) Request(ctx context.Context, input *entities.RequestWithdrawalInput) (*entities.WithdrawalRequest, error) {
	if input.Amount <= 0 {
		return nil, domainerrors.BadRequest("amount must be positive")
	}

	snapshot, err := json.Marshal(input.PayoutMethod)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid payout method")
	}

	fee := roundShare(input.Amount, u.cfg.FeeRate)
	tds := roundShare(input.Amount, u.cfg.TDSRate)

	request := &entities.WithdrawalRequest{
		ID:              uuid.New(),
		CreatorID:       input.CreatorID,
		RequestedAmount: input.Amount,
		PlatformFee:     fee,
		TaxWithheld:     tds,
		NetPayable:      input.Amount - fee - tds,
		Status:          entities.WithdrawalStatusPending,
		PayoutSnapshot:  string(snapshot),
		RequestedAt:     time.Now(),
	}

	for attempt := 0; ; attempt++ {
		creator, err := u.creatorRepo.GetByID(ctx, input.CreatorID)
		if err != nil {
			return nil, err
		}
		if creator.WalletFrozen {
			return nil, domainerrors.ErrWalletFrozen
		}
		if creator.Status != entities.CreatorStatusActive {
			return nil, domainerrors.ErrAccountNotActive
		}
		if input.Amount < u.cfg.MinimumWithdrawal {
			return nil, domainerrors.ErrBelowMinimum
		}

		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			// Version-bump the creator row first. Concurrent requests for
			// the same creator serialize on that row, and the loser's
			// version check fails before its balance re-check, so two
			// requests can never both pass against the same funds.
			if err := u.creatorRepo.Update(txCtx, creator, creator.Version); err != nil {
				return err
			}
			if err := u.withdrawalRepo.Create(txCtx, request); err != nil {
				return err
			}
			// Re-check with the new reservation included. If the fold no
			// longer covers every open request the insert rolls back.
			fold, err := u.ledgerRepo.Sum(txCtx, input.CreatorID)
			if err != nil {
				return err
			}
			reserved, err := u.withdrawalRepo.SumOpenByCreator(txCtx, input.CreatorID)
			if err != nil {
				return err
			}
			if fold-reserved < 0 {
				return domainerrors.ErrInsufficientBalance
			}
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("withdrawal").Inc()
			return nil, err
		}
	}

	metrics.WithdrawalTransitionCount.WithLabelValues(string(entities.WithdrawalStatusPending)).Inc()
	logger.Info(ctx, "withdrawal requested",
		zap.String("withdrawal_id", request.ID.String()),
		zap.String("creator_id", input.CreatorID.String()),
		zap.Int64("amount", input.Amount),
		zap.Int64("net_payable", request.NetPayable))

	return request, nil
}

// Approve moves a pending request to PROCESSING and initiates the payout
// with the gateway. A frozen wallet or banned account blocks approval the
// same way it blocks a new request. If initiation fails the request stays
// PROCESSING and the error is surfaced so an operator can retry the transfer.
func (u *WithdrawalUsecase) Approve(ctx context.Context, id, adminID uuid.UUID) (*entities.WithdrawalRequest, error) {
	var request *entities.WithdrawalRequest

	for attempt := 0; ; attempt++ {
		var err error
		request, err = u.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if request.Status != entities.WithdrawalStatusPending {
			return nil, domainerrors.ErrInvalidTransition
		}

		creator, err := u.creatorRepo.GetByID(ctx, request.CreatorID)
		if err != nil {
			return nil, err
		}
		if creator.WalletFrozen {
			return nil, domainerrors.ErrWalletFrozen
		}
		if creator.Status == entities.CreatorStatusBanned {
			return nil, domainerrors.ErrAccountBanned
		}

		now := time.Now()
		request.Status = entities.WithdrawalStatusProcessing
		request.ProcessedBy = &adminID
		request.ApprovedAt = &now

		err = u.withdrawalRepo.Update(ctx, request, request.Version)
		if err == nil {
			break
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("withdrawal").Inc()
			return nil, err
		}
	}

	metrics.WithdrawalTransitionCount.WithLabelValues(string(entities.WithdrawalStatusProcessing)).Inc()

	reference, err := u.gateway.InitiatePayout(ctx, request)
	if err != nil {
		logger.Error(ctx, "payout initiation failed, request remains processing",
			zap.String("withdrawal_id", request.ID.String()),
			zap.Error(err))
		return request, domainerrors.NewAppError(http.StatusBadGateway, "payout initiation failed; request remains processing", err)
	}

	logger.Info(ctx, "withdrawal approved and payout initiated",
		zap.String("withdrawal_id", request.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("gateway_reference", reference))

	return request, nil
}

// Complete marks a processing request as paid out and appends the single
// WITHDRAWAL_DEBIT entry in the same transaction. Completing an already
// completed request returns it unchanged without a second debit.
func (u *WithdrawalUsecase) Complete(ctx context.Context, id uuid.UUID, transactionID string, adminID uuid.UUID) (*entities.WithdrawalRequest, error) {
	if transactionID == "" {
		return nil, domainerrors.BadRequest("transaction id is required")
	}

	for attempt := 0; ; attempt++ {
		request, err := u.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if request.Status == entities.WithdrawalStatusCompleted {
			return request, nil
		}
		if request.Status != entities.WithdrawalStatusProcessing {
			return nil, domainerrors.ErrInvalidTransition
		}

		now := time.Now()
		request.Status = entities.WithdrawalStatusCompleted
		request.TransactionID.SetValid(transactionID)
		request.CompletedAt = &now
		request.ProcessedBy = &adminID

		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			if err := u.withdrawalRepo.Update(txCtx, request, request.Version); err != nil {
				return err
			}
			withdrawalID := request.ID
			entry := &entities.LedgerEntry{
				ID:                  uuid.New(),
				CreatorID:           request.CreatorID,
				Kind:                entities.LedgerKindWithdrawalDebit,
				Amount:              -request.RequestedAmount,
				RelatedWithdrawalID: &withdrawalID,
				CreatedAt:           now,
			}
			entry.IdempotencyKey.SetValid(fmt.Sprintf("withdrawal:%s:debit", request.ID))
			if err := u.ledgerRepo.Append(txCtx, entry); err != nil {
				return err
			}
			return u.ledgerRepo.AdjustSnapshot(txCtx, request.CreatorID, -request.RequestedAmount, 0)
		})
		if err == nil {
			metrics.WithdrawalTransitionCount.WithLabelValues(string(entities.WithdrawalStatusCompleted)).Inc()
			metrics.LedgerAppendCount.WithLabelValues(string(entities.LedgerKindWithdrawalDebit)).Inc()
			logger.Info(ctx, "withdrawal completed",
				zap.String("withdrawal_id", request.ID.String()),
				zap.String("transaction_id", transactionID),
				zap.Int64("debit", request.RequestedAmount))
			u.notify(ctx, EventWithdrawalCompleted, request.CreatorID, request.ID, "your withdrawal has been paid out")
			return request, nil
		}
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			// Debit already on the ledger from a concurrent completion.
			return u.withdrawalRepo.GetByID(ctx, id)
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("withdrawal").Inc()
			return nil, err
		}
	}
}

// Reject declines a pending or processing request with a mandatory reason.
// The reservation is released implicitly: rejected requests no longer count
// toward the creator's open withdrawal total. Rejecting an already rejected
// request is a no-op.
func (u *WithdrawalUsecase) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*entities.WithdrawalRequest, error) {
	if reason == "" {
		return nil, domainerrors.BadRequest("rejection reason is required")
	}

	for attempt := 0; ; attempt++ {
		request, err := u.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if request.Status == entities.WithdrawalStatusRejected {
			return request, nil
		}
		if request.Status == entities.WithdrawalStatusCompleted {
			return nil, domainerrors.ErrInvalidTransition
		}

		now := time.Now()
		request.Status = entities.WithdrawalStatusRejected
		request.RejectionReason.SetValid(reason)
		request.RejectedAt = &now
		request.ProcessedBy = &adminID

		err = u.withdrawalRepo.Update(ctx, request, request.Version)
		if err == nil {
			metrics.WithdrawalTransitionCount.WithLabelValues(string(entities.WithdrawalStatusRejected)).Inc()
			logger.Info(ctx, "withdrawal rejected",
				zap.String("withdrawal_id", request.ID.String()),
				zap.String("admin_id", adminID.String()),
				zap.String("reason", reason))
			u.notify(ctx, EventWithdrawalRejected, request.CreatorID, request.ID, reason)
			return request, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= maxCASRetries {
			metrics.ConflictRetryExhaustedCount.WithLabelValues("withdrawal").Inc()
			return nil, err
		}
	}
}

// Reverse credits a completed payout back to the creator, for transfers the
// bank later bounced. The request stays COMPLETED; the reversal is a new
// ledger entry, keyed so a double reversal cannot credit twice.
func (u *WithdrawalUsecase) Reverse(ctx context.Context, id, adminID uuid.UUID) (*entities.LedgerEntry, error) {
	request, err := u.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != entities.WithdrawalStatusCompleted {
		return nil, domainerrors.ErrInvalidTransition
	}

	key := fmt.Sprintf("withdrawal:%s:reversal", request.ID)
	if existing, err := u.ledgerRepo.GetByIdempotencyKey(ctx, key); err == nil {
		return existing, nil
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	withdrawalID := request.ID
	entry := &entities.LedgerEntry{
		ID:                  uuid.New(),
		CreatorID:           request.CreatorID,
		Kind:                entities.LedgerKindWithdrawalReversal,
		Amount:              request.RequestedAmount,
		RelatedWithdrawalID: &withdrawalID,
		CreatedAt:           time.Now(),
	}
	entry.IdempotencyKey.SetValid(key)

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.ledgerRepo.Append(txCtx, entry); err != nil {
			return err
		}
		return u.ledgerRepo.AdjustSnapshot(txCtx, request.CreatorID, request.RequestedAmount, 0)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return u.ledgerRepo.GetByIdempotencyKey(ctx, key)
		}
		return nil, err
	}

	metrics.LedgerAppendCount.WithLabelValues(string(entities.LedgerKindWithdrawalReversal)).Inc()
	logger.Warn(ctx, "withdrawal reversed",
		zap.String("withdrawal_id", request.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.Int64("amount", request.RequestedAmount))

	return entry, nil
}

// GetByID returns a single withdrawal request
func (u *WithdrawalUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	return u.withdrawalRepo.GetByID(ctx, id)
}

// ListByStatus returns the withdrawal queue for a status
func (u *WithdrawalUsecase) ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int64, error) {
	return u.withdrawalRepo.ListByStatus(ctx, status, limit, offset)
}

func (u *WithdrawalUsecase) notify(ctx context.Context, event string, creatorID, subjectID uuid.UUID, message string) {
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
