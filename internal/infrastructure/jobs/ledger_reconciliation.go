package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"promptmint.backend/internal/usecases"
	"promptmint.backend/pkg/logger"
)

// LedgerReconciliationJob periodically folds every creator's ledger entries
// and compares the result against the materialized balance cache. Drift is
// reported, never repaired: a mismatch means a bug in a write path.
type LedgerReconciliationJob struct {
	ledger   *usecases.LedgerUsecase
	interval time.Duration
	stop     chan struct{}
}

func NewLedgerReconciliationJob(ledger *usecases.LedgerUsecase, interval time.Duration) *LedgerReconciliationJob {
	return &LedgerReconciliationJob{
		ledger:   ledger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *LedgerReconciliationJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting ledger reconciliation job",
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "ledger reconciliation job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "ledger reconciliation job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *LedgerReconciliationJob) Stop() {
	close(j.stop)
}

func (j *LedgerReconciliationJob) runOnce(ctx context.Context) {
	results, err := j.ledger.Reconcile(ctx)
	if err != nil {
		logger.Error(ctx, "ledger reconciliation run failed", zap.Error(err))
		return
	}

	drifted := 0
	for _, r := range results {
		if r.Drift != 0 {
			drifted++
		}
	}
	if drifted > 0 {
		logger.Warn(ctx, "ledger reconciliation found drift",
			zap.Int("creators", len(results)),
			zap.Int("drifted", drifted))
		return
	}
	logger.Debug(ctx, "ledger reconciliation clean",
		zap.Int("creators", len(results)))
}
