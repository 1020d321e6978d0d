package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// admin actions routed through the gateway, by action and outcome
	AdminActionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptmint_admin_actions_total",
			Help: "Total admin actions processed",
		},
		[]string{"action", "outcome"},
	)

	// ledger appends by entry kind
	LedgerAppendCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptmint_ledger_appends_total",
			Help: "Total ledger entries appended",
		},
		[]string{"kind"},
	)

	// withdrawal state transitions by target status
	WithdrawalTransitionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptmint_withdrawal_transitions_total",
			Help: "Total withdrawal request state transitions",
		},
		[]string{"status"},
	)

	// moderation auto-blocks applied without human review
	ModerationAutoBlockCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "promptmint_moderation_autoblocks_total",
			Help: "Total cases auto-blocked by keyword policy",
		},
	)

	// absolute drift between ledger fold and cached balance, per creator
	ReconciliationDrift = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "promptmint_ledger_reconciliation_drift",
			Help: "Absolute difference between entry fold and cached balance",
		},
		[]string{"creator"},
	)

	// compare-and-swap retries exhausted, by aggregate
	ConflictRetryExhaustedCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptmint_cas_retries_exhausted_total",
			Help: "Total operations that lost every CAS retry",
		},
		[]string{"aggregate"},
	)
)

// Register registers all collectors with the given registry
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		AdminActionCount,
		LedgerAppendCount,
		WithdrawalTransitionCount,
		ModerationAutoBlockCount,
		ReconciliationDrift,
		ConflictRetryExhaustedCount,
	)
}
