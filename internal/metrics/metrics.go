// internal/metrics/metrics.go

// Package metrics declares the Prometheus instruments for the accounting
// core. Instruments register themselves via promauto at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerEntriesTotal counts committed ledger entries by type and direction.
	LedgerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "investflow_ledger_entries_total",
		Help: "Total committed ledger entries",
	}, []string{"type", "direction"})

	// WalletMutationDuration observes how long a wallet mutation transaction takes.
	WalletMutationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "investflow_wallet_mutation_duration_seconds",
		Help:    "Wallet mutation transaction latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	// PayoutsPaidTotal counts payouts that reached the paid state.
	PayoutsPaidTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "investflow_payouts_paid_total",
		Help: "Total payouts settled",
	})

	// WithdrawalsTotal counts withdrawal requests by terminal status.
	WithdrawalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "investflow_withdrawals_total",
		Help: "Total withdrawals by outcome",
	}, []string{"status"})

	// InvestmentsActivatedTotal counts approved investments.
	InvestmentsActivatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "investflow_investments_activated_total",
		Help: "Total investments activated",
	})
)
