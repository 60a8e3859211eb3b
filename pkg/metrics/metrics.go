package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics counts the money-moving operations of the platform.
type SettlementMetrics struct {
	ordersSettled   *prometheus.CounterVec
	topupsApplied   *prometheus.CounterVec
	bankTxsIngested *prometheus.CounterVec
}

// NewSettlementMetrics registers the settlement counters on the provided
// registerer. A nil registerer yields a no-op instance, which keeps the
// services free of nil checks.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	ordersSettled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_settled_total",
		Help: "Orders settled against store wallets, by outcome.",
	}, []string{"outcome"})
	topupsApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "topups_applied_total",
		Help: "Top-up credits applied, by reference type.",
	}, []string{"ref_type"})
	bankTxsIngested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_transactions_ingested_total",
		Help: "Incoming bank transactions ingested, by match outcome.",
	}, []string{"outcome"})
	reg.MustRegister(ordersSettled, topupsApplied, bankTxsIngested)
	return &SettlementMetrics{
		ordersSettled:   ordersSettled,
		topupsApplied:   topupsApplied,
		bankTxsIngested: bankTxsIngested,
	}
}

// IncOrderSettled records an order settlement attempt outcome
// ("settled", "insufficient_funds", "rejected").
func (m *SettlementMetrics) IncOrderSettled(outcome string) {
	if m == nil || m.ordersSettled == nil {
		return
	}
	m.ordersSettled.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncTopupApplied records an applied top-up credit by ref type.
func (m *SettlementMetrics) IncTopupApplied(refType string) {
	if m == nil || m.topupsApplied == nil {
		return
	}
	m.topupsApplied.WithLabelValues(normalizeLabel(refType)).Inc()
}

// IncBankTxIngested records a bank ingestion outcome
// ("matched", "unmatched", "duplicate").
func (m *SettlementMetrics) IncBankTxIngested(outcome string) {
	if m == nil || m.bankTxsIngested == nil {
		return
	}
	m.bankTxsIngested.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
