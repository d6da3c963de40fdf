// Package telemetry exposes Prometheus instruments for the relief core:
// stock movements, prescription outcomes, rollbacks and consistency faults.
// A nil *Metrics is valid and records nothing.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ---------------------------------------------------------------------------
// Label values
// ---------------------------------------------------------------------------

// Stock movement directions.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
	DirectionRestore  = "restore"
)

// Prescription outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomeRejected   = "rejected"
	OutcomeRolledBack = "rolled_back"
	OutcomeFaulted    = "faulted"
)

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

type Metrics struct {
	stockMovements    *prometheus.CounterVec
	stockUnits        *prometheus.CounterVec
	prescriptions     *prometheus.CounterVec
	rollbacks         prometheus.Counter
	rollbackFailures  prometheus.Counter
	consistencyFaults *prometheus.CounterVec
	quarantined       prometheus.Gauge
	txDuration        prometheus.Histogram
}

// New creates the instruments under namespace and registers them on reg.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		stockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "stock_movements_total",
			Help:      "Stock mutations applied to drugs, by direction.",
		}, []string{"direction"}),
		stockUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "stock_units_total",
			Help:      "Units of stock moved, by direction.",
		}, []string{"direction"}),
		prescriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prescription",
			Name:      "transactions_total",
			Help:      "Prescription transactions by outcome.",
		}, []string{"outcome"}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prescription",
			Name:      "rollbacks_total",
			Help:      "Rollbacks started after a failed commit.",
		}),
		rollbackFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prescription",
			Name:      "rollback_failures_total",
			Help:      "Individual stock restorations that failed during rollback.",
		}),
		consistencyFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consistency_faults_total",
			Help:      "Partially applied multi-store operations, by operation.",
		}, []string{"op"}),
		quarantined: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "quarantined_drugs",
			Help:      "Drugs frozen until their stock is reconciled.",
		}),
		txDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "prescription",
			Name:      "transaction_duration_seconds",
			Help:      "Wall time of prescription transactions.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New for wiring code that cannot recover from a duplicate registration.
func MustNew(namespace string, reg prometheus.Registerer) *Metrics {
	m, err := New(namespace, reg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.stockMovements,
		m.stockUnits,
		m.prescriptions,
		m.rollbacks,
		m.rollbackFailures,
		m.consistencyFaults,
		m.quarantined,
		m.txDuration,
	}
}

// ---------------------------------------------------------------------------
// Recorders
// ---------------------------------------------------------------------------

func (m *Metrics) StockMoved(direction string, qty int) {
	if m == nil {
		return
	}
	m.stockMovements.WithLabelValues(direction).Inc()
	m.stockUnits.WithLabelValues(direction).Add(float64(qty))
}

func (m *Metrics) PrescriptionOutcome(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.prescriptions.WithLabelValues(outcome).Inc()
	m.txDuration.Observe(seconds)
}

func (m *Metrics) RollbackStarted() {
	if m == nil {
		return
	}
	m.rollbacks.Inc()
}

func (m *Metrics) RollbackFailed() {
	if m == nil {
		return
	}
	m.rollbackFailures.Inc()
}

func (m *Metrics) ConsistencyFault(op string) {
	if m == nil {
		return
	}
	m.consistencyFaults.WithLabelValues(op).Inc()
}

// SetQuarantined reports the current number of quarantined drugs.
func (m *Metrics) SetQuarantined(n int) {
	if m == nil {
		return
	}
	m.quarantined.Set(float64(n))
}
