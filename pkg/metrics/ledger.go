package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records ledger mutations and reconciliation queue activity.
type LedgerMetrics struct {
	mutations     *prometheus.CounterVec
	queueDepth    prometheus.Gauge
	drainDuration prometheus.Histogram
	notifications *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_mutations_total",
		Help: "Inventory ledger mutations by operation.",
	}, []string{"operation"})
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pending_sync_queue_depth",
		Help: "Number of mutations queued for reconciliation.",
	})
	drainDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sync_drain_duration_seconds",
		Help:    "Duration of reconciliation drains in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shell_notifications_total",
		Help: "Notifications surfaced to the device shell by kind.",
	}, []string{"kind"})
	reg.MustRegister(mutations, queueDepth, drainDuration, notifications)
	return &LedgerMetrics{
		mutations:     mutations,
		queueDepth:    queueDepth,
		drainDuration: drainDuration,
		notifications: notifications,
	}
}

// IncMutation counts one ledger mutation for the named operation.
func (m *LedgerMetrics) IncMutation(operation string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// SetQueueDepth records the current pending-sync queue length.
func (m *LedgerMetrics) SetQueueDepth(depth int) {
	if m == nil || m.queueDepth == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

// ObserveDrain records how long a reconciliation drain took.
func (m *LedgerMetrics) ObserveDrain(duration time.Duration) {
	if m == nil || m.drainDuration == nil {
		return
	}
	m.drainDuration.Observe(duration.Seconds())
}

// IncNotification counts a surfaced shell notification by kind.
func (m *LedgerMetrics) IncNotification(kind string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
