package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulingMetrics exposes counters/histograms for appointment operations.
// A nil *SchedulingMetrics is valid and records nothing.
type SchedulingMetrics struct {
	operations   *prometheus.CounterVec
	conflicts    *prometheus.CounterVec
	lockWait     *prometheus.HistogramVec
	auditDropped prometheus.Counter
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spa",
			Subsystem: "scheduling",
			Name:      "operations_total",
			Help:      "Appointment operations by outcome",
		}, []string{"operation", "outcome"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spa",
			Subsystem: "scheduling",
			Name:      "conflicts_total",
			Help:      "Bookings rejected because the slot was taken",
		}, []string{"operation", "source"}),
		lockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spa",
			Subsystem: "scheduling",
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for the per-day booking lock",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		auditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spa",
			Subsystem: "audit",
			Name:      "dropped_total",
			Help:      "Audit events dropped because the queue was full",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operations, m.conflicts, m.lockWait, m.auditDropped)
	return m
}

func (m *SchedulingMetrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveConflict records a rejected booking. source is "overlap" when the
// engine found it, "storage" when the database constraint did and "lock" when
// the day stayed locked for the whole wait.
func (m *SchedulingMetrics) ObserveConflict(operation, source string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(operation, source).Inc()
}

func (m *SchedulingMetrics) ObserveLockWait(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *SchedulingMetrics) ObserveAuditDropped() {
	if m == nil {
		return
	}
	m.auditDropped.Inc()
}
