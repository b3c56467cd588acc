package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSchedulingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveOperation("create", nil)
	m.ObserveOperation("create", errors.New("boom"))
	m.ObserveOperation("create", nil)
	m.ObserveConflict("update", "overlap")
	m.ObserveLockWait("create", 5*time.Millisecond)
	m.ObserveAuditDropped()

	if got := testutil.ToFloat64(m.operations.WithLabelValues("create", "ok")); got != 2 {
		t.Fatalf("ok operations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("create", "error")); got != 1 {
		t.Fatalf("error operations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.conflicts.WithLabelValues("update", "overlap")); got != 1 {
		t.Fatalf("conflicts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.auditDropped); got != 1 {
		t.Fatalf("audit dropped = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.lockWait); got != 1 {
		t.Fatalf("lock wait series = %d, want 1", got)
	}
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveOperation("create", nil)
	m.ObserveConflict("create", "storage")
	m.ObserveLockWait("create", time.Second)
	m.ObserveAuditDropped()
}
