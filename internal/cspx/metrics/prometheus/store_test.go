package prometheus_test

import (
	"testing"
	"time"

	"github.com/itdojp/cspx/internal/cspx/metrics"
	_ "github.com/itdojp/cspx/internal/cspx/metrics/prometheus"
)

func TestNewStoreMetricsRegistersOnEnabledRegistry(t *testing.T) {
	metrics.InitRegistry()

	sm := metrics.NewStoreMetrics()
	if sm == nil {
		t.Fatal("NewStoreMetrics() = nil with registry enabled and prometheus backend imported")
	}

	sm.RecordInsert(true)
	sm.RecordContains(false)
	sm.RecordBytes(128)
	sm.RecordOpen(time.Millisecond)
	sm.RecordLockWait(time.Microsecond, true)
	sm.RecordIndexLoad(time.Microsecond, false)
	sm.RecordIndexRebuild(time.Millisecond, 42)
	sm.RecordWrite(time.Microsecond, 64)
}

