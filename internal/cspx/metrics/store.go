// Package metrics is the store metric bundle: a domain
// interface (StoreMetrics, satisfying store.Metrics) plus a constructor
// that returns a Prometheus-backed implementation when enabled and nil
// otherwise, the nil-means-disabled convention every store backend
// already honours via store.Metrics.
//
// This package never imports its own metrics/prometheus subpackage: the
// concrete constructor is installed into newPrometheusStoreMetrics by that
// subpackage's init(), the same registration-hook indirection used
// elsewhere in the pack to keep the domain interface and its Prometheus
// backing free of a direct import cycle.
package metrics

import (
	"time"

	"github.com/itdojp/cspx/internal/cspx/store"
)

// StoreMetrics extends store.Metrics with the rest of the bundle: open
// time, lock wait/contention, index load/rebuild timings and counts, and
// per-write timings, none of which the minimal Contains/Insert/Bytes
// contract every store.Store implementation needs; only the disk backend
// records them.
type StoreMetrics interface {
	store.Metrics

	// RecordOpen reports how long Open took end-to-end.
	RecordOpen(d time.Duration)

	// RecordLockWait reports how long acquiring the lock file took, and
	// whether the O_EXCL create had to retry against an existing lock.
	RecordLockWait(d time.Duration, contended bool)

	// RecordIndexLoad reports the outcome of Open's index-reuse attempt:
	// reused=true means the on-disk index's header matched the log length
	// and was loaded directly; reused=false means it was rejected (stale,
	// missing, or corrupt) and a rebuild followed.
	RecordIndexLoad(d time.Duration, reused bool)

	// RecordIndexRebuild reports a full rebuild-from-log pass: its
	// duration and how many entries it recovered.
	RecordIndexRebuild(d time.Duration, entries int)

	// RecordWrite reports one append to the log+index pair: its duration
	// and the number of bytes appended to the log.
	RecordWrite(d time.Duration, bytes int)
}

// newPrometheusStoreMetrics is installed by metrics/prometheus's init();
// left nil means no Prometheus build tag/import has run yet, equivalent to
// metrics being unavailable.
var newPrometheusStoreMetrics func() StoreMetrics

// RegisterStoreMetricsConstructor installs the Prometheus-backed
// constructor. Called from metrics/prometheus's init().
func RegisterStoreMetricsConstructor(constructor func() StoreMetrics) {
	newPrometheusStoreMetrics = constructor
}

// NewStoreMetrics returns a Prometheus-backed StoreMetrics, or nil if
// metrics are disabled (InitRegistry was never called) or no backend has
// registered a constructor. A nil result is safe to hand to the store
// constructors, which replace a nil Metrics with store.NullMetrics{}.
func NewStoreMetrics() StoreMetrics {
	if !IsEnabled() || newPrometheusStoreMetrics == nil {
		return nil
	}
	return newPrometheusStoreMetrics()
}
