// Package prometheus implements the cspx store metric bundle
// (internal/cspx/metrics.StoreMetrics) on top of
// github.com/prometheus/client_golang. It registers its constructor with
// the domain package's hook from init(), rather than the domain package
// importing this one, to avoid a package cycle.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/itdojp/cspx/internal/cspx/metrics"
)

func init() {
	metrics.RegisterStoreMetricsConstructor(NewStoreMetrics)
}

type storeMetrics struct {
	insertTotal      *prometheus.CounterVec
	containsTotal    *prometheus.CounterVec
	bytesWritten     prometheus.Counter
	openDuration     prometheus.Histogram
	lockWaitDuration *prometheus.HistogramVec
	indexLoad        *prometheus.CounterVec
	indexLoadLatency prometheus.Histogram
	indexRebuild     prometheus.Histogram
	indexEntries     prometheus.Histogram
	writeDuration    prometheus.Histogram
	writeBytes       prometheus.Histogram
}

// NewStoreMetrics returns a Prometheus-backed metrics.StoreMetrics
// registered against the active registry. Returns nil if metrics are not
// enabled (metrics.InitRegistry was never called).
func NewStoreMetrics() metrics.StoreMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &storeMetrics{
		insertTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cspx_store_insert_total",
				Help: "Total number of state store insert calls by outcome (new, collision)",
			},
			[]string{"outcome"},
		),
		containsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cspx_store_contains_total",
				Help: "Total number of state store contains calls by outcome (hit, miss)",
			},
			[]string{"outcome"},
		),
		bytesWritten: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "cspx_store_bytes_written_total",
				Help: "Total bytes of encoded state written to the log",
			},
		),
		openDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cspx_store_open_duration_seconds",
				Help:    "Duration of store Open calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		lockWaitDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cspx_store_lock_wait_duration_seconds",
				Help:    "Duration spent acquiring the disk store lock file, by contention",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"contended"},
		),
		indexLoad: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cspx_store_index_load_total",
				Help: "Total index-load attempts at Open by outcome (reused, rejected)",
			},
			[]string{"outcome"},
		),
		indexLoadLatency: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cspx_store_index_load_duration_seconds",
				Help:    "Duration of the index-reuse attempt at Open",
				Buckets: prometheus.DefBuckets,
			},
		),
		indexRebuild: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cspx_store_index_rebuild_duration_seconds",
				Help:    "Duration of a full rebuild-from-log pass at Open",
				Buckets: prometheus.DefBuckets,
			},
		),
		indexEntries: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cspx_store_index_rebuild_entries",
				Help:    "Number of entries recovered by a rebuild-from-log pass",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		writeDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cspx_store_write_duration_seconds",
				Help:    "Duration of one log+index append",
				Buckets: prometheus.DefBuckets,
			},
		),
		writeBytes: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cspx_store_write_bytes",
				Help:    "Size in bytes of one log append",
				Buckets: prometheus.ExponentialBuckets(16, 4, 10),
			},
		),
	}
}

func (m *storeMetrics) RecordInsert(isNew bool) {
	if m == nil {
		return
	}
	outcome := "collision"
	if isNew {
		outcome = "new"
	}
	m.insertTotal.WithLabelValues(outcome).Inc()
}

func (m *storeMetrics) RecordContains(hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.containsTotal.WithLabelValues(outcome).Inc()
}

func (m *storeMetrics) RecordBytes(n int) {
	if m == nil {
		return
	}
	m.bytesWritten.Add(float64(n))
}

func (m *storeMetrics) RecordOpen(d time.Duration) {
	if m == nil {
		return
	}
	m.openDuration.Observe(d.Seconds())
}

func (m *storeMetrics) RecordLockWait(d time.Duration, contended bool) {
	if m == nil {
		return
	}
	label := "false"
	if contended {
		label = "true"
	}
	m.lockWaitDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (m *storeMetrics) RecordIndexLoad(d time.Duration, reused bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if reused {
		outcome = "reused"
	}
	m.indexLoad.WithLabelValues(outcome).Inc()
	m.indexLoadLatency.Observe(d.Seconds())
}

func (m *storeMetrics) RecordIndexRebuild(d time.Duration, entries int) {
	if m == nil {
		return
	}
	m.indexRebuild.Observe(d.Seconds())
	m.indexEntries.Observe(float64(entries))
}

func (m *storeMetrics) RecordWrite(d time.Duration, bytes int) {
	if m == nil {
		return
	}
	m.writeDuration.Observe(d.Seconds())
	m.writeBytes.Observe(float64(bytes))
}

var _ metrics.StoreMetrics = (*storeMetrics)(nil)
