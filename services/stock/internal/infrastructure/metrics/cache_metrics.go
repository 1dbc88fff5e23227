// Package metrics exposes cache behaviour as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/grayson061030/stockapi/pkg/cache"
)

const namespace = "stock"

// StatsSource reports the current cache census.
type StatsSource interface {
	Stats() cache.Stats
}

// CacheMetrics counts cache lookups and evictions and reports cache size on scrape.
// It implements cache.Recorder.
type CacheMetrics struct {
	lookups   *prometheus.CounterVec
	evictions *prometheus.CounterVec
	entries   *prometheus.Desc
	source    StatsSource
}

var _ cache.Recorder = (*CacheMetrics)(nil)

// NewCacheMetrics creates the cache collectors and registers them with reg.
func NewCacheMetrics(reg prometheus.Registerer, source StatsSource) (*CacheMetrics, error) {
	m := &CacheMetrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Read-through cache lookups by key namespace and result.",
		}, []string{"namespace", "result"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evicted_entries_total",
			Help:      "Entries removed by explicit invalidation, by reason.",
		}, []string{"reason"}),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Entries currently held by the cache, by liveness.",
			[]string{"state"}, nil,
		),
		source: source,
	}

	for _, c := range []prometheus.Collector{m.lookups, m.evictions, m} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hit records a cache hit.
func (m *CacheMetrics) Hit(ns string) {
	m.lookups.WithLabelValues(ns, "hit").Inc()
}

// Miss records a cache miss.
func (m *CacheMetrics) Miss(ns string) {
	m.lookups.WithLabelValues(ns, "miss").Inc()
}

// Evicted records n entries removed for reason.
func (m *CacheMetrics) Evicted(reason string, n int) {
	if n > 0 {
		m.evictions.WithLabelValues(reason).Add(float64(n))
	}
}

// Describe implements prometheus.Collector for the entries gauge.
func (m *CacheMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.entries
}

// Collect implements prometheus.Collector for the entries gauge.
func (m *CacheMetrics) Collect(ch chan<- prometheus.Metric) {
	if m.source == nil {
		return
	}
	stats := m.source.Stats()
	ch <- prometheus.MustNewConstMetric(m.entries, prometheus.GaugeValue, float64(stats.ValidEntries), "valid")
	ch <- prometheus.MustNewConstMetric(m.entries, prometheus.GaugeValue, float64(stats.ExpiredEntries), "expired")
}
