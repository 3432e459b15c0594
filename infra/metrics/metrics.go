// Package metrics exposes prometheus instrumentation for the rate cache, the
// upstream provider and conversion outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fxconvert"

// Cache lookup results.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheError   = "error"
	CacheCorrupt = "corrupt"
)

// Cache write results.
const (
	CacheStored     = "stored"
	CacheSkipped    = "skipped"
	CacheWriteError = "error"
)

type Metrics struct {
	CacheLookups     *prometheus.CounterVec
	CacheWrites      *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	Conversions      *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests
// to avoid collisions on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_lookups_total",
				Help:      "Rate table cache lookups by result",
			},
			[]string{"result"},
		),
		CacheWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_writes_total",
				Help:      "Rate table cache writes by result (stored, skipped, error)",
			},
			[]string{"result"},
		),
		UpstreamRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Calls to the upstream rate provider by outcome",
			},
			[]string{"provider", "outcome"},
		),
		UpstreamDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Latency of upstream rate provider calls",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Conversions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Conversion requests by HTTP status",
			},
			[]string{"status"},
		),
	}
}

// Nop returns metrics bound to a throwaway registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ObserveCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCacheWrite(result string) {
	m.CacheWrites.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveUpstream(provider, outcome string, started time.Time) {
	m.UpstreamRequests.WithLabelValues(provider, outcome).Inc()
	m.UpstreamDuration.Observe(time.Since(started).Seconds())
}
