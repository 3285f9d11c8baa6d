package router

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// routerMetrics contains Prometheus metrics for the routing core.
type routerMetrics struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration prometheus.Histogram

	regexCacheHits      prometheus.Counter
	regexCacheMisses    prometheus.Counter
	regexCacheEvictions prometheus.Counter
	regexCacheSize      prometheus.Gauge
}

// Resolution strategy label values.
const (
	strategyMethod    = "method"
	strategyCompleted = "completed"
	strategyDefault   = "default"
	strategyMiss      = "miss"
)

var (
	routerMetricsInstance *routerMetrics
	routerMetricsOnce     sync.Once
)

// RegisterMetrics registers the routing collectors with a custom registry.
// promauto registers with the default global registry; the service exposes
// /metrics from its own, so this bridges the two.
func RegisterMetrics(registry *prometheus.Registry) {
	m := getRouterMetrics()
	registry.MustRegister(
		m.resolutionsTotal,
		m.resolutionDuration,
		m.regexCacheHits,
		m.regexCacheMisses,
		m.regexCacheEvictions,
		m.regexCacheSize,
	)
}

// getRouterMetrics returns the singleton router metrics instance.
func getRouterMetrics() *routerMetrics {
	routerMetricsOnce.Do(func() {
		routerMetricsInstance = &routerMetrics{
			resolutionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "restroute",
					Subsystem: "router",
					Name:      "resolutions_total",
					Help:      "Total number of route resolutions by strategy",
				},
				[]string{"strategy"},
			),
			resolutionDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "restroute",
					Subsystem: "router",
					Name:      "resolution_duration_seconds",
					Help:      "Route resolution duration in seconds",
					Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
				},
			),
			regexCacheHits: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "restroute",
					Subsystem: "router",
					Name:      "regex_cache_hits_total",
					Help:      "Total number of regex cache hits",
				},
			),
			regexCacheMisses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "restroute",
					Subsystem: "router",
					Name:      "regex_cache_misses_total",
					Help:      "Total number of regex cache misses",
				},
			),
			regexCacheEvictions: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "restroute",
					Subsystem: "router",
					Name:      "regex_cache_evictions_total",
					Help:      "Total number of regex cache evictions",
				},
			),
			regexCacheSize: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "restroute",
					Subsystem: "router",
					Name:      "regex_cache_size",
					Help:      "Current number of entries in the regex cache",
				},
			),
		}
	})

	return routerMetricsInstance
}
