package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CatalogRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Count of TMDB catalog requests",
		},
		[]string{"endpoint", "status"}, // ok / error
	)
	CatalogDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Time taken by TMDB catalog requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"endpoint"},
	)
	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_operations_total",
			Help: "Catalog cache lookups by cache and result",
		},
		[]string{"cache", "result"}, // hit / miss
	)
	WatchlistOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchlist_operations_total",
			Help: "Count of watchlist operations",
		},
		[]string{"operation", "status"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "browse_sessions_active",
			Help: "Current number of browse sessions held in memory",
		},
	)
	StaleResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paginator_stale_responses_total",
			Help: "Responses discarded because the list moved to a newer generation",
		},
	)
)

var once sync.Once

// Init 注册所有指标，可重复调用
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			CatalogRequests,
			CatalogDuration,
			CacheOperations,
			WatchlistOperations,
			ActiveSessions,
			StaleResponses,
		)
	})
}
