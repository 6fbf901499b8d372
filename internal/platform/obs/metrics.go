package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog calls that reached the network, by endpoint and outcome
	// (ok, error, not_found, timeout).
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localfinder_catalog_requests_total",
			Help: "Catalog HTTP calls issued, by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// Callers that joined an identical in-flight request instead of issuing one.
	CatalogCoalesced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localfinder_catalog_coalesced_total",
			Help: "Catalog calls served by an identical in-flight request",
		},
		[]string{"endpoint"},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localfinder_catalog_cache_hits_total",
			Help: "Catalog calls served from the response cache",
		},
		[]string{"endpoint"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localfinder_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localfinder_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)
