// Package metrics holds the Prometheus collectors shared by the AI gateway
// and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pawpulse"

// Label values used across the gateway collectors.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"

	StatusOK    = "ok"
	StatusError = "error"
)

var (
	// CacheLookups counts response cache lookups by template and result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_lookups_total",
			Help:      "Response cache lookups by template and result (hit/miss)",
		},
		[]string{"template", "result"},
	)

	// ProviderRequests counts calls made to the generative model.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Generative model calls by template and status",
		},
		[]string{"template", "status"},
	)

	// ProviderLatency tracks how long generative model calls take.
	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Generative model call latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"template"},
	)

	// DedupedRequests counts callers that joined an in-flight call instead of
	// issuing their own.
	DedupedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_deduplicated_total",
			Help:      "Callers served by a shared in-flight model call",
		},
		[]string{"template"},
	)

	// RateLimited counts requests rejected by the per-IP limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-IP rate limiter",
		},
	)
)
