package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the news board service.
// All counters and histograms are registered via promauto for automatic
// registration with the default Prometheus registry.
type Metrics struct {
	// HTTPRequestsTotal counts HTTP requests, labeled by method, route pattern, and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request duration in seconds, labeled by method and route pattern.
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInFlight tracks the number of requests currently being served.
	HTTPRequestsInFlight prometheus.Gauge

	// ArticlesListed counts article list queries, labeled by whether a topic filter was applied.
	ArticlesListed *prometheus.CounterVec

	// VotesApplied counts vote mutations, labeled by entity (article, comment).
	VotesApplied *prometheus.CounterVec
}

// NewMetrics creates and registers all service metrics under the given
// namespace. Production code passes "newsboard"; tests pass unique
// namespaces to avoid global registry conflicts.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served.",
			},
		),
		ArticlesListed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "articles_listed_total",
				Help:      "Total number of article list queries, by topic filter presence.",
			},
			[]string{"filtered"},
		),
		VotesApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_applied_total",
				Help:      "Total number of vote mutations, by entity.",
			},
			[]string{"entity"},
		),
	}
}
