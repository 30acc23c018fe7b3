package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream and overlay Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearwiki",
			Name:      "upstream_requests_total",
			Help:      "Total number of requests to the article API",
		},
		[]string{"stage", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nearwiki",
			Name:      "upstream_request_duration_seconds",
			Help:      "Article API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"stage"},
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearwiki",
			Name:      "upstream_errors_total",
			Help:      "Total article API errors",
		},
		[]string{"stage", "error_type"},
	)

	NearbyResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nearwiki",
			Name:      "nearby_results",
			Help:      "Number of items returned per nearby search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	MarkersAddedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nearwiki",
			Name:      "markers_added_total",
			Help:      "Total markers added to map views",
		},
	)

	HighlightsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearwiki",
			Name:      "highlights_total",
			Help:      "Marker highlight requests",
		},
		[]string{"result"}, // "found" / "not_found" / "error"
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers upstream and overlay metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(UpstreamErrorsTotal)
	prometheus.MustRegister(NearbyResults)
	prometheus.MustRegister(MarkersAddedTotal)
	prometheus.MustRegister(HighlightsTotal)
	upstreamMetricsRegistered = true
}
