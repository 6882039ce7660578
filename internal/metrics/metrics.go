// Package metrics holds the Prometheus collectors for the service and the
// handler that exposes them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, chi route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ItineraryGenerationsTotal counts planner runs by outcome:
	// ok, no_candidates, catalog_error or store_error.
	ItineraryGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinerary_generations_total",
			Help: "Total number of itinerary generation attempts",
		},
		[]string{"result"},
	)

	ItineraryGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itinerary_generation_duration_seconds",
			Help:    "Time spent planning an itinerary, excluding catalog fetch and persistence",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of activity catalog lookups by source and result",
		},
		[]string{"source", "result"},
	)

	// CatalogBreakerState is 0 closed, 1 half-open, 2 open.
	CatalogBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_circuit_breaker_state",
			Help: "Circuit breaker state of the remote catalog (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordGeneration records the outcome of one itinerary request.
func RecordGeneration(result string, d time.Duration) {
	ItineraryGenerationsTotal.WithLabelValues(result).Inc()
	if result == "ok" {
		ItineraryGenerationDuration.Observe(d.Seconds())
	}
}

func RecordCatalogRequest(source string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CatalogRequestsTotal.WithLabelValues(source, result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
