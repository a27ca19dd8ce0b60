// Package metrics exposes Prometheus counters for the ingestion pipeline.
//
// Metrics live in a dedicated registry rather than the global default so
// tests and embedders get a clean set, and so the HTTP handler only serves
// blockd's own series.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for Validations.
const (
	OutcomeValid        = "valid"
	OutcomeInvalid      = "invalid"
	OutcomeSanitization = "sanitization"
)

// Registry holds every blockd metric.
var Registry = prometheus.NewRegistry()

var (
	// Validations counts pipeline runs by mode (create, update) and outcome.
	Validations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockd_validations_total",
			Help: "Content pipeline runs by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// FieldErrors counts validation messages by top-level field.
	FieldErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockd_field_errors_total",
			Help: "Validation messages by top-level field",
		},
		[]string{"field"},
	)

	// BlocksProcessed observes the number of blocks per sanitized request.
	BlocksProcessed = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blockd_blocks_per_request",
			Help:    "Blocks per sanitized content request",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 20},
		},
	)

	// ItemEvents counts committed store changes by event type.
	ItemEvents = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockd_item_events_total",
			Help: "Committed item changes by event type",
		},
		[]string{"event"},
	)
)

// Handler returns an HTTP handler serving the blockd registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
