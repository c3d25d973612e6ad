// Package metrics exposes Prometheus collectors for ingestion and analytics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crimegraph"

const (
	OutcomeInserted = "inserted"
	OutcomeUpdated  = "updated"
	OutcomeError    = "error"
)

var (
	IngestRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_rows_total",
			Help:      "Ingested rows by record kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of ingestion and analytic operations.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(IngestRows, OperationDuration)
}

// Registry returns the registry holding the crimegraph collectors.
func Registry() *prometheus.Registry { return registry }

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveOperation records how long an operation took. Use it as
//
//	defer metrics.ObserveOperation("detect-kingpins", time.Now(), &err)
func ObserveOperation(operation string, start time.Time, errp *error) {
	status := "ok"
	if errp != nil && *errp != nil {
		status = "error"
	}
	OperationDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
