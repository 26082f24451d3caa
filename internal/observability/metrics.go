// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the Prometheus collectors for the query pipeline.
type Metrics struct {
	LLMRequests   *prometheus.CounterVec
	LLMLatency    *prometheus.HistogramVec
	Retrievals    *prometheus.CounterVec
	SQLExecutions *prometheus.CounterVec
	IndexedItems  *prometheus.CounterVec
}

// NewMetrics registers the pipeline collectors with reg and returns them.
// Pass prometheus.NewRegistry() in tests to avoid global-registry
// collisions.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LLMRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlmind_llm_requests_total",
			Help: "LLM requests by provider and status.",
		}, []string{"provider", "status"}),
		LLMLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sqlmind_llm_request_seconds",
			Help:    "LLM request latency in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"provider"}),
		Retrievals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlmind_retrievals_total",
			Help: "Store retrievals by item kind.",
		}, []string{"kind"}),
		SQLExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlmind_sql_executions_total",
			Help: "SQL executions by outcome.",
		}, []string{"status"}),
		IndexedItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlmind_indexed_items_total",
			Help: "Items added to the store by kind.",
		}, []string{"kind"}),
	}
}

// Handler returns an HTTP handler exposing the collectors gathered by g
// in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ServeMetrics exposes g on addr at /metrics. It blocks until the
// listener fails, so callers run it in a goroutine.
func ServeMetrics(addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	return http.ListenAndServe(addr, mux)
}

// ObserveLLMRequest records one LLM call.
func (m *Metrics) ObserveLLMRequest(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMRequests.WithLabelValues(provider, status).Inc()
	m.LLMLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveRetrieval records one store lookup for the item kind.
func (m *Metrics) ObserveRetrieval(kind string) {
	if m == nil {
		return
	}
	m.Retrievals.WithLabelValues(kind).Inc()
}

// ObserveSQLExecution records one query execution outcome.
func (m *Metrics) ObserveSQLExecution(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SQLExecutions.WithLabelValues(status).Inc()
}

// ObserveIndexed records one item added to the store.
func (m *Metrics) ObserveIndexed(kind string) {
	if m == nil {
		return
	}
	m.IndexedItems.WithLabelValues(kind).Inc()
}
