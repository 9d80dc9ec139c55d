// Package metrics exposes the service's Prometheus instrumentation on a
// custom registry, keeping the default Go collectors out of the scrape.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Manager struct {
	registry *prometheus.Registry

	extractionsTotal   *prometheus.CounterVec
	llmRequestDuration prometheus.Histogram
	shortlistQueries   prometheus.Counter
	chatRequests       *prometheus.CounterVec
}

// Extraction outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeError   = "error"
)

func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		extractionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrinsight",
			Name:      "extractions_total",
			Help:      "Resume extractions by outcome.",
		}, []string{"outcome"}),
		llmRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hrinsight",
			Name:      "llm_request_duration_seconds",
			Help:      "Latency of LLM vendor calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		shortlistQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hrinsight",
			Name:      "shortlist_queries_total",
			Help:      "Recommendation and dashboard queries served.",
		}),
		chatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrinsight",
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordExtraction(outcome string) {
	m.extractionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Manager) ObserveLLMRequest(start time.Time) {
	m.llmRequestDuration.Observe(time.Since(start).Seconds())
}

func (m *Manager) RecordShortlistQuery() {
	m.shortlistQueries.Inc()
}

func (m *Manager) RecordChat(err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.chatRequests.WithLabelValues(outcome).Inc()
}
