// Package middleware provides cross-cutting concerns for the analysis
// engine, currently the Prometheus-backed metrics collector.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/raftai/engine/internal/ports"
)

// PrometheusMetrics implements ports.MetricsCollector using Prometheus.
// It exposes analysis outcomes per domain and path, LLM request traffic,
// and token consumption.
type PrometheusMetrics struct {
	analysisTotal    *prometheus.CounterVec
	llmRequestsTotal *prometheus.CounterVec
	llmTokensTotal   *prometheus.CounterVec
	llmLatency       *prometheus.HistogramVec
	operationLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	stateGauges      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a collector and registers its metrics with
// reg. A nil registerer uses the default global registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		analysisTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_total",
				Help: "Completed analyses by domain and path (primary, fallback, degraded).",
			},
			[]string{"domain", "path"},
		),
		llmRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "LLM requests by model and outcome status.",
			},
			[]string{"model", "status"},
		),
		llmTokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Tokens consumed by model and direction.",
			},
			[]string{"model", "token_type"},
		),
		llmLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_latency_seconds",
				Help:    "LLM request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model", "status"},
		),
		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_operation_duration_seconds",
				Help:    "Latency of engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_operations_total",
				Help: "Engine operations not covered by a dedicated counter.",
			},
			[]string{"operation"},
		),
		stateGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "engine_state",
				Help: "Current engine state values.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency records operation latency in a histogram.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter routes named counters to their dedicated metric, with a
// generic operations counter as the catch-all.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "analysis_total":
		pm.analysisTotal.WithLabelValues(labels["domain"], labels["path"]).Add(value)
	case "llm_requests_total":
		pm.llmRequestsTotal.WithLabelValues(labels["model"], labels["status"]).Add(value)
	case "llm_tokens_total":
		pm.llmTokensTotal.WithLabelValues(labels["model"], labels["token_type"]).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric).Add(value)
	}
}

// RecordGauge sets a state gauge.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.stateGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram routes named histograms; unknown names land in the
// operation latency histogram.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	switch metric {
	case "llm_latency_seconds":
		pm.llmLatency.WithLabelValues(labels["model"], labels["status"]).Observe(value)
	default:
		pm.operationLatency.WithLabelValues(metric).Observe(value)
	}
}

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
