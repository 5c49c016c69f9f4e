// Package metrics provides Prometheus metrics export for the intent pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "homebox"
	subsystem = "intent"
)

// PrometheusExporter exports pipeline metrics in Prometheus format.
// A nil *PrometheusExporter is valid and records nothing.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Parse metrics
	parseTotal   *prometheus.CounterVec
	parseLatency *prometheus.HistogramVec
	rewrites     prometheus.Counter

	// Cache metrics
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	// LLM metrics
	llmRequests *prometheus.CounterVec
	llmTokens   *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec

	// Executor metrics
	actions *prometheus.CounterVec

	// API metrics
	apiRequests *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.005, 0.05, 0.1, 0.5, 1, 2, 5, 10, 20, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.parseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "parse_total",
			Help:      "Total number of parsed sentences by parser source",
		},
		[]string{"source"},
	)

	e.parseLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "parse_latency_seconds",
			Help:      "Sentence parse latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"source"},
	)

	e.rewrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "location_rewrites_total",
			Help:      "Total number of action locations rewritten by the validator",
		},
	)

	e.cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	e.cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	e.llmRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Total number of LLM requests",
		},
		[]string{"purpose", "status"},
	)

	e.llmTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "token_type"},
	)

	e.llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"purpose"},
	)

	e.actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "actions_total",
			Help:      "Total number of executed actions",
		},
		[]string{"action", "status"},
	)

	e.apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"route", "code"},
	)

	registry.MustRegister(
		e.parseTotal,
		e.parseLatency,
		e.rewrites,
		e.cacheHits,
		e.cacheMisses,
		e.llmRequests,
		e.llmTokens,
		e.llmLatency,
		e.actions,
		e.apiRequests,
	)

	return e
}

// RecordParse records one parsed sentence.
func (e *PrometheusExporter) RecordParse(source string, latency time.Duration) {
	if e == nil {
		return
	}
	e.parseTotal.WithLabelValues(source).Inc()
	e.parseLatency.WithLabelValues(source).Observe(latency.Seconds())
}

// RecordRewrites records location rewrites done by the validator.
func (e *PrometheusExporter) RecordRewrites(count int) {
	if e == nil || count <= 0 {
		return
	}
	e.rewrites.Add(float64(count))
}

// RecordCacheHit records a cache hit.
func (e *PrometheusExporter) RecordCacheHit(cacheType string) {
	if e == nil {
		return
	}
	e.cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss.
func (e *PrometheusExporter) RecordCacheMiss(cacheType string) {
	if e == nil {
		return
	}
	e.cacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordLLMRequest records an LLM request and its latency.
func (e *PrometheusExporter) RecordLLMRequest(purpose string, latency time.Duration, success bool) {
	if e == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	e.llmRequests.WithLabelValues(purpose, status).Inc()
	e.llmLatency.WithLabelValues(purpose).Observe(latency.Seconds())
}

// RecordLLMTokens records LLM token usage.
func (e *PrometheusExporter) RecordLLMTokens(model, tokenType string, count int) {
	if e == nil || count <= 0 {
		return
	}
	e.llmTokens.WithLabelValues(model, tokenType).Add(float64(count))
}

// RecordAction records one executed action.
func (e *PrometheusExporter) RecordAction(action string, success bool) {
	if e == nil {
		return
	}
	status := "success"
	if !success {
		status = "failed"
	}
	e.actions.WithLabelValues(action, status).Inc()
}

// RecordAPIRequest records a served API request.
func (e *PrometheusExporter) RecordAPIRequest(route string, code int) {
	if e == nil {
		return
	}
	e.apiRequests.WithLabelValues(route, statusClass(code)).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
