// Package metrics exposes Prometheus counters for the retrieval pipeline and
// the HTTP surface. A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "teammem"

const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

type Collector struct {
	registry *prometheus.Registry

	sourceFetches       *prometheus.CounterVec
	sourceDuration      *prometheus.HistogramVec
	syntheses           *prometheus.CounterVec
	embeddings          *prometheus.CounterVec
	vectorUpsertFailure prometheus.Counter
	ingested            *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// NewCollector registers everything on a private registry so tests and
// multiple instances never collide on the global one.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	f := promauto.With(reg)
	return &Collector{
		registry: reg,
		sourceFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_total",
			Help:      "Retrieval fetches per source and outcome",
		}, []string{"source", "status"}),
		sourceDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Retrieval fetch latency per source",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"source"}),
		syntheses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_total",
			Help:      "Answers produced per renderer",
		}, []string{"renderer"}),
		embeddings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_total",
			Help:      "Embedding attempts per strategy and outcome",
		}, []string{"strategy", "status"}),
		vectorUpsertFailure: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vector_upsert_failures_total",
			Help:      "Records stored without a vector",
		}),
		ingested: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_messages_total",
			Help:      "Chat messages turned into memories, by type",
		}, []string{"type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (c *Collector) SourceFetch(source, status string, took time.Duration) {
	if c == nil {
		return
	}
	c.sourceFetches.WithLabelValues(source, status).Inc()
	c.sourceDuration.WithLabelValues(source).Observe(took.Seconds())
}

func (c *Collector) Synthesis(renderer string) {
	if c == nil {
		return
	}
	c.syntheses.WithLabelValues(renderer).Inc()
}

func (c *Collector) Embedding(strategy, status string) {
	if c == nil {
		return
	}
	c.embeddings.WithLabelValues(strategy, status).Inc()
}

func (c *Collector) VectorUpsertFailed() {
	if c == nil {
		return
	}
	c.vectorUpsertFailure.Inc()
}

func (c *Collector) Ingested(memoryType string) {
	if c == nil {
		return
	}
	c.ingested.WithLabelValues(memoryType).Inc()
}

func (c *Collector) HTTPRequest(method, route string, status int, took time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
