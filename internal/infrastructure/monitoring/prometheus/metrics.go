// Package prometheus holds the application metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes all metric names.
const DefaultNamespace = "ensearch"

var defaultDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics bundles the collectors of the search service on a private
// registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Annotation pipeline
	AnnotationStageDuration *prometheus.HistogramVec
	AnnotationsTotal        prometheus.Counter

	// Semantic enrichment
	SemanticQueriesTotal  *prometheus.CounterVec
	SemanticQueryDuration *prometheus.HistogramVec

	// Document search
	DocumentSearchDuration prometheus.Histogram
	DocumentSearchHits     prometheus.Histogram
}

// NewMetrics registers all collectors under the given namespace.  An empty
// namespace falls back to DefaultNamespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()
	factory := newFactory(registry)

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = factory.counterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests",
	}, "method", "path", "status_code")

	m.HTTPRequestDuration = factory.histogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   defaultDurationBuckets,
	}, "method", "path")

	m.AnnotationStageDuration = factory.histogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "annotation_stage_duration_seconds",
		Help:      "Duration of a single annotation stage",
		Buckets:   defaultDurationBuckets,
	}, "stage")

	m.AnnotationsTotal = factory.counter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "annotations_total",
		Help:      "Total annotated queries",
	})

	m.SemanticQueriesTotal = factory.counterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "semantic_queries_total",
		Help:      "Total semantic knowledge-base queries",
	}, "engine", "status")

	m.SemanticQueryDuration = factory.histogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "semantic_query_duration_seconds",
		Help:      "Duration of a semantic knowledge-base query",
		Buckets:   defaultDurationBuckets,
	}, "engine")

	m.DocumentSearchDuration = factory.histogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_search_duration_seconds",
		Help:      "Duration of a document search",
		Buckets:   defaultDurationBuckets,
	})

	m.DocumentSearchHits = factory.histogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_search_hits",
		Help:      "Number of hits per document search",
		Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
	})

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry exposes the underlying registry, e.g. for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records a finished HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, statusCode string, took time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(took.Seconds())
}

// factory keeps the registration one-liners readable.
type factory struct {
	registry *prometheus.Registry
}

func newFactory(registry *prometheus.Registry) factory {
	return factory{registry: registry}
}

func (f factory) counter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	f.registry.MustRegister(c)
	return c
}

func (f factory) counterVec(opts prometheus.CounterOpts, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	f.registry.MustRegister(c)
	return c
}

func (f factory) histogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	f.registry.MustRegister(h)
	return h
}

func (f factory) histogramVec(opts prometheus.HistogramOpts, labels ...string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	f.registry.MustRegister(h)
	return h
}
