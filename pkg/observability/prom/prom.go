// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/sliced/pkg/observability"
)

// Metrics collects pipeline, cache and server metrics. It implements
// every hook interface of the observability package.
type Metrics struct {
	layouts        *prometheus.CounterVec
	layoutLatency  prometheus.Histogram
	pagesPerLayout prometheus.Histogram
	renders        *prometheus.CounterVec
	renderLatency  *prometheus.HistogramVec
	renderBytes    *prometheus.CounterVec
	cacheOps       *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. When reg also
// implements prometheus.Gatherer (as *prometheus.Registry does) Handler
// serves exactly these metrics; otherwise it serves the default gatherer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sliced",
			Name:      "layouts_total",
			Help:      "Page layouts computed, by result.",
		}, []string{"result"}),
		layoutLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sliced",
			Name:      "layout_duration_seconds",
			Help:      "Time spent partitioning images into pages.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		pagesPerLayout: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sliced",
			Name:      "layout_pages",
			Help:      "Number of pages per computed layout.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sliced",
			Name:      "renders_total",
			Help:      "Documents rendered, by format and result.",
		}, []string{"format", "result"}),
		renderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sliced",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering documents.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		renderBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sliced",
			Name:      "render_bytes_total",
			Help:      "Bytes of rendered output.",
		}, []string{"format"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sliced",
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes, by key type and operation.",
		}, []string{"key_type", "op"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sliced",
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sliced",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		gatherer: prometheus.DefaultGatherer,
	}
	reg.MustRegister(
		m.layouts, m.layoutLatency, m.pagesPerLayout,
		m.renders, m.renderLatency, m.renderBytes,
		m.cacheOps, m.requests, m.requestLatency,
	)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Register installs m as the pipeline, cache and server hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _ int, pageCount int, d time.Duration, err error) {
	m.layouts.WithLabelValues(result(err)).Inc()
	m.layoutLatency.Observe(d.Seconds())
	if err == nil {
		m.pagesPerLayout.Observe(float64(pageCount))
	}
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, result(err)).Inc()
	m.renderLatency.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		m.renderBytes.WithLabelValues(format).Add(float64(size))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)
