// Package observability collects Prometheus metrics for the application.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the registry and the application counters.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	postingsTotal   *prometheus.CounterVec
	stockoutsTotal  prometheus.Counter
	coercionsTotal  *prometheus.CounterVec
	saveFailures    *prometheus.CounterVec
}

// NewMetrics initialises the registry and the base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eazeinn_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eazeinn_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	postings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eazeinn_inventory_postings_total",
		Help: "Inventory postings by transaction kind.",
	}, []string{"kind"})
	stockouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eazeinn_inventory_stockouts_total",
		Help: "Sales posted against items with no prior inventory record.",
	})
	coercions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eazeinn_decimal_coercions_total",
		Help: "Numeric fields coerced to zero by the lenient loader.",
	}, []string{"collection", "field"})
	saveFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eazeinn_save_failures_total",
		Help: "Failed collection writes by collection.",
	}, []string{"collection"})
	registry.MustRegister(requests, duration, postings, stockouts, coercions, saveFailures)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		postingsTotal:   postings,
		stockoutsTotal:  stockouts,
		coercionsTotal:  coercions,
		saveFailures:    saveFailures,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObservePosting counts one inventory posting.
func (m *Metrics) ObservePosting(kind string) {
	if m == nil {
		return
	}
	m.postingsTotal.WithLabelValues(kind).Inc()
}

// ObserveStockout counts one sale without prior stock.
func (m *Metrics) ObserveStockout() {
	if m == nil {
		return
	}
	m.stockoutsTotal.Inc()
}

// ObserveCoercion counts one numeric field coerced to zero.
func (m *Metrics) ObserveCoercion(collection, field string) {
	if m == nil {
		return
	}
	m.coercionsTotal.WithLabelValues(collection, field).Inc()
}

// ObserveSaveFailure counts one failed collection write.
func (m *Metrics) ObserveSaveFailure(collection string) {
	if m == nil {
		return
	}
	m.saveFailures.WithLabelValues(collection).Inc()
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
