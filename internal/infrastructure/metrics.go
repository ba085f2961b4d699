package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. One instance is
// created at startup and shared through the application container.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	UploadsTotal          *prometheus.CounterVec
	AnalysesTotal         *prometheus.CounterVec
	QuestionsTotal        prometheus.Counter
	UnrecognizedQuestions prometheus.Counter
	DatasetsActive        prometheus.Gauge
}

// NewMetrics creates and registers all collectors on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watchdog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status code.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "watchdog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watchdog",
			Name:      "uploads_total",
			Help:      "Total uploads by outcome (accepted or rejected).",
		}, []string{"outcome"}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watchdog",
			Name:      "analyses_total",
			Help:      "Total analysis runs by intent.",
		}, []string{"intent"}),
		QuestionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watchdog",
			Name:      "questions_total",
			Help:      "Total free-text questions asked.",
		}),
		UnrecognizedQuestions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watchdog",
			Name:      "questions_unrecognized_total",
			Help:      "Questions that matched no known intent.",
		}),
		DatasetsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "watchdog",
			Name:      "datasets_active",
			Help:      "Datasets currently held in the upload store.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.UploadsTotal,
		m.AnalysesTotal,
		m.QuestionsTotal,
		m.UnrecognizedQuestions,
		m.DatasetsActive,
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware records request counts and latencies. Route patterns are
// taken from the chi route context so path parameters don't explode the
// label cardinality.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		routePattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				routePattern = pattern
			}
		}

		m.RequestsTotal.WithLabelValues(r.Method, routePattern, strconv.Itoa(ww.Status())).Inc()
		m.RequestDuration.WithLabelValues(r.Method, routePattern).Observe(time.Since(start).Seconds())
	})
}
