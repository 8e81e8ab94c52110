package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dunamismax/folio/internal/normalize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the API's Prometheus registry. It also observes image
// normalization for the media service.
type Metrics struct {
	registry          *prometheus.Registry
	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	rateLimitRejected *prometheus.CounterVec
	queueEnqueued     *prometheus.CounterVec
	normalizeTotal    *prometheus.CounterVec
	normalizeDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_api_requests_total",
			Help: "Total HTTP requests handled by the API.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_api_request_duration_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_api_rate_limit_rejections_total",
			Help: "Total API requests rejected by rate limiting.",
		}, []string{"route"}),
		queueEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_queue_notifications_enqueued_total",
			Help: "Total contact notifications enqueued.",
		}, []string{"queue"}),
		normalizeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_media_normalizations_total",
			Help: "Image normalizations by upload kind, sniffed format and outcome.",
		}, []string{"kind", "format", "outcome"}),
		normalizeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_media_normalization_duration_seconds",
			Help:    "Time spent decoding, resizing and writing an upload.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.rateLimitRejected,
		m.queueEnqueued,
		m.normalizeTotal,
		m.normalizeDuration,
	)
	return m
}

func (m *Metrics) ObserveNormalize(kind string, res normalize.Result, err error, elapsed time.Duration) {
	format := "unknown"
	if res.MIME != "" {
		format = strings.TrimPrefix(res.MIME, "image/")
	}
	m.normalizeTotal.WithLabelValues(kind, format, normalizeOutcome(err)).Inc()
	m.normalizeDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func normalizeOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, normalize.ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, normalize.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, normalize.ErrStorage):
		return "storage"
	default:
		return "error"
	}
}

func (m *Metrics) metricsHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) withHTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := routeLabel(r)
		status := statusLabel(recorder.status)

		m.requestTotal.WithLabelValues(r.Method, route, status).Inc()
		m.requestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

func statusLabel(status int) string {
	return strconv.Itoa(status)
}

// routeLabel prefers the matched mux pattern so path parameters do not blow
// up label cardinality.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		if _, path, ok := strings.Cut(r.Pattern, " "); ok {
			return path
		}
		return r.Pattern
	}
	switch {
	case strings.HasPrefix(r.URL.Path, "/v1/admin/"):
		return "/v1/admin"
	case strings.HasPrefix(r.URL.Path, "/v1/"):
		return r.URL.Path
	case r.URL.Path == "/healthz", r.URL.Path == "/metrics":
		return r.URL.Path
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
