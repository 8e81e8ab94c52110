package worker

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry             *prometheus.Registry
	notificationsTotal   *prometheus.CounterVec
	notificationDuration *prometheus.HistogramVec
	activeTasks          prometheus.Gauge
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &metrics{
		registry: registry,
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_worker_notifications_total",
			Help: "Contact notifications handled by the worker, by outcome.",
		}, []string{"outcome"}),
		notificationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_worker_notification_duration_seconds",
			Help:    "Time spent delivering a contact notification.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		activeTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "folio_worker_active_tasks",
			Help: "Tasks currently being handled by the worker.",
		}),
	}

	registry.MustRegister(
		m.notificationsTotal,
		m.notificationDuration,
		m.activeTasks,
	)
	return m
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
