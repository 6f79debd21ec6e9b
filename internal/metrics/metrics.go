// Package metrics exposes prometheus collectors for the webhook pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// Module provides metrics registry for fx graphs.
var Module = fx.Provide(New)

// Metrics holds collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	webhooks          *prometheus.CounterVec
	webhookDuration   *prometheus.HistogramVec
	notifications     *prometheus.CounterVec
	notificationQueue prometheus.Gauge
	httpRequests      *prometheus.CounterVec
}

// New registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Webhook deliveries by source, event and outcome",
		}, []string{"source", "event", "outcome"}),
		webhookDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payment_webhook_duration_seconds",
			Help:    "Webhook processing duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_notifications_total",
			Help: "Notification deliveries by sink, kind and result",
		}, []string{"sink", "kind", "result"}),
		notificationQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "order_notification_queue_length",
			Help: "Notifications waiting for delivery",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.webhooks,
		m.webhookDuration,
		m.notifications,
		m.notificationQueue,
		m.httpRequests,
	)
	return m
}

// Handler serves the registry in prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveWebhook(source, event, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.webhooks.WithLabelValues(source, event, outcome).Inc()
	m.webhookDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveNotification(sink, kind, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(sink, kind, result).Inc()
}

func (m *Metrics) SetQueueLength(n int) {
	if m == nil {
		return
	}
	m.notificationQueue.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
