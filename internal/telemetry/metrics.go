package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

// Metrics holds all Prometheus metrics for the service. It implements
// easytrans.Recorder, so a client records into it directly.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ClientErrors    *prometheus.CounterVec
	WebhooksTotal   *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics
// handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easytrans_client_requests_total",
				Help: "Total number of EasyTrans requests by backend, operation, and status",
			},
			[]string{"backend", "operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "easytrans_client_request_duration_seconds",
				Help:    "EasyTrans request duration in seconds by backend and operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
		ClientErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easytrans_client_errors_total",
				Help: "Total EasyTrans errors by backend and error kind",
			},
			[]string{"backend", "kind"},
		),
		WebhooksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easytrans_webhooks_total",
				Help: "Total webhook deliveries by order status and handling result",
			},
			[]string{"status", "result"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(backend, operation, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(backend, operation, status).Inc()
	m.RequestDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordError records an error metric.
func (m *Metrics) RecordError(backend string, kind easytrans.Kind) {
	m.ClientErrors.WithLabelValues(backend, string(kind)).Inc()
}

// RecordWebhook records a webhook delivery. status is the order status
// from the payload, empty when it could not be decoded.
func (m *Metrics) RecordWebhook(status, result string) {
	m.WebhooksTotal.WithLabelValues(status, result).Inc()
}

var _ easytrans.Recorder = (*Metrics)(nil)
