// Package metrics instrumentación Prometheus del pipeline de webhooks.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tu-usuario/vsdc-relay/internal/application/relay"
	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
)

var _ relay.Metrics = (*PrometheusMetrics)(nil)

// PrometheusMetrics implementa relay.Metrics sobre un registry propio.
type PrometheusMetrics struct {
	registry  *prometheus.Registry
	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	submitDur prometheus.Histogram
}

// New construye las métricas y las registra en un registry nuevo.
func New() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vsdc_relay",
		Name:      "webhooks_processed_total",
		Help:      "Webhooks procesados por tipo de documento y categoría de desenlace.",
	}, []string{"kind", "category"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vsdc_relay",
		Name:      "webhook_duration_seconds",
		Help:      "Duración del procesamiento completo de un webhook.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	submitDur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vsdc_relay",
		Name:      "vsdc_submission_duration_seconds",
		Help:      "Duración del POST al dispositivo fiscal VSDC.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	registry.MustRegister(processed, duration, submitDur)

	return &PrometheusMetrics{
		registry:  registry,
		processed: processed,
		duration:  duration,
		submitDur: submitDur,
	}
}

// ObserveProcessed registra el desenlace de un webhook.
func (m *PrometheusMetrics) ObserveProcessed(kind entity.DocumentKind, category string, elapsed time.Duration) {
	m.processed.WithLabelValues(kind.String(), category).Inc()
	m.duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}

// ObserveSubmission registra la latencia de un envío al VSDC.
func (m *PrometheusMetrics) ObserveSubmission(elapsed time.Duration) {
	m.submitDur.Observe(elapsed.Seconds())
}

// Registry expone el registry para montar el handler /metrics.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}
