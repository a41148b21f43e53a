package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "esg_parser"

// PrometheusMetrics tracks parser metrics in Prometheus collectors.
// Collectors are safe for concurrent use.
type PrometheusMetrics struct {
	encodedTotal  *prometheus.CounterVec
	decodedTotal  *prometheus.CounterVec
	skippedTotal  *prometheus.CounterVec
	failedTotal   *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	forecastSizes prometheus.Histogram
}

// NewPrometheusMetrics creates the collectors and registers them on reg.
// A nil reg uses the default registerer.
func NewPrometheusMetrics(namespace string, reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	pm := &PrometheusMetrics{
		encodedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoded_total",
			Help:      "Total payloads encoded by value kind and mode.",
		}, []string{"kind", "mode"}),
		decodedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoded_total",
			Help:      "Total payloads decoded by value kind and mode.",
		}, []string{"kind", "mode"}),
		skippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_skipped_total",
			Help:      "Total forecast readings left out of an array by reason.",
		}, []string{"reason"}),
		failedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_total",
			Help:      "Total calls that returned an error by operation.",
		}, []string{"op"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Total reported errors by operation and diagnostic code.",
		}, []string{"op", "code"}),
		forecastSizes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_entries",
			Help:      "Number of entries per encoded forecast array.",
			Buckets:   []float64{0, 1, 6, 12, 18, 24, 48},
		}),
	}

	for _, c := range []prometheus.Collector{
		pm.encodedTotal,
		pm.decodedTotal,
		pm.skippedTotal,
		pm.failedTotal,
		pm.errorsTotal,
		pm.forecastSizes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register parser metrics: %w", err)
		}
	}
	return pm, nil
}

// IncrementEncoded increments the encoded payload counter
func (pm *PrometheusMetrics) IncrementEncoded(kind, mode string) {
	pm.encodedTotal.WithLabelValues(kind, mode).Inc()
}

// IncrementDecoded increments the decoded payload counter
func (pm *PrometheusMetrics) IncrementDecoded(kind, mode string) {
	pm.decodedTotal.WithLabelValues(kind, mode).Inc()
}

// IncrementSkipped increments the skipped reading counter
func (pm *PrometheusMetrics) IncrementSkipped(reason string) {
	pm.skippedTotal.WithLabelValues(reason).Inc()
}

// IncrementFailed increments the failed call counter
func (pm *PrometheusMetrics) IncrementFailed(op string) {
	pm.failedTotal.WithLabelValues(op).Inc()
}

// ObserveForecastSize records the size of an encoded forecast array
func (pm *PrometheusMetrics) ObserveForecastSize(entries int) {
	pm.forecastSizes.Observe(float64(entries))
}

// RecordDiagnostic increments the diagnostics counter
func (pm *PrometheusMetrics) RecordDiagnostic(op string, code int) {
	pm.errorsTotal.WithLabelValues(op, strconv.Itoa(code)).Inc()
}
