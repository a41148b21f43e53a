package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCollectorInterface verifies that both implementations satisfy Collector
func TestCollectorInterface(t *testing.T) {
	var _ Collector = (*PrometheusMetrics)(nil)
	var _ Collector = (*NullMetrics)(nil)
}

// TestPrometheusMetricsRecording verifies that PrometheusMetrics records values
func TestPrometheusMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMetrics("test", reg)
	require.NoError(t, err)

	pm.IncrementEncoded("POWER", ModeSingle)
	pm.IncrementEncoded("POWER", ModeSingle)
	pm.IncrementEncoded("ENERGY", ModeForecast)
	pm.IncrementDecoded("STIMULUS", ModeForecast)
	pm.IncrementSkipped("invalid_hour")
	pm.IncrementFailed("decode")
	pm.RecordDiagnostic("decode", 40)
	pm.ObserveForecastSize(24)
	pm.ObserveForecastSize(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(pm.encodedTotal.WithLabelValues("POWER", ModeSingle)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.encodedTotal.WithLabelValues("ENERGY", ModeForecast)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.decodedTotal.WithLabelValues("STIMULUS", ModeForecast)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.skippedTotal.WithLabelValues("invalid_hour")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.failedTotal.WithLabelValues("decode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.errorsTotal.WithLabelValues("decode", "40")))
	assert.Equal(t, 1, testutil.CollectAndCount(pm.forecastSizes))

	count, err := testutil.GatherAndCount(reg, "test_encoded_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// TestPrometheusMetricsDuplicateRegistration verifies registration errors are returned
func TestPrometheusMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics("", reg)
	require.NoError(t, err)

	_, err = NewPrometheusMetrics("", reg)
	assert.Error(t, err)
}

// TestNullMetrics verifies that NullMetrics can be called without panicking
func TestNullMetrics(t *testing.T) {
	nm := NewNullMetrics()
	assert.NotPanics(t, func() {
		nm.IncrementEncoded("POWER", ModeSingle)
		nm.IncrementDecoded("POWER", ModeSingle)
		nm.IncrementSkipped("x")
		nm.IncrementFailed("encode")
		nm.ObserveForecastSize(1)
		nm.RecordDiagnostic("encode", 99)
	})
}
