package metrics

// NullMetrics is a no-op implementation of Collector.
// Use this when metrics are disabled.
type NullMetrics struct{}

// NewNullMetrics creates a new NullMetrics instance
func NewNullMetrics() *NullMetrics {
	return &NullMetrics{}
}

// IncrementEncoded is a no-op
func (nm *NullMetrics) IncrementEncoded(kind, mode string) {}

// IncrementDecoded is a no-op
func (nm *NullMetrics) IncrementDecoded(kind, mode string) {}

// IncrementSkipped is a no-op
func (nm *NullMetrics) IncrementSkipped(reason string) {}

// IncrementFailed is a no-op
func (nm *NullMetrics) IncrementFailed(op string) {}

// ObserveForecastSize is a no-op
func (nm *NullMetrics) ObserveForecastSize(entries int) {}

// RecordDiagnostic is a no-op
func (nm *NullMetrics) RecordDiagnostic(op string, code int) {}

// Compile-time verification that NullMetrics implements Collector
var _ Collector = (*NullMetrics)(nil)
