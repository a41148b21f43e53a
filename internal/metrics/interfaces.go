package metrics

// Collector defines the interface for collecting parser metrics.
//
// Implementations:
//   - PrometheusMetrics: counters and a histogram on a Prometheus registerer
//   - NullMetrics: no-op implementation when metrics are disabled
type Collector interface {
	// IncrementEncoded counts a payload produced for a value kind
	// Parameters:
	//   - kind: value kind name, e.g. "POWER"
	//   - mode: "single" or "forecast"
	IncrementEncoded(kind, mode string)

	// IncrementDecoded counts a payload turned back into a record
	IncrementDecoded(kind, mode string)

	// IncrementSkipped counts a batch item left out of a forecast array
	// Parameters:
	//   - reason: short failure kind, e.g. "invalid_hour"
	IncrementSkipped(reason string)

	// IncrementFailed counts a call that returned an error
	// Parameters:
	//   - op: "encode" or "decode"
	IncrementFailed(op string)

	// ObserveForecastSize records the number of entries in an encoded forecast array
	ObserveForecastSize(entries int)

	// RecordDiagnostic counts an error reported through the error handler
	RecordDiagnostic(op string, code int)
}

// Encode/decode modes
const (
	ModeSingle   = "single"
	ModeForecast = "forecast"
)

// Compile-time verification that PrometheusMetrics implements Collector
var _ Collector = (*PrometheusMetrics)(nil)
