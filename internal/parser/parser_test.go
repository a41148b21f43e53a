package parser

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esg-node-parser/internal/clock"
	"esg-node-parser/internal/config"
	perrors "esg-node-parser/internal/errors"
	"esg-node-parser/internal/host"
	"esg-node-parser/internal/logger"
	"esg-node-parser/internal/metrics"
	"esg-node-parser/internal/valuekind"
)

var (
	newYear = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now     = time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
)

const (
	powerJSON    = `{"timestamp":"2024-01-01T00:00:00Z","value":100.0,"unit":"kW"}`
	stimulusJSON = `{"timestamp":"2024-01-01T00:00:00Z","value":50.0,"unit":"%"}`
)

func newTestParser(t *testing.T, opts ...Option) (*Parser, *logger.MockLogger) {
	t.Helper()
	log := logger.NewMockLogger()
	p, err := New(append([]Option{WithClock(clock.Fixed(now)), WithLogger(log)}, opts...)...)
	require.NoError(t, err)
	return p, log
}

func channel(address string) host.Channel {
	return host.Channel{Address: address}
}

func loggingRecord(topic string, hour int, value float64) host.LoggingRecord {
	return host.LoggingRecord{
		ChannelID:       fmt.Sprintf("forecast_%02d", hour),
		Record:          host.NewRecord(host.DoubleValue(value), now, host.FlagValid),
		ChannelSettings: fmt.Sprintf("hour=%d", hour),
		LoggingSettings: "mqttlogger:topic=" + topic,
	}
}

func stimulusForecast() []host.LoggingRecord {
	recs := make([]host.LoggingRecord, 0, 24)
	for h := 0; h < 24; h++ {
		recs = append(recs, loggingRecord("esg/node/stimulus/forecast", h, float64(h)/100))
	}
	return recs
}

// TestPowerScenario tests the reference power payload in both directions
func TestPowerScenario(t *testing.T) {
	p, _ := newTestParser(t)

	data, err := p.EncodeRecord(host.NewRecord(host.DoubleValue(100000), newYear, host.FlagValid), channel("esg/node/power"))
	require.NoError(t, err)
	assert.Equal(t, powerJSON, string(data))

	rec, err := p.Decode(data, channel("esg/node/power"))
	require.NoError(t, err)
	assert.Equal(t, host.FlagValid, rec.Flag)
	f, err := rec.Value.Float()
	require.NoError(t, err)
	assert.Equal(t, 100000.0, f)
	assert.Equal(t, newYear.UnixMilli(), rec.Timestamp)
}

// TestStimulusScenario tests the reference stimulus payload in both directions
func TestStimulusScenario(t *testing.T) {
	p, _ := newTestParser(t)

	data, err := p.EncodeRecord(host.NewRecord(host.DoubleValue(0.5), newYear, host.FlagValid), channel("esg/node/stimulus;qos=1"))
	require.NoError(t, err)
	assert.Equal(t, stimulusJSON, string(data))

	rec, err := p.Decode([]byte(stimulusJSON), channel("esg/node/stimulus"))
	require.NoError(t, err)
	f, _ := rec.Value.Float()
	assert.Equal(t, 0.5, f)
}

// TestRoundTrip tests that decode inverts encode for every kind
func TestRoundTrip(t *testing.T) {
	p, _ := newTestParser(t)

	for _, k := range valuekind.All() {
		address := "esg/node/" + strings.ToLower(k.Name())
		for _, raw := range []float64{0, 1, 42.5, 100000, -3} {
			data, err := p.EncodeRecord(host.NewRecord(host.DoubleValue(raw), newYear, host.FlagValid), channel(address))
			require.NoError(t, err)

			rec, err := p.Decode(data, channel(address))
			require.NoError(t, err)
			f, _ := rec.Value.Float()
			assert.InDelta(t, raw, f, 1e-9, "%s %v", k, raw)
		}
	}
}

// TestDecodeUnknownTopic tests that an unknown kind fails decoding
func TestDecodeUnknownTopic(t *testing.T) {
	p, log := newTestParser(t)

	for _, payload := range []string{powerJSON, stimulusJSON} {
		rec, err := p.Decode([]byte(payload), channel("esg/node/unknown"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, perrors.ErrUnknownValueKind))
		assert.Equal(t, host.FlagDriverErrorDecodingResponseFailed, rec.Flag)
	}
	assert.Len(t, log.ErrorMessages, 2)
}

// TestDecodeByTopicKind tests that the topic, not the payload unit, selects the scale
func TestDecodeByTopicKind(t *testing.T) {
	p, log := newTestParser(t)

	rec, err := p.Decode([]byte(powerJSON), channel("esg/node/energy"))
	require.NoError(t, err)
	f, _ := rec.Value.Float()
	assert.NotEqual(t, 100000.0, f)
	assert.Equal(t, 100.0, f)

	require.Len(t, log.WarnMessages, 1)
	assert.Contains(t, log.WarnMessages[0], `"kW" does not match topic kind ENERGY`)
}

// TestDecodeMalformed tests that unreadable payloads fail decoding
func TestDecodeMalformed(t *testing.T) {
	p, _ := newTestParser(t)

	tests := []struct {
		name     string
		payload  string
		address  string
		settings string
	}{
		{"not json", `not json`, "esg/node/power", ""},
		{"missing value", `{"timestamp":"2024-01-01T00:00:00Z"}`, "esg/node/power", ""},
		{"array on single topic", `[]`, "esg/node/power", ""},
		{"object on forecast topic", powerJSON, "esg/node/power/forecast", "hour=12"},
		{"forecast without hour", `[]`, "esg/node/power/forecast", ""},
		{"forecast bad hour", `[]`, "esg/node/power/forecast", "hour=noon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Decode([]byte(tt.payload), host.Channel{Address: tt.address, Settings: tt.settings})
			require.Error(t, err)
			assert.Equal(t, host.FlagDriverErrorDecodingResponseFailed, rec.Flag)
			assert.False(t, rec.HasTimestamp())
		})
	}
}

// TestEncodeSingleErrors tests the failures of the single-value path
func TestEncodeSingleErrors(t *testing.T) {
	p, _ := newTestParser(t)

	tests := []struct {
		name    string
		rec     host.Record
		address string
		wantErr error
	}{
		{"invalid flag", host.NewRecord(host.DoubleValue(1), newYear, host.FlagDriverErrorTimeout), "esg/node/power", perrors.ErrInvalidRecordState},
		{"pending flag", host.FlagRecord(host.FlagNoValueReceivedYet), "esg/node/power", perrors.ErrInvalidRecordState},
		{"unknown kind", host.NewRecord(host.DoubleValue(1), newYear, host.FlagValid), "esg/node/voltage", perrors.ErrUnknownValueKind},
		{"string value", host.NewRecord(host.StringValue("1"), newYear, host.FlagValid), "esg/node/power", perrors.ErrUnsupportedSourceType},
		{"boolean value", host.NewRecord(host.BooleanValue(true), newYear, host.FlagValid), "esg/node/power", perrors.ErrUnsupportedSourceType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := p.EncodeRecord(tt.rec, channel(tt.address))
			require.Error(t, err)
			assert.Nil(t, data)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

// TestEncodeUsesClockWithoutTimestamp tests that a record without a timestamp is stamped with now
func TestEncodeUsesClockWithoutTimestamp(t *testing.T) {
	p, _ := newTestParser(t)

	rec := host.Record{Value: host.LongValue(3), Flag: host.FlagValid}
	data, err := p.EncodeRecord(rec, channel("esg/node/energy"))
	require.NoError(t, err)
	assert.Equal(t, `{"timestamp":"2024-01-01T10:30:00Z","value":3.0,"unit":"kWh"}`, string(data))
}

// TestEncodeOne tests topic lookup in logging settings
func TestEncodeOne(t *testing.T) {
	p, _ := newTestParser(t)

	rec := host.LoggingRecord{
		ChannelID:       "grid_power",
		Record:          host.NewRecord(host.DoubleValue(100000), newYear, host.FlagValid),
		LoggingSettings: "mqttlogger:topic=esg/node/power;qos=1",
	}
	data, err := p.EncodeOne(rec)
	require.NoError(t, err)
	assert.Equal(t, powerJSON, string(data))

	rec.LoggingSettings = "mqttlogger:qos=1"
	_, err = p.EncodeOne(rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrMissingKey))
}

// TestForecastScenario tests a full day of forecasts resolved for the current day
func TestForecastScenario(t *testing.T) {
	p, _ := newTestParser(t)

	data, err := p.EncodeMany(stimulusForecast())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `[{"timestamp":"2024-01-01T10:00:00Z","value":10.0}`), string(data))
	assert.NotContains(t, string(data), "unit")
	assert.Equal(t, 24, strings.Count(string(data), "timestamp"))

	rec, err := p.Decode(data, host.Channel{Address: "esg/node/stimulus/forecast", Settings: "hour=12"})
	require.NoError(t, err)
	assert.Equal(t, host.FlagValid, rec.Flag)
	assert.Equal(t, now.UnixMilli(), rec.Timestamp)
	f, _ := rec.Value.Float()
	assert.InDelta(t, 0.12, f, 1e-12)

	// hour 3 was already past and went to tomorrow's slot
	rec, err = p.Decode(data, host.Channel{Address: "esg/node/stimulus/forecast", Settings: "hour=3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrForecastSlotMissing))
	assert.Equal(t, host.FlagDriverErrorChannelTemporarilyNotAccessible, rec.Flag)
}

// TestEncodeManyMultiTopic tests that a batch over several topics produces nothing
func TestEncodeManyMultiTopic(t *testing.T) {
	p, log := newTestParser(t)

	recs := []host.LoggingRecord{
		loggingRecord("esg/a/power/forecast", 1, 1),
		loggingRecord("esg/b/power/forecast", 2, 1),
		loggingRecord("esg/a/power/forecast", 3, 1),
	}
	data, err := p.EncodeMany(recs)
	require.Error(t, err)
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, perrors.ErrMultiTopicBatch))

	require.Len(t, log.WarnMessages, 1)
	assert.Contains(t, log.WarnMessages[0], "esg/a/power/forecast, esg/b/power/forecast")
	assert.Contains(t, log.Fields, "batch_id")
}

// TestEncodeManySkipsInvalidReadings tests that non-valid readings are left out without aborting
func TestEncodeManySkipsInvalidReadings(t *testing.T) {
	p, log := newTestParser(t)

	recs := stimulusForecast()
	recs[11].Record.Flag = host.FlagNoValueReceivedYet
	recs[12].Record.Flag = host.FlagDriverErrorTimeout
	recs[13].ChannelSettings = "hour=thirteen"

	data, err := p.EncodeMany(recs)
	require.NoError(t, err)
	assert.Equal(t, 21, strings.Count(string(data), "timestamp"))
	assert.Len(t, log.WarnMessages, 2)
	assert.Empty(t, log.ErrorMessages)

	_, err = p.Decode(data, host.Channel{Address: "esg/node/stimulus/forecast", Settings: "hour=12"})
	assert.True(t, errors.Is(err, perrors.ErrForecastSlotMissing))
}

// TestEncodeManyWarningSkipsKeepBatch tests that warning-severity problems drop
// only their reading and are reported through logs and metrics
func TestEncodeManyWarningSkipsKeepBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := metrics.NewPrometheusMetrics("test", reg)
	require.NoError(t, err)
	p, log := newTestParser(t, WithMetrics(pm))

	recs := stimulusForecast()
	recs[14].ChannelSettings = "hour=30"
	recs[15].Record.Value = host.StringValue("0.15")

	data, err := p.EncodeMany(recs)
	require.NoError(t, err)
	assert.Equal(t, 22, strings.Count(string(data), "timestamp"))

	require.Len(t, log.WarnMessages, 2)
	assert.Contains(t, log.WarnMessages[0], perrors.ErrInvalidHour.Error())
	assert.Contains(t, log.WarnMessages[1], perrors.ErrUnsupportedSourceType.Error())
	assert.Empty(t, log.ErrorMessages)

	skipped, err := testutil.GatherAndCount(reg, "test_forecast_skipped_total")
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	failed, err := testutil.GatherAndCount(reg, "test_failed_total")
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
}

// TestEncodeManySmallBatches tests the empty and single-record batches
func TestEncodeManySmallBatches(t *testing.T) {
	p, _ := newTestParser(t)

	data, err := p.EncodeMany(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	rec := loggingRecord("esg/node/power", 0, 100000)
	rec.Record.Timestamp = newYear.UnixMilli()
	single, err := p.EncodeMany([]host.LoggingRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, powerJSON, string(single))
}

// TestEncodeManyAllInvalid tests that a batch with nothing to encode yields an empty array
func TestEncodeManyAllInvalid(t *testing.T) {
	p, _ := newTestParser(t)

	recs := stimulusForecast()[:3]
	for i := range recs {
		recs[i].Record.Flag = host.FlagNoValueReceivedYet
	}
	data, err := p.EncodeMany(recs)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

// TestEncodeManyMissingTopic tests a batch whose records name no topic
func TestEncodeManyMissingTopic(t *testing.T) {
	p, _ := newTestParser(t)

	recs := stimulusForecast()[:2]
	for i := range recs {
		recs[i].LoggingSettings = "mqttlogger:qos=0"
	}
	_, err := p.EncodeMany(recs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrMissingKey))
}

// TestStrictSchema tests schema validation before decoding
func TestStrictSchema(t *testing.T) {
	p, _ := newTestParser(t, WithSchemaValidation(true))

	rec, err := p.Decode([]byte(powerJSON), channel("esg/node/power"))
	require.NoError(t, err)
	assert.Equal(t, host.FlagValid, rec.Flag)

	rec, err = p.Decode([]byte(`{"timestamp":"2024-01-01T00:00:00Z"}`), channel("esg/node/power"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrMalformedPayload))
	assert.Contains(t, err.Error(), "required")
	assert.Equal(t, host.FlagDriverErrorDecodingResponseFailed, rec.Flag)
}

// TestMetrics tests that the parser reports to its collector
func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := metrics.NewPrometheusMetrics("test", reg)
	require.NoError(t, err)
	p, _ := newTestParser(t, WithMetrics(pm))

	_, err = p.EncodeRecord(host.NewRecord(host.DoubleValue(1), newYear, host.FlagValid), channel("esg/node/power"))
	require.NoError(t, err)
	recs := stimulusForecast()
	recs[0].Record.Flag = host.FlagDriverErrorTimeout
	_, err = p.EncodeMany(recs)
	require.NoError(t, err)
	_, _ = p.Decode([]byte("nope"), channel("esg/node/power"))

	count, err := testutil.GatherAndCount(reg, "test_encoded_total", "test_forecast_skipped_total", "test_failed_total", "test_diagnostics_total")
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

// TestWithSettings tests construction from configuration
func TestWithSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Parser.ID = "esg-node-2"
	cfg.Parser.Timezone = "UTC"
	cfg.Parser.StrictSchema = true
	ps, err := config.NewParserSettings(cfg)
	require.NoError(t, err)

	p, err := New(WithSettings(ps))
	require.NoError(t, err)
	assert.Equal(t, "esg-node-2", p.ID())
	assert.NotNil(t, p.validator)
	assert.Equal(t, time.UTC, p.clock.Now().Location())

	_, err = New(WithID(""))
	assert.Error(t, err)

	d, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultID, d.ID())
	assert.Equal(t, "esg-node", d.ID())
}

// TestConcurrentUse tests that one parser serves concurrent callers
func TestConcurrentUse(t *testing.T) {
	p, err := New(WithClock(clock.Fixed(now)))
	require.NoError(t, err)

	want, err := p.EncodeMany(stimulusForecast())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.EncodeMany(stimulusForecast())
			assert.NoError(t, err)
			assert.Equal(t, want, got)

			rec, err := p.Decode(got, host.Channel{Address: "esg/node/stimulus/forecast", Settings: "hour=20"})
			assert.NoError(t, err)
			f, _ := rec.Value.Float()
			assert.InDelta(t, 0.2, f, 1e-12)
		}()
	}
	wg.Wait()
}
