package parser

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"esg-node-parser/internal/codec"
	perrors "esg-node-parser/internal/errors"
	"esg-node-parser/internal/forecast"
	"esg-node-parser/internal/host"
	"esg-node-parser/internal/logger"
	"esg-node-parser/internal/metrics"
	"esg-node-parser/internal/settings"
	"esg-node-parser/internal/topic"
)

// skip reasons reported to metrics
var skipReasons = map[error]string{
	perrors.ErrInvalidRecordState:    "invalid_record",
	perrors.ErrUnsupportedSourceType: "unsupported_value",
	perrors.ErrMissingKey:            "missing_hour",
	perrors.ErrNotAnInteger:          "malformed_hour",
	perrors.ErrInvalidHour:           "invalid_hour",
}

// EncodeRecord encodes a single record for the channel it belongs to.
// The topic is the channel address up to its first ';'.
func (p *Parser) EncodeRecord(rec host.Record, container host.Container) ([]byte, error) {
	return p.encodeSingle(p.log, rec, topic.StripSettings(container.ChannelAddress()))
}

// EncodeOne encodes a single logging record. The topic comes from the
// "topic" key of its logging settings.
func (p *Parser) EncodeOne(rec host.LoggingRecord) ([]byte, error) {
	log := p.log.With("channel", rec.ChannelID)
	t, err := loggingTopic(rec)
	if err != nil {
		return nil, p.fail(log, "encode", err)
	}
	return p.encodeSingle(log, rec.Record, t)
}

// EncodeMany encodes logging records of one topic as a forecast array.
// A single record is encoded like EncodeOne; no records encode as an empty array.
func (p *Parser) EncodeMany(recs []host.LoggingRecord) ([]byte, error) {
	switch len(recs) {
	case 0:
		p.metrics.ObserveForecastSize(0)
		return []byte("[]"), nil
	case 1:
		return p.EncodeOne(recs[0])
	}

	log := p.log.With("batch_id", uuid.NewString())

	topics := make([]string, 0, len(recs))
	for _, rec := range recs {
		// a record without a topic counts as a topic of its own
		t, _ := loggingTopic(rec)
		topics = append(topics, t)
	}

	shared, err := forecast.SharedTopic(topics)
	if err != nil {
		if errors.Is(err, perrors.ErrMultiTopicBatch) {
			log.LogWarn("Received multiple topics to parse at once: %s", strings.Join(forecast.DistinctTopics(topics), ", "))
		}
		return nil, p.fail(log, "encode", err)
	}
	if shared == "" {
		return nil, p.fail(log, "encode", perrors.Newf("encode", perrors.ErrMissingKey, "%q", settings.KeyTopic))
	}

	c, err := topic.Classify(shared)
	if err != nil {
		return nil, p.fail(log, "encode", err)
	}
	log = log.With("topic", c.BaseTopic)

	readings := make([]forecast.Reading, 0, len(recs))
	for _, rec := range recs {
		readings = append(readings, forecast.Reading{Record: rec.Record, Settings: rec.ChannelSettings})
	}

	values, skipped := forecast.Build(readings, c.Kind, p.clock.Now())
	for _, err := range skipped {
		if !perrors.IsRecoverable(err) {
			return nil, p.fail(log, "encode", err)
		}
		p.metrics.IncrementSkipped(skipReason(err))
		p.errors.HandleWith(log, err)
	}

	data, err := codec.MarshalArray(values)
	if err != nil {
		return nil, p.fail(log, "encode", err)
	}

	p.metrics.ObserveForecastSize(len(values))
	p.metrics.IncrementEncoded(c.Kind.Name(), metrics.ModeForecast)
	log.LogDebug("Encoded %s forecast with %d of %d readings", c.Kind, len(values), len(recs))
	return data, nil
}

func (p *Parser) encodeSingle(log logger.ILogger, rec host.Record, t string) ([]byte, error) {
	if host.ValidityOf(rec.Flag) != host.Valid {
		return nil, p.fail(log, "encode", perrors.Newf("encode", perrors.ErrInvalidRecordState, "unable to encode record of flag %q", rec.Flag))
	}

	c, err := topic.Classify(t)
	if err != nil {
		return nil, p.fail(log, "encode", err)
	}
	raw, err := rec.Value.Float()
	if err != nil {
		return nil, p.fail(log, "encode", err)
	}

	ts := p.clock.Now().UTC()
	if rec.HasTimestamp() {
		ts = rec.Time()
	}

	data, err := codec.Marshal(codec.Value{
		Timestamp: ts,
		Value:     codec.Encode(raw, c.Kind),
		Unit:      c.Kind.Unit(),
	})
	if err != nil {
		return nil, p.fail(log, "encode", err)
	}

	p.metrics.IncrementEncoded(c.Kind.Name(), metrics.ModeSingle)
	return data, nil
}

func loggingTopic(rec host.LoggingRecord) (string, error) {
	t, err := settings.Parse(rec.LoggingSettings, settings.LoggingSeparators).Required(settings.KeyTopic)
	if err != nil {
		return "", err
	}
	return topic.StripSettings(t), nil
}

func skipReason(err error) string {
	if reason, ok := skipReasons[perrors.KindOf(err)]; ok {
		return reason
	}
	return "other"
}
