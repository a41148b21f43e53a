package parser

import (
	"errors"

	"esg-node-parser/internal/codec"
	perrors "esg-node-parser/internal/errors"
	"esg-node-parser/internal/forecast"
	"esg-node-parser/internal/host"
	"esg-node-parser/internal/metrics"
	"esg-node-parser/internal/topic"
	"esg-node-parser/internal/valuekind"
)

// Decode turns a payload received on the container's channel back into a record.
// Forecast channels resolve the entry for today's "hour" setting and stamp it with now.
// On failure the returned record carries only a status flag: a missing forecast slot
// marks the channel temporarily not accessible, anything else a decoding failure.
func (p *Parser) Decode(payload []byte, container host.Container) (host.Record, error) {
	address := topic.StripSettings(container.ChannelAddress())
	log := p.log.With("topic", address)

	v, c, err := p.decodeValue(payload, address, container.ChannelSettings())
	if err != nil {
		p.fail(log, "decode", err)
		return host.FlagRecord(statusFlag(err)), err
	}

	if v.HasUnit() {
		if unitKind, err := valuekind.FromUnit(v.Unit); err != nil || unitKind != c.Kind {
			log.LogWarn("Payload unit %q does not match topic kind %s, decoding as %s", v.Unit, c.Kind, c.Kind)
		}
	}

	mode := metrics.ModeSingle
	if c.IsForecast {
		mode = metrics.ModeForecast
	}
	p.metrics.IncrementDecoded(c.Kind.Name(), mode)

	return host.NewRecord(host.DoubleValue(codec.Decode(v.Value, c.Kind)), v.Timestamp, host.FlagValid), nil
}

func (p *Parser) decodeValue(payload []byte, address, channelSettings string) (codec.Value, topic.Classification, error) {
	c, err := topic.Classify(address)
	if err != nil {
		return codec.Value{}, c, err
	}

	if p.validator != nil {
		if err := p.validator.Validate(payload, c.IsForecast); err != nil {
			return codec.Value{}, c, err
		}
	}

	if !c.IsForecast {
		v, err := codec.Unmarshal(payload)
		return v, c, err
	}

	hour, err := forecast.Hour(channelSettings)
	if err != nil {
		return codec.Value{}, c, err
	}
	values, err := codec.UnmarshalArray(payload)
	if err != nil {
		return codec.Value{}, c, err
	}
	v, err := forecast.Select(values, hour, p.clock.Now())
	return v, c, err
}

func statusFlag(err error) host.Flag {
	if errors.Is(err, perrors.ErrForecastSlotMissing) {
		return host.FlagDriverErrorChannelTemporarilyNotAccessible
	}
	return host.FlagDriverErrorDecodingResponseFailed
}
