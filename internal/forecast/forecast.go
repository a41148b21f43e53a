// Package forecast bundles hourly predictions into one array and resolves a
// single slot of such an array back to a reading for the current hour.
package forecast

import (
	"sort"
	"strings"
	"time"

	"esg-node-parser/internal/codec"
	perrors "esg-node-parser/internal/errors"
	"esg-node-parser/internal/host"
	"esg-node-parser/internal/settings"
	"esg-node-parser/internal/topic"
	"esg-node-parser/internal/valuekind"
)

// HoursPerDay bounds the forecast hour setting
const HoursPerDay = 24

// Reading is one forecast input: a record and the channel settings naming its hour
type Reading struct {
	Record   host.Record
	Settings string
}

// Build turns readings into a forecast array sorted by slot time.
// Readings that cannot be placed are left out; every reason except a pending
// first value is reported in skipped.
func Build(readings []Reading, kind valuekind.Kind, now time.Time) (values []codec.Value, skipped []error) {
	values = make([]codec.Value, 0, len(readings))

	for _, r := range readings {
		switch host.ValidityOf(r.Record.Flag) {
		case host.Pending:
			continue
		case host.Invalid:
			skipped = append(skipped, perrors.Newf("build", perrors.ErrInvalidRecordState, "record of flag %q", r.Record.Flag))
			continue
		}

		hour, err := Hour(r.Settings)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		raw, err := r.Record.Value.Float()
		if err != nil {
			skipped = append(skipped, err)
			continue
		}

		values = append(values, codec.Value{
			Timestamp: SlotFor(hour, now),
			Value:     codec.Encode(raw, kind),
		})
	}

	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Timestamp.Before(values[j].Timestamp)
	})
	return values, skipped
}

// Select finds the entry for today's hour and stamps it with now.
// The slot is not rolled over to the next day.
func Select(values []codec.Value, hour int, now time.Time) (codec.Value, error) {
	target := TargetFor(hour, now)
	for _, v := range values {
		if v.Timestamp.Equal(target) {
			v.Timestamp = now
			return v, nil
		}
	}
	return codec.Value{}, perrors.Newf("select", perrors.ErrForecastSlotMissing, "no entry at %s", target.Format(codec.TimestampLayout))
}

// Hour reads the forecast hour from channel settings
func Hour(channelSettings string) (int, error) {
	hour, err := settings.Parse(channelSettings, settings.ChannelSeparators).Int(settings.KeyHour)
	if err != nil {
		return 0, err
	}
	if hour < 0 || hour >= HoursPerDay {
		return 0, perrors.Newf("settings", perrors.ErrInvalidHour, "hour %d", hour)
	}
	return hour, nil
}

// SlotFor returns the next occurrence of hour: today's, or tomorrow's once
// today's has passed. The current hour still counts as upcoming.
func SlotFor(hour int, now time.Time) time.Time {
	slot := TargetFor(hour, now)
	if slot.Before(truncateHour(now)) {
		slot = slot.AddDate(0, 0, 1)
	}
	return slot
}

// TargetFor returns today's midnight plus hour, in the location of now
func TargetFor(hour int, now time.Time) time.Time {
	return truncateDay(now).Add(time.Duration(hour) * time.Hour)
}

// SharedTopic returns the first topic when all topics name the same base topic
func SharedTopic(topics []string) (string, error) {
	if len(topics) == 0 {
		return "", perrors.Newf("encode", perrors.ErrMissingKey, "no topic in batch")
	}
	if distinct := DistinctTopics(topics); len(distinct) > 1 {
		return "", perrors.Newf("encode", perrors.ErrMultiTopicBatch, "%s", strings.Join(distinct, ", "))
	}
	return topics[0], nil
}

// DistinctTopics returns the first topic seen for every distinct base topic, in input order
func DistinctTopics(topics []string) []string {
	seen := make(map[string]bool)
	distinct := make([]string, 0, 1)
	for _, t := range topics {
		base := topic.Base(t)
		if seen[base] {
			continue
		}
		seen[base] = true
		distinct = append(distinct, t)
	}
	return distinct
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func truncateHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
