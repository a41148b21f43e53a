package host

import "time"

// Record is one timestamped, flagged measurement
type Record struct {
	Value     Value
	Timestamp int64 // milliseconds since the epoch, 0 when unknown
	Flag      Flag
}

// NewRecord creates a record from a value, a time and a flag
func NewRecord(value Value, at time.Time, flag Flag) Record {
	return Record{Value: value, Timestamp: at.UnixMilli(), Flag: flag}
}

// FlagRecord creates a record that carries only a status flag
func FlagRecord(flag Flag) Record {
	return Record{Flag: flag}
}

// Time returns the record timestamp in UTC
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

// HasTimestamp reports whether the record carries a timestamp
func (r Record) HasTimestamp() bool {
	return r.Timestamp != 0
}

// Container describes the channel a record belongs to
type Container interface {
	ChannelAddress() string
	ChannelSettings() string
}

// Channel is a plain Container
type Channel struct {
	Address  string
	Settings string
}

// ChannelAddress implements Container
func (c Channel) ChannelAddress() string { return c.Address }

// ChannelSettings implements Container
func (c Channel) ChannelSettings() string { return c.Settings }

// LoggingRecord is a record handed over by a data logger together with its channel configuration
type LoggingRecord struct {
	ChannelID       string
	Record          Record
	ChannelSettings string // e.g. "hour=12"
	LoggingSettings string // e.g. "mqttlogger:topic=esg/node/power/forecast"
}

var _ Container = Channel{}
