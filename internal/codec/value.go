// Package codec converts between wire values and JSON payloads.
package codec

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	perrors "esg-node-parser/internal/errors"
	"esg-node-parser/internal/valuekind"
)

// Timestamp layouts accepted on decode, in order of preference
const (
	TimestampLayout       = time.RFC3339Nano
	MinuteTimestampLayout = "2006-01-02T15:04Z07:00"
)

// Value is one reading on the wire
type Value struct {
	Timestamp time.Time
	Value     float64
	Unit      string // empty when absent
}

// HasUnit reports whether the value carries a unit label
func (v Value) HasUnit() bool {
	return v.Unit != ""
}

// Encode scales a raw reading to its wire value
func Encode(raw float64, kind valuekind.Kind) float64 {
	return raw * kind.Scale()
}

// Decode scales a wire value back to a raw reading
func Decode(wire float64, kind valuekind.Kind) float64 {
	return wire / kind.Scale()
}

type wireOut struct {
	Timestamp string `json:"timestamp"`
	Value     number `json:"value"`
	Unit      string `json:"unit,omitempty"`
}

type wireIn struct {
	Timestamp *string         `json:"timestamp"`
	Value     json.RawMessage `json:"value"`
	Unit      *string         `json:"unit"`
}

// number writes a float the way the exchange writes doubles: 100.0, 0.12, 1.0E7
type number float64

// MarshalJSON implements json.Marshaler
func (n number) MarshalJSON() ([]byte, error) {
	return []byte(FormatNumber(float64(n))), nil
}

// FormatNumber renders x with a mandatory fractional part, switching to
// scientific notation outside [1e-3, 1e7).
func FormatNumber(x float64) string {
	if x == 0 {
		if math.Signbit(x) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(x)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(x, 'E', -1, 64)
	mantissa, exponent, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp, _ := strconv.Atoi(exponent)
	return mantissa + "E" + strconv.Itoa(exp)
}

func (v Value) wire() (wireOut, error) {
	if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
		return wireOut{}, perrors.Newf("encode", perrors.ErrUnsupportedSourceType, "non-finite value %v", v.Value)
	}
	return wireOut{
		Timestamp: v.Timestamp.Format(TimestampLayout),
		Value:     number(v.Value),
		Unit:      v.Unit,
	}, nil
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	out, err := v.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// Marshal encodes a single value, unit included when present
func Marshal(v Value) ([]byte, error) {
	out, err := v.wire()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, perrors.New("encode", perrors.ErrUnsupportedSourceType, err)
	}
	return data, nil
}

// MarshalArray encodes a forecast array. Entries never carry a unit.
func MarshalArray(values []Value) ([]byte, error) {
	out := make([]wireOut, 0, len(values))
	for _, v := range values {
		v.Unit = ""
		w, err := v.wire()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, perrors.New("encode", perrors.ErrUnsupportedSourceType, err)
	}
	return data, nil
}

// Unmarshal decodes a single value
func Unmarshal(data []byte) (Value, error) {
	var in wireIn
	if err := json.Unmarshal(data, &in); err != nil {
		return Value{}, perrors.New("decode", perrors.ErrMalformedPayload, err)
	}
	return in.value()
}

// UnmarshalArray decodes a forecast array
func UnmarshalArray(data []byte) ([]Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, perrors.New("decode", perrors.ErrMalformedPayload, err)
	}
	if items == nil {
		return nil, perrors.Newf("decode", perrors.ErrMalformedPayload, "expected array, got null")
	}

	values := make([]Value, 0, len(items))
	for i, item := range items {
		var in wireIn
		if err := json.Unmarshal(item, &in); err != nil {
			return nil, perrors.Newf("decode", perrors.ErrMalformedPayload, "entry %d: %v", i, err)
		}
		v, err := in.value()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (in wireIn) value() (Value, error) {
	if in.Timestamp == nil {
		return Value{}, perrors.Newf("decode", perrors.ErrMalformedPayload, "missing timestamp")
	}
	ts, err := ParseTimestamp(*in.Timestamp)
	if err != nil {
		return Value{}, err
	}

	raw := strings.TrimSpace(string(in.Value))
	if raw == "" || raw == "null" {
		return Value{}, perrors.Newf("decode", perrors.ErrMalformedPayload, "missing value")
	}
	f, err := parseNumber(in.Value)
	if err != nil {
		return Value{}, err
	}

	v := Value{Timestamp: ts, Value: f}
	if in.Unit != nil {
		v.Unit = *in.Unit
	}
	return v, nil
}

func parseNumber(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	// lenient: numeric strings are accepted
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, perrors.Newf("decode", perrors.ErrMalformedPayload, "value %s is not a number", string(raw))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, perrors.New("decode", perrors.ErrMalformedPayload, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, perrors.Newf("decode", perrors.ErrMalformedPayload, "value %q is not finite", s)
	}
	return f, nil
}

// ParseTimestamp parses an ISO-8601 timestamp with an explicit offset
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(TimestampLayout, s)
	if err == nil {
		return ts, nil
	}
	if ts, err2 := time.Parse(MinuteTimestampLayout, s); err2 == nil {
		return ts, nil
	}
	return time.Time{}, perrors.New("decode", perrors.ErrMalformedPayload, err)
}
