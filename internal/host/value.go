package host

import (
	"math"
	"strconv"

	perrors "esg-node-parser/internal/errors"
)

// ValueType identifies the representation of a record value
type ValueType uint8

const (
	ValueTypeNone ValueType = iota
	ValueTypeDouble
	ValueTypeFloat
	ValueTypeLong
	ValueTypeInteger
	ValueTypeShort
	ValueTypeBoolean
	ValueTypeString
	ValueTypeByteArray
)

// String returns the framework name of the value type
func (t ValueType) String() string {
	switch t {
	case ValueTypeDouble:
		return "DOUBLE"
	case ValueTypeFloat:
		return "FLOAT"
	case ValueTypeLong:
		return "LONG"
	case ValueTypeInteger:
		return "INTEGER"
	case ValueTypeShort:
		return "SHORT"
	case ValueTypeBoolean:
		return "BOOLEAN"
	case ValueTypeString:
		return "STRING"
	case ValueTypeByteArray:
		return "BYTE_ARRAY"
	default:
		return "NONE"
	}
}

// Value is a typed record value
type Value struct {
	typ    ValueType
	number float64
	text   string
	bytes  []byte
}

func DoubleValue(v float64) Value { return Value{typ: ValueTypeDouble, number: v} }
func FloatValue(v float32) Value  { return Value{typ: ValueTypeFloat, number: float64(v)} }
func LongValue(v int64) Value     { return Value{typ: ValueTypeLong, number: float64(v)} }
func IntValue(v int32) Value      { return Value{typ: ValueTypeInteger, number: float64(v)} }
func ShortValue(v int16) Value    { return Value{typ: ValueTypeShort, number: float64(v)} }
func StringValue(v string) Value  { return Value{typ: ValueTypeString, text: v} }
func ByteArrayValue(v []byte) Value {
	return Value{typ: ValueTypeByteArray, bytes: append([]byte(nil), v...)}
}

// BooleanValue stores b as 1 or 0; it is still not numeric
func BooleanValue(b bool) Value {
	if b {
		return Value{typ: ValueTypeBoolean, number: 1}
	}
	return Value{typ: ValueTypeBoolean}
}

// Type returns the value type
func (v Value) Type() ValueType {
	return v.typ
}

// IsNumeric reports whether the value can be scaled
func (v Value) IsNumeric() bool {
	switch v.typ {
	case ValueTypeDouble, ValueTypeFloat, ValueTypeLong, ValueTypeInteger, ValueTypeShort:
		return true
	default:
		return false
	}
}

// Float returns the numeric value, or ErrUnsupportedSourceType for any non-numeric type
func (v Value) Float() (float64, error) {
	if !v.IsNumeric() {
		return 0, perrors.Newf("value", perrors.ErrUnsupportedSourceType, "value type %s", v.typ)
	}
	if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
		return 0, perrors.Newf("value", perrors.ErrUnsupportedSourceType, "non-finite value %v", v.number)
	}
	return v.number, nil
}

// String returns a readable form of the value
func (v Value) String() string {
	switch v.typ {
	case ValueTypeNone:
		return "<none>"
	case ValueTypeString:
		return v.text
	case ValueTypeByteArray:
		return strconv.Quote(string(v.bytes))
	case ValueTypeBoolean:
		return strconv.FormatBool(v.number != 0)
	default:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	}
}
