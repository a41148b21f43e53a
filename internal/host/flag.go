// Package host models the measurement framework the parser plugs into:
// record flags and values, serialization containers and the parser service registry.
package host

// Flag is the quality marker attached to every record
type Flag uint8

const (
	FlagValid Flag = iota + 1
	FlagNoValueReceivedYet
	FlagDriverErrorDecodingResponseFailed
	FlagDriverErrorChannelTemporarilyNotAccessible
	FlagDriverErrorChannelNotAccessible
	FlagDriverErrorTimeout
	FlagDriverErrorUnspecified
	FlagDriverThrewUnknownException
	FlagCannotWriteNullValue
	FlagValueIsNaN
	FlagStartedLateAndTimedOut
)

var flagNames = map[Flag]string{
	FlagValid:                                      "VALID",
	FlagNoValueReceivedYet:                         "NO_VALUE_RECEIVED_YET",
	FlagDriverErrorDecodingResponseFailed:          "DRIVER_ERROR_DECODING_RESPONSE_FAILED",
	FlagDriverErrorChannelTemporarilyNotAccessible: "DRIVER_ERROR_CHANNEL_TEMPORARILY_NOT_ACCESSIBLE",
	FlagDriverErrorChannelNotAccessible:            "DRIVER_ERROR_CHANNEL_NOT_ACCESSIBLE",
	FlagDriverErrorTimeout:                         "DRIVER_ERROR_TIMEOUT",
	FlagDriverErrorUnspecified:                     "DRIVER_ERROR_UNSPECIFIED",
	FlagDriverThrewUnknownException:                "DRIVER_THREW_UNKNOWN_EXCEPTION",
	FlagCannotWriteNullValue:                       "CANNOT_WRITE_NULL_VALUE",
	FlagValueIsNaN:                                 "VALUE_IS_NAN",
	FlagStartedLateAndTimedOut:                     "STARTED_LATE_AND_TIMED_OUT",
}

// String returns the framework name of the flag
func (f Flag) String() string {
	if name, ok := flagNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// Validity is what the parser makes of a record flag
type Validity int

const (
	// Valid records are encoded
	Valid Validity = iota
	// Pending records have not been sampled yet and are skipped silently
	Pending
	// Invalid records are skipped with a warning, or rejected on the single path
	Invalid
)

// String returns the string representation of the validity
func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Pending:
		return "pending"
	default:
		return "invalid"
	}
}

// ValidityOf maps a record flag to a validity
func ValidityOf(f Flag) Validity {
	switch f {
	case FlagValid:
		return Valid
	case FlagNoValueReceivedYet:
		return Pending
	default:
		return Invalid
	}
}
