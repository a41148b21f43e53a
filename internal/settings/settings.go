// Package settings parses the flat key=value lists the host attaches to channels and loggers.
package settings

import (
	"strconv"
	"strings"

	perrors "esg-node-parser/internal/errors"
)

// Segment separators used by the host
const (
	ChannelSeparators = ";"
	LoggingSeparators = ";:"
)

// Recognized keys
const (
	KeyTopic = "topic"
	KeyHour  = "hour"
)

// Pairs is a parsed settings list
type Pairs map[string]string

// Parse splits text on any rune in separators and each segment on its first '='.
// Segments without '=' are ignored; the first occurrence of a key wins.
func Parse(text string, separators string) Pairs {
	pairs := make(Pairs)
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})

	for _, segment := range segments {
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, exists := pairs[key]; exists {
			continue
		}
		pairs[key] = strings.TrimSpace(value)
	}
	return pairs
}

// Required returns the value of key or ErrMissingKey
func (p Pairs) Required(key string) (string, error) {
	value, ok := p[key]
	if !ok {
		return "", perrors.Newf("settings", perrors.ErrMissingKey, "%q", key)
	}
	return value, nil
}

// Int returns the integer value of key
func (p Pairs) Int(key string) (int, error) {
	value, err := p.Required(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, perrors.New("settings", perrors.ErrNotAnInteger, err)
	}
	return n, nil
}
