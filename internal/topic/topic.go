// Package topic classifies exchange topics into value kinds.
//
// Pattern: {prefix...}/{kind}[/forecast]
// The kind segment is matched case-insensitively, the forecast marker is not.
package topic

import (
	"strings"

	perrors "esg-node-parser/internal/errors"
	"esg-node-parser/internal/valuekind"
)

// ForecastSuffix marks a topic carrying a forecast array
const ForecastSuffix = "forecast"

const separator = "/"

// Classification is the result of classifying a topic
type Classification struct {
	Kind       valuekind.Kind
	IsForecast bool
	BaseTopic  string // topic without the forecast marker
}

// Classify resolves the value kind named by the last segment of t
func Classify(t string) (Classification, error) {
	segments, forecast := split(t)
	if len(segments) == 0 {
		return Classification{}, perrors.Newf("classify", perrors.ErrUnknownValueKind, "empty topic %q", t)
	}

	kind, err := valuekind.Parse(segments[len(segments)-1])
	if err != nil {
		return Classification{}, perrors.Newf("classify", perrors.ErrUnknownValueKind, "topic %q", t)
	}

	return Classification{
		Kind:       kind,
		IsForecast: forecast,
		BaseTopic:  strings.Join(segments, separator),
	}, nil
}

// Base returns t without its forecast marker and trailing separators
func Base(t string) string {
	segments, _ := split(t)
	return strings.Join(segments, separator)
}

// IsForecast reports whether t ends in the forecast marker
func IsForecast(t string) bool {
	_, forecast := split(t)
	return forecast
}

// StripSettings returns the part of a channel address before the first ';'
func StripSettings(address string) string {
	head, _, _ := strings.Cut(address, ";")
	return strings.TrimSpace(head)
}

func split(t string) ([]string, bool) {
	segments := strings.Split(t, separator)
	// trailing empty segments carry no meaning
	for len(segments) > 0 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}

	forecast := false
	if len(segments) > 0 && segments[len(segments)-1] == ForecastSuffix {
		forecast = true
		segments = segments[:len(segments)-1]
	}
	return segments, forecast
}
