package config

import (
	"time"

	"github.com/pkg/errors"

	"esg-node-parser/internal/logger"
)

// ParserSettings contains only parser-specific configuration
// Used for dependency injection to avoid coupling to full Config
type ParserSettings struct {
	ID           string
	Location     *time.Location
	StrictSchema bool
}

// NewParserSettings extracts parser settings from full config
func NewParserSettings(cfg *Config) (ParserSettings, error) {
	loc, err := time.LoadLocation(cfg.Parser.Timezone)
	if err != nil {
		return ParserSettings{}, errors.Wrapf(err, "parser.timezone %q", cfg.Parser.Timezone)
	}
	return ParserSettings{
		ID:           cfg.Parser.ID,
		Location:     loc,
		StrictSchema: cfg.Parser.StrictSchema,
	}, nil
}

// NewLoggingSettings extracts logger settings from full config
func NewLoggingSettings(cfg *Config) logger.LoggingSettings {
	return logger.LoggingSettings{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}
}

// MetricsSettings contains metrics configuration
// Used for dependency injection to avoid coupling to full Config
type MetricsSettings struct {
	Enabled   bool
	Namespace string
}

// NewMetricsSettings extracts metrics settings from full config
func NewMetricsSettings(cfg *Config) MetricsSettings {
	return MetricsSettings{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
	}
}
