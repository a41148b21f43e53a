package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"esg-node-parser/internal/logger"
)

// DefaultParserID is the key the parser registers under when none is configured
const DefaultParserID = "esg-node"

// Config represents the complete parser configuration
type Config struct {
	Version string        `mapstructure:"version"`
	Parser  ParserConfig  `mapstructure:"parser"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ParserConfig contains codec settings
type ParserConfig struct {
	ID           string `mapstructure:"id"`            // Registration key
	Timezone     string `mapstructure:"timezone"`      // IANA name used for "now", "Local" or "UTC"
	StrictSchema bool   `mapstructure:"strict_schema"` // Validate payloads against the wire schema before decoding
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"` // Empty logs to stdout
}

// MetricsConfig contains Prometheus collector settings
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LoadConfig loads configuration from the given file or the first fallback location found
func LoadConfig(configPath string) (*Config, error) {
	paths := []string{
		configPath,
		"/etc/esg-node-parser/config.yaml",
		"./config.yaml",
	}

	var data []byte
	var err error
	var usedPath string

	for _, path := range paths {
		if path == "" {
			continue
		}
		// #nosec G304 - Paths are the caller's choice or a fixed list of configuration locations
		data, err = os.ReadFile(path)
		if err == nil {
			usedPath = path
			break
		}
	}

	if usedPath == "" {
		if err == nil {
			err = os.ErrNotExist
		}
		return nil, errors.Wrapf(err, "cannot read configuration file from any of the locations: %v", paths)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %s", usedPath)
	}
	return cfg, nil
}

// Parse decodes YAML configuration, expanding ${VAR} references and applying defaults
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	// Version is checked before the full decode
	var versionCheck VersionInfo
	if err := yaml.Unmarshal([]byte(expanded), &versionCheck); err != nil {
		return nil, errors.Wrap(err, "error parsing configuration version")
	}
	if versionCheck.Version != "" {
		if err := ValidateVersion(versionCheck.Version); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewReader([]byte(expanded))); err != nil {
		return nil, errors.Wrap(err, "error parsing configuration")
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	// viper reads an unquoted 1.0 as a float
	if versionCheck.Version != "" {
		cfg.Version = versionCheck.Version
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error decoding configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("version", CurrentVersion)

	v.SetDefault("parser.id", DefaultParserID)
	v.SetDefault("parser.timezone", "Local")
	v.SetDefault("parser.strict_schema", false)

	v.SetDefault("logging.level", logger.LogLevelInfo)
	v.SetDefault("logging.format", logger.FormatJSON)
	v.SetDefault("logging.file", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "esg_parser")
}

// Validate checks the configuration for values the parser cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Parser.ID) == "" {
		return errors.New("parser.id must not be empty")
	}
	if _, err := time.LoadLocation(c.Parser.Timezone); err != nil {
		return errors.Wrapf(err, "parser.timezone %q", c.Parser.Timezone)
	}

	switch strings.ToLower(c.Logging.Level) {
	case logger.LogLevelError, logger.LogLevelWarn, logger.LogLevelInfo, logger.LogLevelDebug, logger.LogLevelTrace:
	default:
		return errors.Errorf("logging.level %q is not one of error, warn, info, debug, trace", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case logger.FormatJSON, logger.FormatText:
	default:
		return errors.Errorf("logging.format %q is not one of json, text", c.Logging.Format)
	}

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Namespace) == "" {
		return errors.New("metrics.namespace must not be empty when metrics are enabled")
	}
	return nil
}
