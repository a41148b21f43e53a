// Package parser converts host records to Easy Smart Grid node payloads and back.
//
// Single readings travel as one JSON object carrying a unit; forecasts travel as
// an array of hourly entries on topics ending in "/forecast". A Parser holds no
// mutable state, so one instance may serve concurrent callers.
package parser

import (
	"fmt"

	"esg-node-parser/internal/clock"
	"esg-node-parser/internal/codec"
	"esg-node-parser/internal/config"
	perrors "esg-node-parser/internal/errors"
	"esg-node-parser/internal/host"
	"esg-node-parser/internal/logger"
	"esg-node-parser/internal/metrics"
)

// DefaultID is the key the parser registers under
const DefaultID = config.DefaultParserID

// Parser implements host.ParserService
type Parser struct {
	id        string
	clock     clock.Clock
	log       logger.ILogger
	metrics   metrics.Collector
	errors    *perrors.Handler
	strict    bool
	validator *codec.Validator
}

// Option configures a Parser
type Option func(*Parser)

// WithID sets the registration key
func WithID(id string) Option {
	return func(p *Parser) { p.id = id }
}

// WithClock sets the source of "now"
func WithClock(c clock.Clock) Option {
	return func(p *Parser) { p.clock = c }
}

// WithLogger sets the logger
func WithLogger(log logger.ILogger) Option {
	return func(p *Parser) { p.log = log }
}

// WithMetrics sets the metrics collector
func WithMetrics(m metrics.Collector) Option {
	return func(p *Parser) { p.metrics = m }
}

// WithSchemaValidation checks every payload against the wire schema before decoding
func WithSchemaValidation(enabled bool) Option {
	return func(p *Parser) { p.strict = enabled }
}

// WithSettings applies configured parser settings
func WithSettings(s config.ParserSettings) Option {
	return func(p *Parser) {
		if s.ID != "" {
			p.id = s.ID
		}
		p.clock = clock.NewSystem(s.Location)
		p.strict = s.StrictSchema
	}
}

// New creates a parser
func New(opts ...Option) (*Parser, error) {
	p := &Parser{
		id:      DefaultID,
		clock:   clock.NewSystem(nil),
		log:     logger.NewNullLogger(),
		metrics: metrics.NewNullMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.id == "" {
		return nil, fmt.Errorf("parser id must not be empty")
	}
	if p.clock == nil {
		return nil, fmt.Errorf("parser clock must not be nil")
	}
	if p.log == nil {
		p.log = logger.NewNullLogger()
	}
	if p.metrics == nil {
		p.metrics = metrics.NewNullMetrics()
	}
	if p.strict {
		v, err := codec.NewValidator()
		if err != nil {
			return nil, err
		}
		p.validator = v
	}

	p.log = p.log.With("parser", p.id)
	p.errors = perrors.NewHandler(p.log, p.metrics)
	return p, nil
}

// ID returns the registration key
func (p *Parser) ID() string {
	return p.id
}

// fail reports err and counts the failed call
func (p *Parser) fail(log logger.ILogger, op string, err error) error {
	p.metrics.IncrementFailed(op)
	p.errors.HandleWith(log, err)
	return err
}

var _ host.ParserService = (*Parser)(nil)
