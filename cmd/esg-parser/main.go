package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"esg-node-parser/internal/codec"
	"esg-node-parser/internal/config"
	"esg-node-parser/internal/host"
	"esg-node-parser/internal/logger"
	"esg-node-parser/internal/metrics"
	"esg-node-parser/internal/parser"
	"esg-node-parser/internal/topic"
)

// Application wires configuration, logging, metrics and the parser service
type Application struct {
	config    *config.Config
	log       *logger.Logger
	registry  *host.Registry
	component *parser.Component
	gatherer  prometheus.Gatherer // nil when metrics are disabled
}

// NewApplication creates a new application instance
func NewApplication(configPath string) (app *Application, err error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("error loading configuration: %w", err)
		}
		cfg = loaded
	}

	log := logger.NewLogger(config.NewLoggingSettings(cfg))
	defer func() {
		if err != nil {
			_ = log.Close()
		}
	}()

	parserSettings, err := config.NewParserSettings(cfg)
	if err != nil {
		return nil, err
	}

	app = &Application{
		config:   cfg,
		log:      log,
		registry: host.NewRegistry(),
	}

	var collector metrics.Collector = metrics.NewNullMetrics()
	if ms := config.NewMetricsSettings(cfg); ms.Enabled {
		reg := prometheus.NewRegistry()
		pm, err := metrics.NewPrometheusMetrics(ms.Namespace, reg)
		if err != nil {
			return nil, err
		}
		collector = pm
		app.gatherer = reg
	}

	p, err := parser.New(
		parser.WithSettings(parserSettings),
		parser.WithLogger(log),
		parser.WithMetrics(collector),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating parser: %w", err)
	}

	app.component = parser.NewComponent(p, log)
	if err := app.component.Activate(app.registry); err != nil {
		return nil, fmt.Errorf("error registering parser: %w", err)
	}
	return app, nil
}

// Close unregisters the parser, writes collected metrics to w and closes the log file
func (app *Application) Close(w io.Writer) {
	defer func() {
		if err := app.log.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", err)
		}
	}()

	app.component.Deactivate()
	if app.gatherer == nil {
		return
	}

	families, err := app.gatherer.Gather()
	if err != nil {
		app.log.LogWarn("Failed to gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			app.log.LogWarn("Failed to write metrics: %v", err)
			return
		}
	}
}

func (app *Application) service() (host.ParserService, error) {
	svc, ok := app.registry.Get(app.config.Parser.ID)
	if !ok {
		return nil, fmt.Errorf("parser %q is not registered", app.config.Parser.ID)
	}
	return svc, nil
}

func (app *Application) encode(address string, value float64, at time.Time) ([]byte, error) {
	svc, err := app.service()
	if err != nil {
		return nil, err
	}
	rec := host.Record{Value: host.DoubleValue(value), Flag: host.FlagValid}
	if !at.IsZero() {
		rec.Timestamp = at.UnixMilli()
	}
	return svc.EncodeRecord(rec, host.Channel{Address: address})
}

// forecast encodes one value per hour; an empty entry is a reading not received yet
func (app *Application) forecast(address string, values []string) ([]byte, error) {
	svc, err := app.service()
	if err != nil {
		return nil, err
	}

	recs := make([]host.LoggingRecord, 0, len(values))
	for hour, text := range values {
		rec := host.LoggingRecord{
			ChannelID:       fmt.Sprintf("forecast_%02d", hour),
			ChannelSettings: fmt.Sprintf("hour=%d", hour),
			LoggingSettings: "cli:topic=" + address,
			Record:          host.FlagRecord(host.FlagNoValueReceivedYet),
		}
		if text = strings.TrimSpace(text); text != "" {
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("hour %d: %w", hour, err)
			}
			rec.Record = host.Record{Value: host.DoubleValue(v), Flag: host.FlagValid}
		}
		recs = append(recs, rec)
	}
	return svc.EncodeMany(recs)
}

func (app *Application) decode(address string, hour int, payload []byte) (host.Record, error) {
	svc, err := app.service()
	if err != nil {
		return host.Record{}, err
	}
	container := host.Channel{Address: address}
	if hour >= 0 {
		container.Settings = fmt.Sprintf("hour=%d", hour)
	}
	return svc.Decode(payload, container)
}

func readPayload(arg string) ([]byte, error) {
	if arg != "" && arg != "-" {
		return []byte(arg), nil
	}
	return io.ReadAll(bufio.NewReader(os.Stdin))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  encode    -topic T -value V [-timestamp RFC3339]\n")
	fmt.Fprintf(os.Stderr, "  forecast  -topic T -values v0,v1,...,v23\n")
	fmt.Fprintf(os.Stderr, "  decode    -topic T [-hour H] [-payload JSON|-]\n")
	fmt.Fprintf(os.Stderr, "  validate  [-forecast] [-payload JSON|-]\n")
	fmt.Fprintf(os.Stderr, "Every command accepts -config PATH.\n")
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		if len(os.Args) < 2 {
			os.Exit(2)
		}
		return
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	address := fs.String("topic", "", "Channel address, e.g. esg/node/power or esg/node/power/forecast")
	value := fs.Float64("value", 0, "Raw value to encode")
	timestamp := fs.String("timestamp", "", "Record timestamp (RFC 3339), defaults to now")
	values := fs.String("values", "", "Comma separated forecast values, one per hour starting at 0")
	hour := fs.Int("hour", -1, "Forecast hour to select when decoding")
	payload := fs.String("payload", "", "Payload to decode or validate, '-' or empty reads stdin")
	forecastMode := fs.Bool("forecast", false, "Validate against the forecast array schema")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if command == "validate" {
		data, err := readPayload(*payload)
		if err != nil {
			return err
		}
		validator, err := codec.NewValidator()
		if err != nil {
			return err
		}
		if err := validator.Validate(data, *forecastMode); err != nil {
			return err
		}
		fmt.Fprintln(out, "valid")
		return nil
	}

	if *address == "" {
		return fmt.Errorf("-topic is required")
	}

	app, err := NewApplication(*configPath)
	if err != nil {
		return err
	}
	defer app.Close(os.Stderr)

	switch command {
	case "encode":
		var at time.Time
		if *timestamp != "" {
			at, err = codec.ParseTimestamp(*timestamp)
			if err != nil {
				return err
			}
		}
		data, err := app.encode(*address, *value, at)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "forecast":
		if !topic.IsForecast(*address) {
			app.log.LogWarn("Topic %s has no /%s suffix", *address, topic.ForecastSuffix)
		}
		data, err := app.forecast(*address, strings.Split(*values, ","))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "decode":
		data, err := readPayload(*payload)
		if err != nil {
			return err
		}
		rec, err := app.decode(*address, *hour, data)
		if err != nil {
			return fmt.Errorf("%s: %w", rec.Flag, err)
		}
		f, _ := rec.Value.Float()
		fmt.Fprintf(out, "%s %s %s\n", rec.Time().Format(codec.TimestampLayout), strconv.FormatFloat(f, 'g', -1, 64), rec.Flag)

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}
