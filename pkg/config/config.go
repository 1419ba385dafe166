package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/commitclass/pkg/gitlib"
	"github.com/Sumatoshi-tech/commitclass/pkg/observability"
	"github.com/Sumatoshi-tech/commitclass/pkg/reporter"
	"github.com/Sumatoshi-tech/commitclass/pkg/safeconv"
)

// Sentinel validation errors.
var (
	ErrInvalidLimit       = errors.New("history limit must not be negative")
	ErrInvalidMaxFileSize = errors.New("invalid max file size")
	ErrInvalidSince       = errors.New("invalid since value")
	ErrInvalidTop         = errors.New("words top must be positive")
	ErrInvalidMinLength   = errors.New("words min length must be positive")
	ErrInvalidLogFormat   = errors.New("logging format must be text or json")
	ErrInvalidSampleRatio = errors.New("sample ratio must be between 0 and 1")
)

// Config holds all commitclass configuration.
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	History   HistoryConfig   `mapstructure:"history"`
	Words     WordsConfig     `mapstructure:"words"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// OutputConfig controls where the reports go and how they look.
type OutputConfig struct {
	Directory    string `mapstructure:"directory"`
	Location     string `mapstructure:"location"`
	Layout       string `mapstructure:"layout"`
	LogFile      string `mapstructure:"log_file"`
	MessagesFile string `mapstructure:"messages_file"`
}

// HistoryConfig controls the commit walk.
type HistoryConfig struct {
	Languages   []string `mapstructure:"languages"`
	Since       string   `mapstructure:"since"`
	MaxFileSize string   `mapstructure:"max_file_size"`
	Limit       int      `mapstructure:"limit"`
	FirstParent bool     `mapstructure:"first_parent"`
	Annotations bool     `mapstructure:"annotations"`
}

// WordsConfig controls the word frequency report.
type WordsConfig struct {
	File      string `mapstructure:"file"`
	Top       int    `mapstructure:"top"`
	MinLength int    `mapstructure:"min_length"`
	Enabled   bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry and Prometheus settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	_, err := c.ReporterOptions()
	if err != nil {
		return err
	}

	if c.History.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, c.History.Limit)
	}

	_, err = c.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	_, err = c.SinceTime()
	if err != nil {
		return err
	}

	if c.Words.Top <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTop, c.Words.Top)
	}

	if c.Words.MinLength <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMinLength, c.Words.MinLength)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// ReporterOptions converts the output section into reporter options.
func (c *Config) ReporterOptions() (reporter.Options, error) {
	location, err := reporter.ParseLocation(c.Output.Location)
	if err != nil {
		return reporter.Options{}, err
	}

	layout, err := reporter.ParseLayout(c.Output.Layout)
	if err != nil {
		return reporter.Options{}, err
	}

	return reporter.Options{
		Location:     location,
		Layout:       layout,
		LogFile:      c.Output.LogFile,
		MessagesFile: c.Output.MessagesFile,
	}, nil
}

// MaxFileSizeBytes parses history.max_file_size ("512KB", "1MiB", "0").
func (c *Config) MaxFileSizeBytes() (int64, error) {
	if c.History.MaxFileSize == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(c.History.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMaxFileSize, err)
	}

	size, err := safeconv.Uint64ToInt64(n)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMaxFileSize, err)
	}

	return size, nil
}

// SinceTime parses history.since. An empty value returns nil.
func (c *Config) SinceTime() (*time.Time, error) {
	if c.History.Since == "" {
		return nil, nil //nolint:nilnil // no lower bound configured.
	}

	t, err := gitlib.ParseTime(c.History.Since)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSince, err)
	}

	return &t, nil
}

// Observability converts the logging and telemetry sections into an
// observability configuration for the given binary version.
func (c *Config) Observability(version string) observability.Config {
	obs := observability.DefaultConfig()
	obs.ServiceVersion = version
	obs.Environment = c.Telemetry.Environment
	obs.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obs.OTLPInsecure = c.Telemetry.OTLPInsecure
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.Prometheus = c.Telemetry.MetricsAddr != ""
	obs.LogLevel = observability.ParseLogLevel(c.Logging.Level)
	obs.LogJSON = strings.EqualFold(c.Logging.Format, "json")

	return obs
}
