// Package config loads commitclass settings from a YAML file, environment
// variables, and defaults.
package config

// Output defaults.
const (
	DefaultOutputDirectory    = "."
	DefaultOutputLocation     = "output_dir"
	DefaultOutputLayout       = "tab"
	DefaultOutputLogFile      = ""
	DefaultOutputMessagesFile = "commit_messages.txt"
)

// History walk defaults.
const (
	DefaultHistoryFirstParent = false
	DefaultHistoryLimit       = 0
	DefaultHistorySince       = ""
	DefaultHistoryMaxFileSize = "1MB"
	DefaultHistoryAnnotations = true
)

// Word frequency defaults.
const (
	DefaultWordsEnabled   = false
	DefaultWordsTop       = 10
	DefaultWordsMinLength = 3
	DefaultWordsFile      = "commit_word_frequency.txt"
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetrySampleRatio  = 0.0
	DefaultTelemetryMetricsAddr  = ""
	DefaultTelemetryEnvironment  = ""
)
