package reporter

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Default file names.
const (
	DefaultLogFile      = "commit_log.txt"
	PipeLogFile         = "commit_analysis_log.txt"
	DefaultMessagesFile = "commit_messages.txt"
)

var (
	// ErrInvalidLocation is returned for an unknown output location name.
	ErrInvalidLocation = errors.New("invalid output location")
	// ErrInvalidLayout is returned for an unknown log layout name.
	ErrInvalidLayout = errors.New("invalid log layout")
)

// Location selects the directory the reports are written to.
type Location string

const (
	// LocationOutputDir writes into the directory supplied by the analysis.
	LocationOutputDir Location = "output_dir"
	// LocationWorkingDir writes into the process working directory.
	LocationWorkingDir Location = "working_dir"
)

// ParseLocation parses a location name. The empty string selects
// LocationOutputDir.
func ParseLocation(s string) (Location, error) {
	switch Location(strings.ToLower(strings.TrimSpace(s))) {
	case "", LocationOutputDir:
		return LocationOutputDir, nil
	case LocationWorkingDir:
		return LocationWorkingDir, nil
	default:
		return "", fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidLocation, s, LocationOutputDir, LocationWorkingDir)
	}
}

// resolve returns the directory for this location.
func (l Location) resolve(outputDir string) (string, error) {
	if l == LocationWorkingDir {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("working directory: %w", err)
		}

		return wd, nil
	}

	if outputDir == "" {
		return ".", nil
	}

	return outputDir, nil
}

// Layout selects the line format of the structured log.
type Layout string

const (
	// LayoutTab writes tab-separated columns under a column header.
	LayoutTab Layout = "tab"
	// LayoutPipe writes labelled fields joined by " | ".
	LayoutPipe Layout = "pipe"
)

// ParseLayout parses a layout name. The empty string selects LayoutTab.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutTab:
		return LayoutTab, nil
	case LayoutPipe:
		return LayoutPipe, nil
	default:
		return "", fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidLayout, s, LayoutTab, LayoutPipe)
	}
}

// Options configures where and how a Reporter writes.
type Options struct {
	Location     Location
	Layout       Layout
	LogFile      string
	MessagesFile string
}

// DefaultOptions returns the tab layout in the analysis output directory.
func DefaultOptions() Options {
	return Options{
		Location:     LocationOutputDir,
		Layout:       LayoutTab,
		LogFile:      DefaultLogFile,
		MessagesFile: DefaultMessagesFile,
	}
}

// withDefaults fills empty fields. The pipe layout defaults to its own log
// file name.
func (o Options) withDefaults() Options {
	if o.Location == "" {
		o.Location = LocationOutputDir
	}

	if o.Layout == "" {
		o.Layout = LayoutTab
	}

	if o.LogFile == "" {
		o.LogFile = DefaultLogFile
		if o.Layout == LayoutPipe {
			o.LogFile = PipeLogFile
		}
	}

	if o.MessagesFile == "" {
		o.MessagesFile = DefaultMessagesFile
	}

	return o
}
