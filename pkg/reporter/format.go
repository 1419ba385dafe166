package reporter

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	tabHeader         = "Commit ID\tClassification\tBug-related\tMessage"
	separatorWidth    = 60
	pipeHeader        = "==== Commit Analysis Log ===="
	transcriptHeader  = "==== Commit Messages ===="
	transcriptIDLabel = "Commit ID: "
)

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// Record is one reported commit.
type Record struct {
	CommitID   string
	Message    string
	Class      string
	BugRelated bool
}

// logHeader returns the lines opening a structured log.
func logHeader(layout Layout) []string {
	if layout == LayoutPipe {
		return []string{pipeHeader, ""}
	}

	return []string{tabHeader, strings.Repeat("-", separatorWidth)}
}

// logLine formats a record as one structured log line.
func logLine(layout Layout, r Record) string {
	message := singleLine(r.Message)
	bug := strconv.FormatBool(r.BugRelated)

	if layout == LayoutPipe {
		return "Commit: " + r.CommitID +
			" | Type: " + r.Class +
			" | Bug-related: " + bug +
			" | Message: " + message
	}

	return strings.Join([]string{r.CommitID, r.Class, bug, strings.ReplaceAll(message, "\t", " ")}, "\t")
}

// singleLine trims the message and collapses every run of line breaks into a
// single space.
func singleLine(message string) string {
	return lineBreaks.ReplaceAllString(strings.TrimSpace(message), " ")
}

// transcriptHeaderLines returns the lines opening a message transcript.
func transcriptHeaderLines() []string {
	return []string{transcriptHeader, ""}
}

// transcriptBlock formats a record as a transcript entry: the id line, the
// trimmed message with its line breaks, and a blank separator line.
func transcriptBlock(r Record) []string {
	return []string{transcriptIDLabel + r.CommitID, strings.TrimSpace(r.Message), ""}
}
