// Package wordfreq counts the words of the commit-message transcript.
package wordfreq

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

const (
	// DefaultMinLength is the shortest word counted by default.
	DefaultMinLength = 3
	// DefaultTop is the default number of words in a report.
	DefaultTop = 10
	// ReportFile is the default report file name.
	ReportFile = "commit_word_frequency.txt"

	transcriptHeader = "==== Commit Messages ===="
	commitIDPrefix   = "Commit ID:"
	separatorWidth   = 42
	maxLineSize      = 1 << 20
)

// WordCount is a word and how often it occurs.
type WordCount struct {
	Word  string `json:"word"  yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Counter accumulates word counts.
type Counter struct {
	minLength int
	counts    map[string]int
	total     int
}

// NewCounter creates a Counter ignoring words shorter than minLength letters.
// Values below one count every word.
func NewCounter(minLength int) *Counter {
	return &Counter{minLength: max(minLength, 1), counts: map[string]int{}}
}

// AddText counts the words of text. Characters other than ASCII letters and
// whitespace are dropped before splitting, so "don't" counts as "dont".
func (c *Counter) AddText(text string) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\v', r == '\f':
			return r
		default:
			return -1
		}
	}, text)

	for _, word := range strings.Fields(strings.ToLower(cleaned)) {
		if len(word) < c.minLength {
			continue
		}

		c.counts[word]++
		c.total++
	}
}

// ReadTranscript counts the message lines of a transcript, skipping its
// header and the commit id lines. An id line only opens a block: it follows
// the header or a blank line and carries a single id, so message lines that
// merely start with the id label are counted.
func (c *Counter) ReadTranscript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	blockStart := true

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			blockStart = true

			continue
		case trimmed == transcriptHeader:
			blockStart = true

			continue
		case blockStart && isIDLine(trimmed):
			blockStart = false

			continue
		}

		blockStart = false

		c.AddText(line)
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	return nil
}

func isIDLine(trimmed string) bool {
	id, ok := strings.CutPrefix(trimmed, commitIDPrefix)

	return ok && len(strings.Fields(id)) == 1
}

// Total returns the number of counted word occurrences.
func (c *Counter) Total() int {
	return c.total
}

// Distinct returns the number of distinct counted words.
func (c *Counter) Distinct() int {
	return len(c.counts)
}

// Top returns the n most frequent words, most frequent first, ties in
// alphabetical order. n <= 0 returns every word.
func (c *Counter) Top(n int) []WordCount {
	out := make([]WordCount, 0, len(c.counts))
	for w, count := range c.counts {
		out = append(out, WordCount{Word: w, Count: count})
	}

	slices.SortFunc(out, func(a, b WordCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}

		return cmp.Compare(a.Word, b.Word)
	})

	if n > 0 && n < len(out) {
		out = out[:n]
	}

	return out
}

// CountFile reads the transcript at path.
func CountFile(path string, minLength int) (*Counter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	c := NewCounter(minLength)

	err = c.ReadTranscript(f)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// WriteReport writes the plain-text frequency report for words, requested as
// the top n.
func WriteReport(w io.Writer, n int, words []WordCount) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Top %d most used words in commit messages:\n", n)
	sb.WriteString(strings.Repeat("-", separatorWidth))
	sb.WriteByte('\n')

	for _, wc := range words {
		fmt.Fprintf(&sb, "%s: %d\n", wc.Word, wc.Count)
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("write word report: %w", err)
	}

	return nil
}

// WriteReportFile writes the report to path, replacing any previous report.
func WriteReportFile(path string, n int, words []WordCount) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create word report: %w", err)
	}

	err = WriteReport(f, n, words)
	if err != nil {
		_ = f.Close()

		return err
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close word report: %w", err)
	}

	return nil
}
