package reporter

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Sink names used in logs and metrics.
const (
	sinkLog        = "log"
	sinkTranscript = "transcript"
)

// sink is an append-only line file. Every write is flushed before it returns.
type sink struct {
	name string
	path string
	file *os.File
	w    *bufio.Writer
}

// openSink creates or truncates path and writes the header lines.
func openSink(name, path string, header []string) (*sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s file: %w", name, err)
	}

	s := &sink{name: name, path: path, file: f, w: bufio.NewWriter(f)}

	err = s.writeLines(header...)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}

	return s, nil
}

// writeLines appends each line followed by a newline and flushes.
func (s *sink) writeLines(lines ...string) error {
	for _, line := range lines {
		_, err := s.w.WriteString(line)
		if err == nil {
			err = s.w.WriteByte('\n')
		}

		if err != nil {
			return fmt.Errorf("write %s: %w", s.name, err)
		}
	}

	err := s.w.Flush()
	if err != nil {
		return fmt.Errorf("flush %s: %w", s.name, err)
	}

	return nil
}

// close flushes and closes the file. It is safe to call more than once.
func (s *sink) close() error {
	if s == nil || s.file == nil {
		return nil
	}

	flushErr := s.w.Flush()
	closeErr := s.file.Close()
	s.file = nil

	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("close %s: %w", s.name, err)
	}

	return nil
}
