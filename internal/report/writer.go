package report

import (
	"io"

	"github.com/nao1215/linkpeek/internal/model"
)

// Writer defines the interface for report output.
// Implementations write analysis results in various formats.
type Writer interface {
	// Write outputs the analyses to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(analyses []*model.Analysis) (int, error)
}

// MultiWriter writes to multiple Writers in sequence.
// The CLI uses it to save a report file while still printing a summary.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because each destination may want a different
// format; we write analyses, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the analyses to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(analyses []*model.Analysis) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(analyses)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
