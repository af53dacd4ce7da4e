package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/linkpeek/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because the model types already carry the field names the
// HTTP API uses, and the CLI output should be byte-compatible with it.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is embedded in the output wrapper.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the version string written into the report wrapper.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the document JSONWriter produces.
//
// Design decision: We wrap the analyses rather than emitting a bare array
// so output-specific fields (version, summary) never pollute model types.
type JSONReport struct {
	// Version is the linkpeek version that generated this report.
	Version string `json:"version,omitempty"`

	// Summary aggregates the analyses.
	Summary Summary `json:"summary"`

	// Results holds one entry per analyzed URL, in input order.
	Results []*model.Analysis `json:"results"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(analyses []*model.Analysis, version string) *JSONReport {
	results := make([]*model.Analysis, 0, len(analyses))
	for _, a := range analyses {
		if a != nil {
			results = append(results, a)
		}
	}
	return &JSONReport{
		Version: version,
		Summary: Summarize(results),
		Results: results,
	}
}

// Write outputs the analyses in JSON format.
func (w *JSONWriter) Write(analyses []*model.Analysis) (int, error) {
	return w.writeJSON(NewJSONReport(analyses, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
