package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/colorcarbon/internal/model"
)

// JSONWriter outputs analyses in JSON format, one document per Write.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for our needs and keeps the output
// stable across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
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

// Write outputs the analysis in JSON format.
func (w *JSONWriter) Write(analysis *model.Analysis) (int, error) {
	return w.writeJSON(analysis)
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

	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps an analysis with tool metadata.
type JSONReport struct {
	// Version is the colorcarbon version that generated this report.
	Version string `json:"version"`

	// Status is the user-facing outcome, empty on success.
	Status string `json:"status,omitempty"`

	// Analysis is the full analysis.
	Analysis *model.Analysis `json:"analysis"`
}

// FullJSONWriter outputs analyses wrapped with version metadata.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for analyses with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the analysis wrapped with metadata.
func (w *FullJSONWriter) Write(analysis *model.Analysis) (int, error) {
	return w.writeJSON(&JSONReport{
		Version:  w.version,
		Status:   StatusMessage(analysis),
		Analysis: analysis,
	})
}
