package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/codexcrawl/internal/model"
)

// JSONWriter outputs per-entry counts in JSON format.
// The result store itself already is JSON; this view adds the derived
// counts and drops the system lists.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string
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

// StoreReport is the JSON document written by JSONWriter.
type StoreReport struct {
	// Entries is the number of stored entries.
	Entries int `json:"entries"`

	// Systems is the number of system occurrences over all entries.
	Systems int `json:"systems"`

	// Items holds one element per entry, sorted by id.
	Items []EntryStats `json:"items"`
}

// WriteStore outputs the store summary.
func (w *JSONWriter) WriteStore(records map[string]model.Record) (int, error) {
	stats := collectStats(records)
	doc := StoreReport{Entries: len(stats), Items: stats}
	for _, s := range stats {
		doc.Systems += s.Total
	}
	return w.writeJSON(doc)
}

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
