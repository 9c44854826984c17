package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/codexcrawl/internal/model"
)

// SimpleWriter outputs plain text suitable for a terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds the duplicate count to every line.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteStore prints "name (unique/total)" for every record, sorted by id.
func (w *SimpleWriter) WriteStore(records map[string]model.Record) (int, error) {
	var sb strings.Builder
	for _, s := range collectStats(records) {
		sb.WriteString(fmt.Sprintf("%s (%d/%d)", s.Name, s.Unique, s.Total))
		if w.verbose {
			sb.WriteString(fmt.Sprintf(" [%s, id %s, %d duplicates]", s.Classification, s.ID, s.Duplicates))
		}
		sb.WriteString("\n")
	}
	return w.output.Write([]byte(sb.String()))
}

// WriteTaxonomy prints the categories kept by the allow-list with their
// entries, followed by the ignored category names.
func (w *SimpleWriter) WriteTaxonomy(kept *model.Taxonomy, ignored []string) (int, error) {
	var sb strings.Builder
	writeTaxonomy(&sb, kept, ignored)
	return w.output.Write([]byte(sb.String()))
}

func writeTaxonomy(sb *strings.Builder, kept *model.Taxonomy, ignored []string) {
	for _, c := range kept.Categories() {
		sb.WriteString(fmt.Sprintf("%s : %d entries\n", c.Name, c.Len()))
		for _, e := range c.Entries {
			sb.WriteString(fmt.Sprintf("  %s (%s)\n", e.Name, e.ID))
		}
	}
	for _, name := range ignored {
		sb.WriteString(fmt.Sprintf("Ignoring %s\n", name))
	}
}
