package report

import (
	"io"
	"sort"

	"github.com/nao1215/codexcrawl/internal/model"
)

// Writer renders the contents of a result store.
type Writer interface {
	// WriteStore outputs the records keyed by entry id.
	// Returns the number of bytes written and any error encountered.
	WriteStore(records map[string]model.Record) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteStore outputs the records to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteStore(records map[string]model.Record) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteStore(records)
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

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// EntryStats holds the derived counts of one stored entry.
type EntryStats struct {
	ID             string `json:"id"`
	Classification string `json:"classification"`
	Name           string `json:"name"`
	Total          int    `json:"total"`
	Unique         int    `json:"unique"`
	Duplicates     int    `json:"duplicates"`
}

// collectStats returns one EntryStats per record, sorted by id.
func collectStats(records map[string]model.Record) []EntryStats {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]EntryStats, 0, len(ids))
	for _, id := range ids {
		rec := records[id]
		out = append(out, EntryStats{
			ID:             id,
			Classification: rec.Classification,
			Name:           rec.Name,
			Total:          rec.Total(),
			Unique:         rec.Unique(),
			Duplicates:     rec.Duplicates(),
		})
	}
	return out
}

// classificationStats aggregates entries of one classification.
type classificationStats struct {
	Name    string
	Entries []EntryStats
	Total   int
}

// groupByClassification groups stats in order of first appearance.
func groupByClassification(stats []EntryStats) []*classificationStats {
	groups := make([]*classificationStats, 0)
	byName := make(map[string]*classificationStats)
	for _, s := range stats {
		g, ok := byName[s.Classification]
		if !ok {
			g = &classificationStats{Name: s.Classification}
			byName[s.Classification] = g
			groups = append(groups, g)
		}
		g.Entries = append(g.Entries, s)
		g.Total += s.Total
	}
	return groups
}
