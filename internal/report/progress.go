package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nao1215/codexcrawl/internal/crawler"
	"github.com/nao1215/codexcrawl/internal/model"
)

var _ crawler.Reporter = (*ProgressWriter)(nil)

// ProgressWriter prints crawl progress line by line. Write errors are
// ignored; progress output never stops a run.
type ProgressWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewProgressWriter creates a ProgressWriter writing to out.
func NewProgressWriter(out io.Writer) *ProgressWriter {
	return &ProgressWriter{out: out}
}

// TaxonomyFiltered prints the allow-list and the filtered taxonomy.
func (p *ProgressWriter) TaxonomyFiltered(allow []string, kept *model.Taxonomy, ignored []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Allow-list: %s\n", strings.Join(allow, ", ")))
	writeTaxonomy(&sb, kept, ignored)
	p.write(sb.String())
}

// PageParsed prints the page number and the running system count.
func (p *ProgressWriter) PageParsed(_ string, page, _, total int) {
	p.write(fmt.Sprintf("Page %d\n%d systems\n", page, total))
}

// EntryCompleted prints the number of systems found for the entry.
func (p *ProgressWriter) EntryCompleted(id string, rec model.Record) {
	p.write(fmt.Sprintf("Found %d systems for %s\n", rec.Total(), id))
}

// EntryFailed prints why the entry was skipped.
func (p *ProgressWriter) EntryFailed(id string, err error) {
	p.write(fmt.Sprintf("Skipping %s: %v\n", id, err))
}

func (p *ProgressWriter) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, s)
}
