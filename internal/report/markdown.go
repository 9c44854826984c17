package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nao1215/codexcrawl/internal/model"
)

// MarkdownWriter outputs the result store as a GitHub-flavored Markdown
// report.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteStore writes a summary, a chart of systems per classification and
// one table per classification.
func (w *MarkdownWriter) WriteStore(records map[string]model.Record) (int, error) {
	md := markdown.NewMarkdown(w.output)
	stats := collectStats(records)
	groups := groupByClassification(stats)

	md.H1("EDSM Codex Report")
	md.PlainText("")

	if len(stats) == 0 {
		md.Note("The result store is empty. Run `codexcrawl crawl` first.")
		return len(md.String()), md.Build()
	}

	w.writeSummary(md, stats, groups)
	w.writePieChart(md, groups)
	w.writeAlert(md, stats)
	w.writeClassifications(md, groups)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, stats []EntryStats, groups []*classificationStats) {
	var total, unique int
	for _, s := range stats {
		total += s.Total
		unique += s.Unique
	}

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Classifications", strconv.Itoa(len(groups))},
			{"Entries", strconv.Itoa(len(stats))},
			{"System occurrences", strconv.Itoa(total)},
			{"Unique systems per entry (sum)", strconv.Itoa(unique)},
		},
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of system occurrences per
// classification. Empty classifications are left out.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, groups []*classificationStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Systems per Classification"),
		piechart.WithShowData(true),
	)

	plotted := 0
	for _, g := range groups {
		if g.Total == 0 {
			continue
		}
		chart.LabelAndIntValue(g.Name, uint64(g.Total)) //nolint:gosec // Total is a slice length
		plotted++
	}
	if plotted == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, stats []EntryStats) {
	withDuplicates := 0
	for _, s := range stats {
		if s.Duplicates > 0 {
			withDuplicates++
		}
	}

	if withDuplicates > 0 {
		md.Warningf("%d entries list the same system more than once. Totals count every occurrence.", withDuplicates)
	} else {
		md.Tip("No entry lists a system twice.")
	}
	md.PlainText("")
}

// writeClassifications writes one section per classification with its
// entries in English collation order.
func (w *MarkdownWriter) writeClassifications(md *markdown.Markdown, groups []*classificationStats) {
	col := collate.New(language.English)

	names := make([]string, 0, len(groups))
	byName := make(map[string]*classificationStats, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
		byName[g.Name] = g
	}
	col.SortStrings(names)

	for _, name := range names {
		g := byName[name]
		entries := append([]EntryStats(nil), g.Entries...)
		sort.SliceStable(entries, func(i, j int) bool {
			return col.CompareString(entries[i].Name, entries[j].Name) < 0
		})

		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{
				e.Name,
				"`" + e.ID + "`",
				strconv.Itoa(e.Unique),
				strconv.Itoa(e.Total),
			}
		}

		title := name
		if title == "" {
			title = "(unclassified)"
		}
		md.H2(title)
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Entry", "ID", "Unique", "Total"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [codexcrawl](https://github.com/nao1215/codexcrawl) from EDSM search data*")
}
