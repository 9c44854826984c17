// Package report renders codexcrawl output.
//
// Writers for the result store:
//   - SimpleWriter: one "name (unique/total)" line per entry
//   - JSONWriter: per-entry counts for tool integration
//   - MarkdownWriter: a GitHub-flavored report with tables and a mermaid chart
//
// ProgressWriter prints the progress of a running crawl and implements
// crawler.Reporter.
package report
