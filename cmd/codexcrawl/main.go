// Package main provides the entry point for the codexcrawl CLI.
//
// codexcrawl extracts the codex taxonomy from the EDSM system search and
// collects, per codex entry, the star systems where it was reported. The
// results accumulate in a JSON file; re-running the crawl resumes where the
// previous run stopped.
//
// Usage:
//
//	codexcrawl crawl
//	codexcrawl report --markdown -o codex.md
//
// See --help for all available options.
package main

// main is the entry point for codexcrawl.
func main() {
	Execute()
}
