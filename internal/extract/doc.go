// Package extract pulls codex data out of EDSM search pages.
//
// One streaming pass over the HTML tokens yields two datasets:
//   - the codex taxonomy, read from the <select name="codexEntry[]"> widget
//     (optgroup label -> option value -> option text)
//   - the system names of a results page, read positionally from the
//     <strong> element in the second column of each results table row
//
// The scan keeps an explicit state (inside container, inside table body,
// current column, capturing name, inside selector, current group,
// capturing option) rather than a DOM, so the pages only need to keep
// those few landmarks stable.
//
// Pages may also be fed in arbitrary pieces with Feed; bytes that do not
// yet form a complete token wait for the next piece, and Result flushes
// them at the end.
//
// # Usage
//
//	res, err := extract.Extract(body)
//	if err != nil {
//		return err
//	}
//	category, name, ok := res.Taxonomy.Lookup("12")
package extract
