package extract

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/codexcrawl/internal/model"
)

const (
	// codexSelectName is the name attribute of the codex entry selector.
	codexSelectName = "codexEntry[]"

	// containerClass marks the outermost page container div.
	containerClass = "container"

	// nameColumn is the 1-based column of the results table holding the
	// system name.
	nameColumn = 2
)

// Result bundles what one document yielded.
type Result struct {
	// Taxonomy is the codex taxonomy found in the selector widget.
	Taxonomy *model.Taxonomy

	// Names lists the system names found in the results table.
	Names []string
}

// Extractor scans HTML tokens and collects the codex taxonomy and the
// system names of a search results page.
//
// It never builds a tree. Scan state lives in a handful of fields updated
// on each structural token, so unbalanced or unexpected markup simply stops
// matching instead of failing.
//
// An Extractor is not safe for concurrent use. Use a fresh one per page.
type Extractor struct {
	taxonomy *model.Taxonomy
	names    []string

	// containerDepth counts open divs since the container div; 0 means
	// outside the container.
	containerDepth int

	// inTable is true inside the results table body.
	inTable bool

	// column is the 1-based index of the current cell in the current row.
	column int

	// inCell is true between <td> and </td>.
	inCell bool

	// capturingName is true inside <strong> of the name column.
	capturingName bool
	name          strings.Builder

	// inSelect is true inside the codex entry selector.
	inSelect bool

	// group is the category that options are assigned to; empty means no
	// group has started in the current selector.
	group string

	// capturingOption is true inside an <option> with a non-empty value.
	capturingOption bool
	optionID        string
	option          strings.Builder

	// nameSeen is true once the current name capture received any text,
	// whitespace included.
	nameSeen bool

	// pending holds fed bytes not yet scanned: an unfinished trailing token,
	// or a raw text element (script, style, ...) still waiting for its end
	// tag.
	pending []byte
}

// heldToken is a token scanned inside an open raw text element.
type heldToken struct {
	tt  html.TokenType
	tok html.Token
}

// New creates an Extractor with empty results.
func New() *Extractor {
	return &Extractor{
		taxonomy: model.NewTaxonomy(),
		names:    make([]string, 0),
	}
}

// Extract runs a fresh Extractor over a complete document.
func Extract(body []byte) (*Result, error) {
	e := New()
	if err := e.Feed(bytes.NewReader(body)); err != nil {
		return nil, err
	}
	return e.Result(), nil
}

// Feed consumes markup from r until EOF. A document may be fed in pieces
// split anywhere, even inside a tag or an attribute value: whatever cannot
// be scanned yet is kept and completed by the next piece. Call Flush (or
// Result) after the last piece. The only errors returned are read errors
// from r.
func (e *Extractor) Feed(r io.Reader) error {
	data, err := io.ReadAll(r)
	e.pending = append(e.pending, data...)
	if err != nil {
		return err
	}
	e.scan(false)
	return nil
}

// Flush scans the kept tail as the end of the document.
func (e *Extractor) Flush() {
	e.scan(true)
}

// scan tokenizes the pending bytes. Unless final, the token touching the
// end of the buffer and any raw text element without its end tag are left
// in pending, so that a fresh tokenizer on the next call sees them whole.
func (e *Extractor) scan(final bool) {
	if len(e.pending) == 0 {
		return
	}

	z := html.NewTokenizer(bytes.NewReader(e.pending))
	var (
		offset   int
		rawStart = -1
		rawTag   atom.Atom
		held     []heldToken
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		end := offset + len(z.Raw())
		if !final && end == len(e.pending) {
			break
		}
		tok := z.Token()

		switch {
		case rawStart >= 0:
			held = append(held, heldToken{tt, tok})
			if tt == html.EndTagToken && tok.DataAtom == rawTag {
				for _, h := range held {
					e.handle(h.tt, h.tok)
				}
				held = held[:0]
				rawStart = -1
			}
		case (tt == html.StartTagToken || tt == html.SelfClosingTagToken) && isRawText(tok.DataAtom):
			rawStart, rawTag = offset, tok.DataAtom
			held = append(held, heldToken{tt, tok})
		default:
			e.handle(tt, tok)
		}
		offset = end
	}

	if final {
		for _, h := range held {
			e.handle(h.tt, h.tok)
		}
		e.pending = nil
		return
	}
	if rawStart >= 0 {
		offset = rawStart
	}
	e.pending = append([]byte(nil), e.pending[offset:]...)
}

func (e *Extractor) handle(tt html.TokenType, tok html.Token) {
	switch tt {
	case html.StartTagToken:
		e.startTag(tok)
	case html.SelfClosingTagToken:
		e.startTag(tok)
		e.endTag(tok)
	case html.EndTagToken:
		e.endTag(tok)
	case html.TextToken:
		e.text(tok.Data)
	}
}

// isRawText reports whether the tokenizer reads the content of a as
// plain text up to the matching end tag.
func isRawText(a atom.Atom) bool {
	switch a {
	case atom.Iframe, atom.Noembed, atom.Noframes, atom.Noscript, atom.Plaintext,
		atom.Script, atom.Style, atom.Textarea, atom.Title, atom.Xmp:
		return true
	}
	return false
}

// Taxonomy returns a copy of the taxonomy collected so far.
func (e *Extractor) Taxonomy() *model.Taxonomy {
	return e.taxonomy.Clone()
}

// Names returns a copy of the system names collected so far.
func (e *Extractor) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Result flushes the kept tail and returns copies of both outputs.
func (e *Extractor) Result() *Result {
	e.Flush()
	return &Result{
		Taxonomy: e.Taxonomy(),
		Names:    e.Names(),
	}
}

func (e *Extractor) startTag(tok html.Token) {
	switch tok.DataAtom {
	case atom.Div:
		if e.containerDepth > 0 {
			e.containerDepth++
		} else if hasClass(tok, containerClass) {
			e.containerDepth = 1
		}

	case atom.Tbody:
		e.inTable = true
		e.resetRow()

	case atom.Tr:
		if e.inTable {
			e.commitName()
			e.resetRow()
		}

	case atom.Td:
		if e.inTable {
			e.commitName()
			e.column++
			e.inCell = true
		}

	case atom.Strong:
		if e.inTable && e.inCell && e.column == nameColumn {
			e.capturingName = true
			e.nameSeen = false
			e.name.Reset()
		}

	case atom.Select:
		if getAttr(tok, "name") == codexSelectName {
			e.inSelect = true
			e.group = ""
		}

	case atom.Optgroup:
		if e.inSelect {
			e.commitOption()
			// An unlabeled group is recorded too, but its options are not.
			e.group = getAttr(tok, "label")
			e.taxonomy.Add(e.group)
		}

	case atom.Option:
		if e.inSelect {
			// An unclosed previous option ends here.
			e.commitOption()
			if id := getAttr(tok, "value"); id != "" {
				e.capturingOption = true
				e.optionID = id
				e.option.Reset()
			}
		}
	}
}

func (e *Extractor) endTag(tok html.Token) {
	switch tok.DataAtom {
	case atom.Div:
		if e.containerDepth > 0 {
			e.containerDepth--
			if e.containerDepth == 0 {
				e.closeTable()
			}
		}

	case atom.Tbody:
		e.closeTable()

	case atom.Tr, atom.Td:
		if e.inTable {
			e.commitName()
			e.inCell = false
		}

	case atom.Strong:
		e.commitName()

	case atom.Select:
		if e.inSelect {
			e.commitOption()
			e.inSelect = false
			e.group = ""
		}

	case atom.Option:
		e.commitOption()
	}
}

func (e *Extractor) text(data string) {
	// Each fragment is trimmed on its own before concatenation.
	if e.capturingName {
		e.nameSeen = true
		e.name.WriteString(strings.TrimSpace(data))
	}
	if e.capturingOption {
		e.option.WriteString(strings.TrimSpace(data))
	}
}

func (e *Extractor) commitName() {
	if !e.capturingName {
		return
	}
	e.capturingName = false
	// A cell holding only whitespace still counts as a row.
	if e.nameSeen {
		e.names = append(e.names, e.name.String())
	}
	e.nameSeen = false
	e.name.Reset()
}

func (e *Extractor) commitOption() {
	if !e.capturingOption {
		return
	}
	e.capturingOption = false
	if e.group != "" {
		e.taxonomy.Set(e.group, e.optionID, e.option.String())
	}
	e.option.Reset()
}

func (e *Extractor) resetRow() {
	e.column = 0
	e.inCell = false
}

func (e *Extractor) closeTable() {
	e.commitName()
	e.inTable = false
	e.resetRow()
}

// hasClass reports whether the token's class attribute lists class.
func hasClass(tok html.Token, class string) bool {
	for _, c := range strings.Fields(getAttr(tok, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from a tag token.
func getAttr(tok html.Token, key string) string {
	for _, attr := range tok.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
