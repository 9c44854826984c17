package model

import "strings"

// Entry is one codex entry inside a category.
type Entry struct {
	// ID is the opaque entry token used as listing query parameter.
	ID string `json:"id"`

	// Name is the display name shown in the codex selector.
	Name string `json:"name"`
}

// Category is a named group of codex entries in document order.
type Category struct {
	// Name is the group label, for example "Trees" or "Lagrange Clouds".
	Name string `json:"name"`

	// Entries holds the entries in the order they were first seen.
	Entries []Entry `json:"entries"`

	// index maps an entry id to its position in Entries.
	index map[string]int
}

// Len returns the number of entries in the category.
func (c *Category) Len() int {
	return len(c.Entries)
}

// entryName looks up the display name of id within the category.
func (c *Category) entryName(id string) (string, bool) {
	i, ok := c.index[id]
	if !ok {
		return "", false
	}
	return c.Entries[i].Name, true
}

// Taxonomy is the ordered category -> (id -> name) structure.
//
// Entry ids are unique within a category. Well-formed sources never repeat
// an id across categories; when they do, the category written last owns the
// id for Lookup.
type Taxonomy struct {
	categories []*Category
	byName     map[string]*Category
	owner      map[string]string
}

// NewTaxonomy returns an empty taxonomy.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{
		categories: make([]*Category, 0),
		byName:     make(map[string]*Category),
		owner:      make(map[string]string),
	}
}

// Add records a category. Adding an existing category is a no-op, so the
// category keeps its first position and its entries.
func (t *Taxonomy) Add(name string) *Category {
	if c, ok := t.byName[name]; ok {
		return c
	}
	c := &Category{
		Name:    name,
		Entries: make([]Entry, 0),
		index:   make(map[string]int),
	}
	t.categories = append(t.categories, c)
	t.byName[name] = c
	return c
}

// Set stores the display name of id in category, creating the category if
// needed. A repeated id in the same category overwrites the name in place.
func (t *Taxonomy) Set(category, id, name string) {
	c := t.Add(category)
	if i, ok := c.index[id]; ok {
		c.Entries[i].Name = name
	} else {
		c.index[id] = len(c.Entries)
		c.Entries = append(c.Entries, Entry{ID: id, Name: name})
	}
	t.owner[id] = category
}

// Lookup returns the category and display name of id.
func (t *Taxonomy) Lookup(id string) (category, name string, ok bool) {
	category, ok = t.owner[id]
	if !ok {
		return "", "", false
	}
	name, ok = t.byName[category].entryName(id)
	return category, name, ok
}

// Category returns the named category, or nil.
func (t *Taxonomy) Category(name string) *Category {
	return t.byName[name]
}

// Categories returns the categories in document order.
func (t *Taxonomy) Categories() []*Category {
	out := make([]*Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.categories)
}

// IDs returns every entry id in taxonomy order. An id present in more than
// one category is listed once, at its first position.
func (t *Taxonomy) IDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, c := range t.categories {
		for _, e := range c.Entries {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Filter keeps the categories whose name contains at least one of allow as a
// literal, case-sensitive substring. It returns the kept taxonomy and the
// names of the categories it dropped, both in document order.
func (t *Taxonomy) Filter(allow []string) (*Taxonomy, []string) {
	kept := NewTaxonomy()
	ignored := make([]string, 0)

	for _, c := range t.categories {
		if !matchesAny(c.Name, allow) {
			ignored = append(ignored, c.Name)
			continue
		}
		kept.Add(c.Name)
		for _, e := range c.Entries {
			kept.Set(c.Name, e.ID, e.Name)
		}
	}

	// Ownership of ids repeated across kept categories follows the source.
	for id, category := range t.owner {
		if kept.byName[category] != nil {
			kept.owner[id] = category
		}
	}

	return kept, ignored
}

// Clone returns a deep copy of the taxonomy.
func (t *Taxonomy) Clone() *Taxonomy {
	out := NewTaxonomy()
	for _, c := range t.categories {
		nc := out.Add(c.Name)
		nc.Entries = append(nc.Entries, c.Entries...)
		for id, i := range c.index {
			nc.index[id] = i
		}
	}
	for id, category := range t.owner {
		out.owner[id] = category
	}
	return out
}

func matchesAny(name string, allow []string) bool {
	for _, a := range allow {
		if strings.Contains(name, a) {
			return true
		}
	}
	return false
}
