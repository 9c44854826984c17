package model

// Record is the persisted outcome of fully crawling one entry id.
//
// Systems keeps every occurrence in page order. The same system may appear
// more than once; duplicates are reported, never removed.
type Record struct {
	// Classification is the taxonomy category the entry belongs to.
	Classification string `json:"classification"`

	// Name is the display name of the entry.
	Name string `json:"name"`

	// Systems lists the star systems where the entry was reported.
	Systems []string `json:"systems"`
}

// Total returns the number of system occurrences.
func (r Record) Total() int {
	return len(r.Systems)
}

// Unique returns the number of distinct systems.
func (r Record) Unique() int {
	seen := make(map[string]struct{}, len(r.Systems))
	for _, s := range r.Systems {
		seen[s] = struct{}{}
	}
	return len(seen)
}

// Duplicates returns how many occurrences repeat an earlier system.
func (r Record) Duplicates() int {
	return r.Total() - r.Unique()
}
