package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestTaxonomySet tests insertion order and last-write-wins semantics.
func TestTaxonomySet(t *testing.T) {
	t.Parallel()

	t.Run("keeps first-seen order of categories and entries", func(t *testing.T) {
		t.Parallel()

		tax := NewTaxonomy()
		tax.Set("Trees", "12", "Giant Trees")
		tax.Set("Anemones", "3", "Luteolum Anemone")
		tax.Set("Trees", "7", "Stolon Tree")

		got := make([]string, 0)
		for _, c := range tax.Categories() {
			for _, e := range c.Entries {
				got = append(got, c.Name+"/"+e.ID)
			}
		}
		want := []string{"Trees/12", "Trees/7", "Anemones/3"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("repeated id in a category overwrites in place", func(t *testing.T) {
		t.Parallel()

		tax := NewTaxonomy()
		tax.Set("Trees", "12", "Old")
		tax.Set("Trees", "13", "Other")
		tax.Set("Trees", "12", "New")

		c := tax.Category("Trees")
		if c.Len() != 2 {
			t.Fatalf("expected 2 entries, got %d", c.Len())
		}
		if c.Entries[0].Name != "New" {
			t.Errorf("expected overwritten name 'New', got %q", c.Entries[0].Name)
		}
	})

	t.Run("id repeated across categories is owned by the last writer", func(t *testing.T) {
		t.Parallel()

		tax := NewTaxonomy()
		tax.Set("Trees", "12", "Giant Trees")
		tax.Set("Pods", "12", "Giant Pods")

		category, name, ok := tax.Lookup("12")
		if !ok {
			t.Fatal("expected id 12 to resolve")
		}
		if category != "Pods" || name != "Giant Pods" {
			t.Errorf("expected Pods/Giant Pods, got %s/%s", category, name)
		}
		if ids := tax.IDs(); len(ids) != 1 {
			t.Errorf("expected id listed once, got %v", ids)
		}
	})

	t.Run("empty category is recorded", func(t *testing.T) {
		t.Parallel()

		tax := NewTaxonomy()
		tax.Add("Shards")
		if tax.Len() != 1 || tax.Category("Shards").Len() != 0 {
			t.Errorf("expected one empty category, got %d", tax.Len())
		}
	})

	t.Run("lookup of unknown id fails", func(t *testing.T) {
		t.Parallel()

		if _, _, ok := NewTaxonomy().Lookup("missing"); ok {
			t.Error("expected lookup to fail")
		}
	})
}

// TestTaxonomyFilter tests the allow-list substring filter.
func TestTaxonomyFilter(t *testing.T) {
	t.Parallel()

	build := func() *Taxonomy {
		tax := NewTaxonomy()
		tax.Set("Trees", "1", "Giant Trees")
		tax.Set("Brain Trees", "2", "Roseum Brain Tree")
		tax.Set("Bacterium", "3", "Bacterium Aurasus")
		tax.Set("Lagrange Clouds", "4", "Croceum Lagrange Cloud")
		tax.Add("trees")
		return tax
	}

	t.Run("keeps categories containing an allow-list substring", func(t *testing.T) {
		t.Parallel()

		kept, ignored := build().Filter([]string{"Trees", "Lagrange"})

		names := make([]string, 0)
		for _, c := range kept.Categories() {
			names = append(names, c.Name)
		}
		if diff := cmp.Diff([]string{"Trees", "Brain Trees", "Lagrange Clouds"}, names); diff != "" {
			t.Errorf("kept mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"Bacterium", "trees"}, ignored); diff != "" {
			t.Errorf("ignored mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"1", "2", "4"}, kept.IDs()); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		t.Parallel()

		kept, _ := build().Filter([]string{"TREES"})
		if kept.Len() != 0 {
			t.Errorf("expected no categories, got %d", kept.Len())
		}
	})

	t.Run("empty allow-list keeps nothing", func(t *testing.T) {
		t.Parallel()

		kept, ignored := build().Filter(nil)
		if kept.Len() != 0 {
			t.Errorf("expected no categories, got %d", kept.Len())
		}
		if len(ignored) != 5 {
			t.Errorf("expected 5 ignored, got %d", len(ignored))
		}
	})

	t.Run("filtered taxonomy still resolves ids", func(t *testing.T) {
		t.Parallel()

		kept, _ := build().Filter([]string{"Trees"})
		category, name, ok := kept.Lookup("2")
		if !ok || category != "Brain Trees" || name != "Roseum Brain Tree" {
			t.Errorf("unexpected lookup result %q %q %v", category, name, ok)
		}
		if _, _, ok := kept.Lookup("3"); ok {
			t.Error("expected dropped id not to resolve")
		}
	})
}

// TestTaxonomyClone verifies that a clone does not share state.
func TestTaxonomyClone(t *testing.T) {
	t.Parallel()

	tax := NewTaxonomy()
	tax.Set("Trees", "1", "Giant Trees")

	clone := tax.Clone()
	clone.Set("Trees", "1", "Changed")
	clone.Set("Pods", "2", "Pod")

	if _, name, _ := tax.Lookup("1"); name != "Giant Trees" {
		t.Errorf("original changed through clone: %q", name)
	}
	if tax.Len() != 1 {
		t.Errorf("expected original to keep 1 category, got %d", tax.Len())
	}
}

// TestRecordCounts tests the duplicate accounting helpers.
func TestRecordCounts(t *testing.T) {
	t.Parallel()

	r := Record{Systems: []string{"Sol", "Achenar", "Sol", "Sol"}}
	if r.Total() != 4 {
		t.Errorf("expected total 4, got %d", r.Total())
	}
	if r.Unique() != 2 {
		t.Errorf("expected unique 2, got %d", r.Unique())
	}
	if r.Duplicates() != 2 {
		t.Errorf("expected duplicates 2, got %d", r.Duplicates())
	}
}
