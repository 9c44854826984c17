package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nao1215/codexcrawl/internal/model"
)

// ErrCorruptStore is returned when the results file exists but is not a
// valid results mapping. The run must stop rather than overwrite it.
var ErrCorruptStore = errors.New("corrupt result store")

// Store is the persisted entry id -> Record mapping.
//
// The whole mapping is rewritten after every Put, so an interrupted run
// loses at most the entry that was in flight.
type Store struct {
	path    string
	records map[string]model.Record
}

// Open loads the store at path. A missing or empty file yields an empty
// store; anything that does not decode is ErrCorruptStore.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		records: make(map[string]model.Record),
	}

	data, err := os.ReadFile(path) //nolint:gosec // results path comes from the user
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read result store: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptStore, path, err)
	}
	if s.records == nil {
		// The file held a JSON null.
		s.records = make(map[string]model.Record)
	}
	for id, rec := range s.records {
		if rec.Systems == nil {
			rec.Systems = []string{}
			s.records[id] = rec
		}
	}

	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Has reports whether id has a completed record.
func (s *Store) Has(id string) bool {
	_, ok := s.records[id]
	return ok
}

// Get returns the record of id.
func (s *Store) Get(id string) (model.Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// IDs returns the entry ids in sorted order, the order they appear on disk.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Records returns a copy of the mapping.
func (s *Store) Records() map[string]model.Record {
	out := make(map[string]model.Record, len(s.records))
	for id, rec := range s.records {
		out[id] = rec
	}
	return out
}

// Put inserts the record of id and persists the store immediately. On a
// write failure the in-memory mapping is left unchanged.
func (s *Store) Put(id string, rec model.Record) error {
	if rec.Systems == nil {
		rec.Systems = []string{}
	}

	prev, had := s.records[id]
	s.records[id] = rec
	if err := s.Save(); err != nil {
		if had {
			s.records[id] = prev
		} else {
			delete(s.records, id)
		}
		return err
	}
	return nil
}

// Save rewrites the whole file: sorted keys, one-space indentation. The
// data goes to a temporary file in the same directory which then replaces
// the old file, so readers never see a partial write.
func (s *Store) Save() error {
	data, err := Marshal(s.records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary result file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write result store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync result store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close result store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace result store: %w", err)
	}
	return nil
}

// Marshal encodes records in the on-disk format. encoding/json sorts map
// keys; struct fields are declared in alphabetical order.
func Marshal(records map[string]model.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode result store: %w", err)
	}
	return buf.Bytes(), nil
}
