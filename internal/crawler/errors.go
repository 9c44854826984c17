package crawler

import (
	"errors"
	"fmt"
)

// ErrUnknownEntry is returned when an entry id cannot be resolved to a
// category and display name from the taxonomy of its listing pages.
// The entry is not recorded.
var ErrUnknownEntry = errors.New("entry not found in taxonomy")

// EntryError describes an entry that could not be completed in this run.
type EntryError struct {
	// ID is the entry id.
	ID string

	// Err is the cause.
	Err error
}

// Error implements the error interface.
func (e EntryError) Error() string {
	return fmt.Sprintf("entry %s: %v", e.ID, e.Err)
}

// Unwrap returns the cause.
func (e EntryError) Unwrap() error {
	return e.Err
}
