package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an identifier did not resolve to a record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID indicates a save would collide with an existing record
	// of the same name in the same scope.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrRecordLocked indicates another user holds the record lock.
	ErrRecordLocked = errors.New("record locked by another user")

	// ErrStaleRecord indicates the in-memory record is older than the stored
	// one. The caller must reload before retrying.
	ErrStaleRecord = errors.New("record changed since last load")
)

// SaveError reports a validation failure during save. In-memory edits are
// preserved so the user can correct and retry.
type SaveError struct {
	Reason string
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save failed: %s", e.Reason)
}
