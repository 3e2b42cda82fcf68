// Package apperr defines sentinel errors shared across the application.
package apperr

import "errors"

var (
	// ErrNotFound means a persisted record (index or toc file) is absent.
	// Reconciliation treats this as "create new"; mutators propagate it.
	ErrNotFound = errors.New("not found")

	// ErrEntryNotFound means a child entry with the requested id is not
	// present in a loaded record. Mutators never create entries implicitly.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrConflict means a write would clobber existing data, such as
	// uploading a media file under a name that is already taken.
	ErrConflict = errors.New("conflict")
)
