package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrExtraction means the upstream extraction call failed after all retries.
	ErrExtraction = errors.New("extraction failed")
	// ErrEmptyTranscript means normalization produced zero valid course rows.
	ErrEmptyTranscript = errors.New("no valid course rows in transcript")
	// ErrNoEligibleCourses means a transfer was requested with nothing qualifying.
	ErrNoEligibleCourses = errors.New("no eligible courses to transfer")
	// ErrInvalidEdit means an entry edit violates a field invariant; the entry is unchanged.
	ErrInvalidEdit = errors.New("invalid edit")
)
