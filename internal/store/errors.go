package store

import "errors"

var (
	// ErrNotFound covers unknown subjects and unknown item IDs.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a subject name is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput covers empty names and out-of-range values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidURL is returned when no recognized URL shape matches.
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidImport is returned when an import payload cannot be parsed.
	// The live tree is guaranteed untouched.
	ErrInvalidImport = errors.New("invalid import payload")

	// ErrCorruptSnapshot wraps a snapshot that exists but cannot be decoded.
	// Tree() substitutes a default tree; callers that want to surface the
	// condition instead should use Load() directly.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrNoSnapshot is returned by Load when the account has never been saved.
	ErrNoSnapshot = errors.New("no snapshot")
)
