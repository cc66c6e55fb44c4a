// Package common defines shared constants and sentinel errors used across
// filedepot components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Validation errors (malformed or empty arguments, self-share).
	ErrInvalidInput = errors.New("invalid input")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// ErrNotAuthorized marks ownership-check failures. The HTTP edge reports
	// these as not found so they do not confirm the existence of other
	// users' files.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidState marks a share lifecycle violation, e.g. accepting a
	// share that is no longer pending.
	ErrInvalidState = errors.New("invalid state")

	// ErrStoreUnavailable wraps ledger or blob store I/O failures. The
	// coordinator never retries these; retry policy belongs to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
