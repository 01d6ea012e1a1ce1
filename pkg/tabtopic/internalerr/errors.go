package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrStoreClosed   = errors.New("store closed")

	// ErrAborted marks a run stopped by the caller. It is an outcome, not a failure.
	ErrAborted = errors.New("aborted")
)
