package domain

import "errors"

var (
	// ErrInvalidQuery signals search parameters that cannot be sent to the backend.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrBackendUnavailable signals that the search backend could not be reached
	// or answered with a non-success status.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrMalformedResponse signals a backend body that is not valid JSON.
	ErrMalformedResponse = errors.New("malformed backend response")
	// ErrSearchInProgress signals that a search is already pending.
	ErrSearchInProgress = errors.New("search already in progress")
)
