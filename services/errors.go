package services

import (
	"errors"
	"net/http"
)

// Lifecycle error taxonomy. Handlers translate these with errors.Is;
// anything unrecognized surfaces as a generic 500. Upstream AI failures
// never appear here - they are recovered locally with tagged fallback
// values.
var (
	// ErrNotFound covers both unknown interview ids and records owned by
	// another user; the API reports foreign records as 404 rather than
	// revealing their existence.
	ErrNotFound = errors.New("interview not found")

	// ErrInvalidArgument flags missing required fields or an
	// out-of-range question index. No partial write happens.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState flags a lifecycle transition the state machine
	// forbids, such as starting an interview twice or completing one
	// that never started.
	ErrInvalidState = errors.New("invalid interview state")

	// ErrQuotaExhausted means the free-tier user has no interviews
	// remaining.
	ErrQuotaExhausted = errors.New("interview quota exhausted")
)

// statusForError maps a lifecycle error to its HTTP status
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrQuotaExhausted):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
