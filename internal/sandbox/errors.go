package sandbox

import (
	"errors"
	"fmt"

	"github.com/Project-Sylos/Courier/internal/types"
)

// StatusError is a failure reported to clients through the status field of
// the response envelope
type StatusError struct {
	Status string
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return e.Status
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Reason)
}

func statusErrorf(status, format string, args ...any) error {
	return &StatusError{Status: status, Reason: fmt.Sprintf(format, args...)}
}

// StatusOf returns the envelope status of err, or "" when err does not
// carry one
func StatusOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return ""
}

func errNoAuth() error {
	return statusErrorf(types.StatusNoAuth, "a token is required")
}

func errAuth(format string, args ...any) error {
	return statusErrorf(types.StatusAuth, format, args...)
}

func errNotFound(id string) error {
	return statusErrorf(types.StatusNotFound, "content %s does not exist", id)
}

func errBadRequest(format string, args ...any) error {
	return statusErrorf(types.StatusBadRequest, format, args...)
}
