package gofile

import (
	"fmt"

	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/pkg/errors"
)

// ErrInvalidArgument is matched by every local validation failure
var ErrInvalidArgument = errors.New("invalid argument")

// ValidationError is returned before any request is made when the
// arguments of an operation are unusable
type ValidationError struct {
	Field  string
	Reason string
}

// Error returns a string for the error and satisfies the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidArgument) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Category groups remote failures by what the caller can do about them
type Category int

// Remote error categories
const (
	CategoryUnknown Category = iota
	CategoryAuth
	CategoryWrongServer
)

// String returns the category name
func (c Category) String() string {
	switch c {
	case CategoryAuth:
		return "auth"
	case CategoryWrongServer:
		return "wrong-server"
	default:
		return "unknown"
	}
}

// APIError is returned when the envelope status is not "ok"
type APIError struct {
	Endpoint   string
	Status     string
	Category   Category
	HTTPStatus int
	Body       []byte
}

// categorize maps an envelope status to its category
func categorize(status string) Category {
	switch status {
	case types.StatusAuth, types.StatusNoAuth:
		return CategoryAuth
	case types.StatusWrongServer:
		return CategoryWrongServer
	default:
		return CategoryUnknown
	}
}

// Message is the human readable part of the error
func (e *APIError) Message() string {
	switch e.Category {
	case CategoryAuth:
		return "you do not have access to the full API: authentication required or not authorized"
	case CategoryWrongServer:
		return "wrong server, please try again"
	default:
		return fmt.Sprintf("request failed with status %q", e.Status)
	}
}

// Error returns a string for the error and satisfies the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %q, HTTP %d)", e.Endpoint, e.Message(), e.Status, e.HTTPStatus)
}

// Retryable reports whether repeating the operation may succeed
func (e *APIError) Retryable() bool {
	return e.Category == CategoryWrongServer || e.Status == types.StatusRateLimit
}

// Check APIError satisfies the error interface
var _ error = (*APIError)(nil)

// IsAuthError reports whether err is an authentication/authorization failure
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Category == CategoryAuth
}

// IsWrongServer reports whether err asks the caller to retry on another server
func IsWrongServer(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Category == CategoryWrongServer
}

// IsValidation reports whether err was raised before any request was made
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsAPIError reports whether err came from a non-ok envelope
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
