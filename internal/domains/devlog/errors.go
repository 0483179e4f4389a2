package devlog

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every rejection of a log mutation
var ErrValidation = errors.New("log validation failed")

var (
	ErrLogNotFound    = errors.New("log not found")
	ErrUnknownField   = errors.New("unknown log field")
	ErrContentTooLong = errors.New("log content exceeds maximum length")
	ErrNoChanges      = errors.New("no fields to update")
)

// ImmutableFieldError rejects a change to a field fixed at creation
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("%s cannot be changed", e.Field)
}

func (e *ImmutableFieldError) Unwrap() error {
	return ErrValidation
}

// AuthorizationError rejects an author outside the project's admin and contributors
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

func (e *AuthorizationError) Unwrap() error {
	return ErrValidation
}

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	var (
		immutable *ImmutableFieldError
		authz     *AuthorizationError
	)
	switch {
	case errors.As(err, &immutable):
		return "IMMUTABLE_FIELD"
	case errors.As(err, &authz):
		return "AUTHOR_NOT_IN_PROJECT"
	case errors.Is(err, ErrLogNotFound):
		return "LOG_NOT_FOUND"
	case errors.Is(err, ErrUnknownField):
		return "UNKNOWN_FIELD"
	case errors.Is(err, ErrContentTooLong):
		return "CONTENT_TOO_LONG"
	case errors.Is(err, ErrNoChanges):
		return "NO_CHANGES"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	var authz *AuthorizationError
	switch {
	case errors.As(err, &authz):
		return 403
	case errors.Is(err, ErrValidation):
		return 422
	case errors.Is(err, ErrLogNotFound):
		return 404
	case errors.Is(err, ErrUnknownField), errors.Is(err, ErrContentTooLong), errors.Is(err, ErrNoChanges):
		return 400
	default:
		return 500
	}
}
