package user

import "errors"

var (
	// Validation Errors
	ErrInvalidUsername = errors.New("username is invalid")

	// Business Rule Errors
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("user with this username already exists")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "USER_NOT_FOUND"
	case errors.Is(err, ErrDuplicateUsername):
		return "DUPLICATE_USERNAME"
	case errors.Is(err, ErrInvalidUsername):
		return "INVALID_USERNAME"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return 404
	case errors.Is(err, ErrDuplicateUsername):
		return 409
	case errors.Is(err, ErrInvalidUsername):
		return 400
	default:
		return 500
	}
}
