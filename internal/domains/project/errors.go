package project

import "errors"

var (
	// Validation Errors
	ErrInvalidName         = errors.New("project name is invalid")
	ErrNameTooLong         = errors.New("project name exceeds maximum length")
	ErrDescriptionTooLong  = errors.New("project description exceeds maximum length")
	ErrAdminRequired       = errors.New("project admin is required")
	ErrContributorRequired = errors.New("at least one contributor is required")

	// Business Rule Errors
	ErrProjectNotFound   = errors.New("project not found")
	ErrAdminNotRemovable = errors.New("project admin cannot be removed from the project")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		return "PROJECT_NOT_FOUND"
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrNameTooLong):
		return "INVALID_NAME"
	case errors.Is(err, ErrDescriptionTooLong):
		return "INVALID_DESCRIPTION"
	case errors.Is(err, ErrAdminRequired):
		return "ADMIN_REQUIRED"
	case errors.Is(err, ErrContributorRequired):
		return "CONTRIBUTOR_REQUIRED"
	case errors.Is(err, ErrAdminNotRemovable):
		return "ADMIN_NOT_REMOVABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		return 404
	case errors.Is(err, ErrAdminNotRemovable):
		return 409
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrNameTooLong),
		errors.Is(err, ErrDescriptionTooLong), errors.Is(err, ErrAdminRequired),
		errors.Is(err, ErrContributorRequired):
		return 400
	default:
		return 500
	}
}
