package user

import (
	"context"

	"github.com/google/uuid"
)

// Service defines business logic for user references
type Service interface {
	// Register validates and stores a new user reference.
	// Username defaults to "first.last" lowercased.
	// Errors: validation errors, ErrDuplicateUsername
	Register(ctx context.Context, req CreateUserRequest) (*User, error)

	// GetByID errors: ErrUserNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// EnsureExist returns ErrUserNotFound wrapping the first missing id
	EnsureExist(ctx context.Context, ids ...uuid.UUID) error

	List(ctx context.Context) ([]User, error)
}
