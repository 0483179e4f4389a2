package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for user references
type Repository interface {
	// Create inserts a new user.
	// Errors: ErrDuplicateUsername if username exists
	Create(ctx context.Context, u *User) (*User, error)

	// GetByID returns ErrUserNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByIDs returns the users found, in no particular order.
	// Missing ids are silently skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)

	// GetByUsername returns ErrUserNotFound if not exists
	GetByUsername(ctx context.Context, username string) (*User, error)

	// List returns users ordered by username
	List(ctx context.Context) ([]User, error)
}
