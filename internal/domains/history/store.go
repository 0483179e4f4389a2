package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists the change chain of one tracked field
type Store[V any] interface {
	// Before returns the owner's most recent entry dated at or before at, nil when none exists
	Before(ctx context.Context, ownerID uuid.UUID, at time.Time) (*Change[V], error)

	// After returns the owner's earliest entry dated after at, nil when none exists
	After(ctx context.Context, ownerID uuid.UUID, at time.Time) (*Change[V], error)

	// Insert stores c. A non-nil successor is relinked to c in the same write.
	Insert(ctx context.Context, c *Change[V], successor *uuid.UUID) error

	// List returns the owner's entries oldest first
	List(ctx context.Context, ownerID uuid.UUID) ([]Change[V], error)
}
