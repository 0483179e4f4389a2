package devlog

import (
	"context"

	"github.com/google/uuid"
)

// CheckFunc runs inside the update transaction with the stored version
// of the log (nil when none exists). Returning an error aborts the commit.
type CheckFunc func(prev *Log) ([]ChangeNotification, error)

// Repository defines data access for logs
type Repository interface {
	// Create inserts the log with an empty slug; Date is set by the store
	Create(ctx context.Context, l *Log) (*Log, error)

	// AssignSlug sets the slug only while it is still empty.
	// Returns false when a slug was already present.
	AssignSlug(ctx context.Context, id uuid.UUID, slug string) (bool, error)

	// GetByID returns ErrLogNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*Log, error)

	// GetBySlug returns the oldest log with that slug.
	// Slugs are not unique.
	GetBySlug(ctx context.Context, slug string) (*Log, error)

	// ListWithoutSlug returns up to limit logs still waiting for a slug, oldest first
	ListWithoutSlug(ctx context.Context, limit int) ([]Log, error)

	// List returns matching logs ordered by date, oldest first
	List(ctx context.Context, filter LogFilter) ([]Log, error)

	// Update locks the stored row, runs check against it and writes the
	// fields in changed. When no row exists check still runs; if it passes
	// ErrLogNotFound is returned.
	Update(ctx context.Context, l *Log, changed FieldSet, check CheckFunc) (*Log, []ChangeNotification, error)
}
