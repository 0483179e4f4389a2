package project

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for projects and their contributor sets
type Repository interface {
	// Create inserts the project and its contributors in one transaction.
	// The returned project has an empty slug.
	Create(ctx context.Context, p *Project) (*Project, error)

	// AssignSlug sets the slug only while it is still empty.
	// Returns false when a slug was already present.
	AssignSlug(ctx context.Context, id uuid.UUID, slug string) (bool, error)

	// GetByID returns ErrProjectNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// GetBySlug returns the oldest project with that slug.
	// Slugs are not unique.
	GetBySlug(ctx context.Context, slug string) (*Project, error)

	// MarkSlugless records that the project's name yields no slug.
	// ListWithoutSlug skips marked projects.
	MarkSlugless(ctx context.Context, id uuid.UUID) error

	// ListWithoutSlug returns up to limit projects still waiting for a slug, oldest first
	ListWithoutSlug(ctx context.Context, limit int) ([]Project, error)

	// List returns all projects, oldest first
	List(ctx context.Context) ([]Project, error)

	// AddContributors is idempotent for users already in the set
	AddContributors(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) error

	RemoveContributor(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}
