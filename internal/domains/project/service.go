package project

import (
	"context"

	"github.com/google/uuid"
)

// Service defines business logic for projects
type Service interface {
	// Create stores the project, then derives and assigns its slug from the name.
	// Errors: validation errors, user.ErrUserNotFound for unknown admin/contributors
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)

	// GetByID errors: ErrProjectNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// GetBySlug errors: ErrProjectNotFound
	GetBySlug(ctx context.Context, slug string) (*Project, error)

	List(ctx context.Context) ([]Project, error)

	// AssignMissingSlugs derives slugs for up to limit projects that have none
	AssignMissingSlugs(ctx context.Context, limit int) (int, error)

	AddContributors(ctx context.Context, id uuid.UUID, req AddContributorsRequest) (*Project, error)

	// RemoveContributor errors: ErrAdminNotRemovable when userID is the admin
	RemoveContributor(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Project, error)
}
