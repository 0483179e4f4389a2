package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/domains/project"
	"devlog-backend/internal/domains/user"
	"devlog-backend/internal/shared/utils"
)

type projectService struct {
	repo  project.Repository
	users user.Service
}

// NewProjectService creates a new project service instance
func NewProjectService(repo project.Repository, users user.Service) project.Service {
	return &projectService{
		repo:  repo,
		users: users,
	}
}

// ============================================
// CREATE
// ============================================

func (s *projectService) Create(ctx context.Context, req project.CreateProjectRequest) (*project.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity := req.ToEntity()
	if err := s.users.EnsureExist(ctx, append([]uuid.UUID{entity.AdminID}, entity.ContributorIDs...)...); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return nil, err
	}

	// Slug is derived after the row is committed and never recomputed.
	// A failure here leaves the slug empty for the backfill job.
	if err := s.assignSlug(ctx, created); err != nil {
		log.Error().Err(err).Str("project_id", created.ID.String()).Msg("failed to assign project slug")
	}

	log.Info().
		Str("project_id", created.ID.String()).
		Str("slug", created.Slug).
		Str("admin_id", created.AdminID.String()).
		Int("contributors", len(created.ContributorIDs)).
		Msg("Project created")

	return created, nil
}

func (s *projectService) assignSlug(ctx context.Context, p *project.Project) error {
	if p.HasSlug() {
		return nil
	}

	slug := utils.Slugify(p.Name)
	if slug == "" {
		log.Warn().Str("project_id", p.ID.String()).Str("name", p.Name).Msg("project name produced an empty slug")
		return s.repo.MarkSlugless(ctx, p.ID)
	}

	assigned, err := s.repo.AssignSlug(ctx, p.ID, slug)
	if err != nil {
		return err
	}
	if !assigned {
		// Someone else set it first; reload to report the stored value
		stored, err := s.repo.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		p.Slug = stored.Slug
		return nil
	}

	p.Slug = slug
	return nil
}

// AssignMissingSlugs gives slug-less projects the slug of their name.
// A failing project is logged and skipped; the failures are returned joined.
func (s *projectService) AssignMissingSlugs(ctx context.Context, limit int) (int, error) {
	pending, err := s.repo.ListWithoutSlug(ctx, limit)
	if err != nil {
		return 0, err
	}

	assigned := 0
	var errs []error
	for i := range pending {
		if err := s.assignSlug(ctx, &pending[i]); err != nil {
			log.Error().Err(err).Str("project_id", pending[i].ID.String()).Msg("slug backfill failed")
			errs = append(errs, fmt.Errorf("project %s: %w", pending[i].ID, err))
			continue
		}
		if pending[i].HasSlug() {
			assigned++
		}
	}
	return assigned, errors.Join(errs...)
}

// ============================================
// READ
// ============================================

func (s *projectService) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if id == uuid.Nil {
		return nil, project.ErrProjectNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *projectService) GetBySlug(ctx context.Context, slug string) (*project.Project, error) {
	if slug == "" {
		return nil, project.ErrProjectNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *projectService) List(ctx context.Context) ([]project.Project, error) {
	return s.repo.List(ctx)
}

// ============================================
// CONTRIBUTORS
// ============================================

func (s *projectService) AddContributors(ctx context.Context, id uuid.UUID, req project.AddContributorsRequest) (*project.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.EnsureExist(ctx, req.UserIDs...); err != nil {
		return nil, err
	}

	if err := s.repo.AddContributors(ctx, id, req.UserIDs); err != nil {
		return nil, err
	}

	log.Info().
		Str("project_id", id.String()).
		Int("added", len(req.UserIDs)).
		Msg("Contributors added")

	return s.repo.GetByID(ctx, id)
}

func (s *projectService) RemoveContributor(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*project.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AdminID == userID {
		return nil, project.ErrAdminNotRemovable
	}

	if err := s.repo.RemoveContributor(ctx, id, userID); err != nil {
		return nil, err
	}

	log.Info().
		Str("project_id", id.String()).
		Str("user_id", userID.String()).
		Msg("Contributor removed")

	return s.repo.GetByID(ctx, id)
}
