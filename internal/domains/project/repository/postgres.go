package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/domains/project"
	"devlog-backend/pkg/cache"
	"devlog-backend/pkg/database"
)

const (
	projectColumns  = `id, slug, name, description, admin_id, created_at`
	projectCacheTTL = 10 * time.Minute
)

// postgresRepository - raw SQL with pgxpool, project lookups cached by id
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository - cache may be nil to disable caching
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) project.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func cacheKey(id uuid.UUID) string {
	return "project:" + id.String()
}

func scanProject(row pgx.Row, p *project.Project) error {
	return row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.AdminID,
		&p.CreatedAt,
	)
}

func toStringArray(ids []uuid.UUID) interface{} {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	return pq.Array(strIDs)
}

// ============================================
// CREATE
// ============================================

func (r *postgresRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*project.Project, error) {
		query := `
			INSERT INTO projects (name, description, admin_id)
			VALUES ($1, $2, $3)
			RETURNING ` + projectColumns

		var created project.Project
		if err := scanProject(tx.QueryRow(ctx, query, p.Name, p.Description, p.AdminID), &created); err != nil {
			return nil, fmt.Errorf("failed to create project: %w", err)
		}

		if err := insertContributors(ctx, tx, created.ID, p.ContributorIDs); err != nil {
			return nil, err
		}
		created.ContributorIDs = append([]uuid.UUID{}, p.ContributorIDs...)

		return &created, nil
	})
}

func insertContributors(ctx context.Context, tx pgx.Tx, projectID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO project_contributors (project_id, user_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT (project_id, user_id) DO NOTHING`

	if _, err := tx.Exec(ctx, query, projectID, toStringArray(userIDs)); err != nil {
		return fmt.Errorf("failed to insert contributors: %w", err)
	}
	return nil
}

func (r *postgresRepository) AssignSlug(ctx context.Context, id uuid.UUID, slug string) (bool, error) {
	query := `UPDATE projects SET slug = $1 WHERE id = $2 AND slug = ''`

	tag, err := r.pool.Exec(ctx, query, slug, id)
	if err != nil {
		return false, fmt.Errorf("failed to assign project slug: %w", err)
	}

	r.invalidate(ctx, id)
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) MarkSlugless(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE projects SET slugless = TRUE WHERE id = $1 AND slug = ''`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark project slugless: %w", err)
	}
	return nil
}

// ============================================
// READ
// ============================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if r.cache != nil {
		var cached project.Project
		found, err := r.cache.Get(ctx, cacheKey(id), &cached)
		if err != nil {
			log.Warn().Err(err).Str("project_id", id.String()).Msg("project cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var p project.Project
	if err := scanProject(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project by id: %w", err)
	}

	contributors, err := r.loadContributors(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	p.ContributorIDs = contributors[p.ID]

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey(id), &p, projectCacheTTL); err != nil {
			log.Warn().Err(err).Str("project_id", id.String()).Msg("project cache write failed")
		}
	}

	return &p, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*project.Project, error) {
	query := `SELECT id FROM projects WHERE slug = $1 ORDER BY created_at, id LIMIT 1`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project by slug: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *postgresRepository) ListWithoutSlug(ctx context.Context, limit int) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = '' AND NOT slugless ORDER BY created_at, id LIMIT $1`
	return r.queryProjects(ctx, query, limit)
}

func (r *postgresRepository) List(ctx context.Context) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, id`
	return r.queryProjects(ctx, query)
}

func (r *postgresRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]project.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var p project.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	contributors, err := r.loadContributors(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].ContributorIDs = contributors[projects[i].ID]
	}

	return projects, nil
}

// loadContributors returns contributor ids grouped by project id
func (r *postgresRepository) loadContributors(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(projectIDs))
	if len(projectIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT project_id, user_id
		FROM project_contributors
		WHERE project_id = ANY($1::uuid[])
		ORDER BY added_at, user_id`

	rows, err := r.pool.Query(ctx, query, toStringArray(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query contributors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, userID uuid.UUID
		if err := rows.Scan(&projectID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		result[projectID] = append(result[projectID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributors: %w", err)
	}

	return result, nil
}

// ============================================
// CONTRIBUTORS
// ============================================

func (r *postgresRepository) AddContributors(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}
		if !exists {
			return project.ErrProjectNotFound
		}
		return insertContributors(ctx, tx, id, userIDs)
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) RemoveContributor(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM project_contributors WHERE project_id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to remove contributor: %w", err)
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Str("project_id", id.String()).Msg("project cache invalidation failed")
	}
}
