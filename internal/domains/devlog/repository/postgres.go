package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devlog-backend/internal/domains/devlog"
	"devlog-backend/pkg/database"
)

const logColumns = `id, slug, author_id, project_id, date, content, important`

// postgresRepository implements devlog.Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) devlog.Repository {
	return &postgresRepository{pool: pool}
}

func scanLog(row pgx.Row, l *devlog.Log) error {
	return row.Scan(
		&l.ID,
		&l.Slug,
		&l.AuthorID,
		&l.ProjectID,
		&l.Date,
		&l.Content,
		&l.Important,
	)
}

// ============================================
// CREATE
// ============================================

func (r *postgresRepository) Create(ctx context.Context, l *devlog.Log) (*devlog.Log, error) {
	query := `
		INSERT INTO logs (author_id, project_id, content, important)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + logColumns

	var created devlog.Log
	if err := scanLog(r.pool.QueryRow(ctx, query, l.AuthorID, l.ProjectID, l.Content, l.Important), &created); err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}
	return &created, nil
}

func (r *postgresRepository) AssignSlug(ctx context.Context, id uuid.UUID, slug string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE logs SET slug = $1 WHERE id = $2 AND slug = ''`, slug, id)
	if err != nil {
		return false, fmt.Errorf("failed to assign log slug: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ============================================
// READ
// ============================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*devlog.Log, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE id = $1`

	var l devlog.Log
	if err := scanLog(r.pool.QueryRow(ctx, query, id), &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, devlog.ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to get log by id: %w", err)
	}
	return &l, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*devlog.Log, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE slug = $1 ORDER BY date, id LIMIT 1`

	var l devlog.Log
	if err := scanLog(r.pool.QueryRow(ctx, query, slug), &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, devlog.ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to get log by slug: %w", err)
	}
	return &l, nil
}

func (r *postgresRepository) ListWithoutSlug(ctx context.Context, limit int) ([]devlog.Log, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE slug = '' ORDER BY date, id LIMIT $1`
	return r.queryLogs(ctx, query, limit)
}

func (r *postgresRepository) List(ctx context.Context, filter devlog.LogFilter) ([]devlog.Log, error) {
	whereClause, args := buildWhereClause(filter)
	query := `SELECT ` + logColumns + ` FROM logs` + whereClause + ` ORDER BY date, id`
	return r.queryLogs(ctx, query, args...)
}

func (r *postgresRepository) queryLogs(ctx context.Context, query string, args ...interface{}) ([]devlog.Log, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	logs := []devlog.Log{}
	for rows.Next() {
		var l devlog.Log
		if err := scanLog(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate logs: %w", err)
	}

	return logs, nil
}

func buildWhereClause(filter devlog.LogFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.ImportantOnly {
		conditions = append(conditions, "important = TRUE")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ============================================
// UPDATE
// ============================================

func (r *postgresRepository) Update(ctx context.Context, l *devlog.Log, changed devlog.FieldSet, check devlog.CheckFunc) (*devlog.Log, []devlog.ChangeNotification, error) {
	var (
		updated       devlog.Log
		notifications []devlog.ChangeNotification
	)

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		prev, err := lockLog(ctx, tx, l.ID)
		if err != nil {
			return err
		}

		notifications, err = check(prev)
		if err != nil {
			return err
		}
		if prev == nil {
			return devlog.ErrLogNotFound
		}

		setClause, args := buildSetClause(l, changed)
		if setClause == "" {
			updated = *prev
			return nil
		}

		args = append(args, l.ID)
		query := fmt.Sprintf(`UPDATE logs SET %s WHERE id = $%d RETURNING %s`, setClause, len(args), logColumns)
		if err := scanLog(tx.QueryRow(ctx, query, args...), &updated); err != nil {
			return fmt.Errorf("failed to update log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &updated, notifications, nil
}

// lockLog returns the stored row under FOR UPDATE, nil when absent
func lockLog(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*devlog.Log, error) {
	if id == uuid.Nil {
		return nil, nil
	}

	query := `SELECT ` + logColumns + ` FROM logs WHERE id = $1 FOR UPDATE`

	var prev devlog.Log
	if err := scanLog(tx.QueryRow(ctx, query, id), &prev); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock log: %w", err)
	}
	return &prev, nil
}

// buildSetClause writes only mutable columns; project never reaches here
func buildSetClause(l *devlog.Log, changed devlog.FieldSet) (string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)

	if changed.Has(devlog.FieldContent) {
		args = append(args, l.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	if changed.Has(devlog.FieldImportant) {
		args = append(args, l.Important)
		sets = append(sets, fmt.Sprintf("important = $%d", len(args)))
	}

	return strings.Join(sets, ", "), args
}
