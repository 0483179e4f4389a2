package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devlog-backend/pkg/database"
)

// PostgresStore keeps entries in a table shaped like log_content_changes:
//
//	seq bigserial, id uuid, owner_id uuid, previous jsonb,
//	date timestamptz, last_change_id uuid
//
// Previous values are stored as JSON so one implementation serves any V.
type PostgresStore[V any] struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresStore[V any](pool *pgxpool.Pool, table string) *PostgresStore[V] {
	return &PostgresStore[V]{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

func (s *PostgresStore[V]) Before(ctx context.Context, ownerID uuid.UUID, at time.Time) (*Change[V], error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, previous, date, last_change_id
		FROM %s
		WHERE owner_id = $1 AND date <= $2
		ORDER BY date DESC, seq DESC
		LIMIT 1`, s.table)

	return s.queryOne(ctx, query, ownerID, at)
}

func (s *PostgresStore[V]) After(ctx context.Context, ownerID uuid.UUID, at time.Time) (*Change[V], error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, previous, date, last_change_id
		FROM %s
		WHERE owner_id = $1 AND date > $2
		ORDER BY date ASC, seq ASC
		LIMIT 1`, s.table)

	return s.queryOne(ctx, query, ownerID, at)
}

func (s *PostgresStore[V]) queryOne(ctx context.Context, query string, args ...any) (*Change[V], error) {
	c, err := scanChange[V](s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get change: %w", err)
	}
	return c, nil
}

func (s *PostgresStore[V]) Insert(ctx context.Context, c *Change[V], successor *uuid.UUID) error {
	previous, err := json.Marshal(c.Previous)
	if err != nil {
		return fmt.Errorf("failed to encode previous value: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, previous, date, last_change_id)
		VALUES ($1, $2, $3, $4, $5)`, s.table)
	relink := fmt.Sprintf(`
		UPDATE %s SET last_change_id = $1
		WHERE id = $2 AND owner_id = $3`, s.table)

	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insert, c.ID, c.OwnerID, previous, c.Date, c.LastChangeID); err != nil {
			return fmt.Errorf("failed to insert change: %w", err)
		}
		if successor == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, relink, c.ID, *successor, c.OwnerID); err != nil {
			return fmt.Errorf("failed to relink change: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore[V]) List(ctx context.Context, ownerID uuid.UUID) ([]Change[V], error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, previous, date, last_change_id
		FROM %s
		WHERE owner_id = $1
		ORDER BY date ASC, seq ASC`, s.table)

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	changes := []Change[V]{}
	for rows.Next() {
		c, err := scanChange[V](rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		changes = append(changes, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate changes: %w", err)
	}

	return changes, nil
}

func scanChange[V any](row pgx.Row) (*Change[V], error) {
	var (
		c        Change[V]
		previous []byte
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &previous, &c.Date, &c.LastChangeID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(previous, &c.Previous); err != nil {
		return nil, fmt.Errorf("failed to decode previous value: %w", err)
	}
	return &c, nil
}
