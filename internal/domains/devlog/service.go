package devlog

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"devlog-backend/internal/domains/history"
)

// Service defines business logic for logs
type Service interface {
	// Create checks author membership, stores the log, then assigns a random slug.
	// Errors: validation errors, *AuthorizationError, project.ErrProjectNotFound
	Create(ctx context.Context, req CreateLogRequest) (*Log, error)

	// Save commits l for the fields in changed after they pass the Guard.
	// Notifications are published only after a successful commit.
	// Errors: *ImmutableFieldError, *AuthorizationError, ErrLogNotFound
	Save(ctx context.Context, l *Log, changed FieldSet) (*Log, []ChangeNotification, error)

	// Update applies a partial update; the fields present in req are the changed set
	Update(ctx context.Context, id uuid.UUID, req UpdateLogRequest) (*Log, []ChangeNotification, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Log, error)
	GetBySlug(ctx context.Context, slug string) (*Log, error)
	List(ctx context.Context, filter LogFilter) ([]Log, error)

	// AssignMissingSlugs gives up to limit slug-less logs a random slug
	AssignMissingSlugs(ctx context.Context, limit int) (int, error)

	// History returns the previous contents of a log, oldest first
	History(ctx context.Context, id uuid.UUID) ([]history.Change[string], error)

	// ExportProjectLogs builds an XLSX workbook with the project's logs
	ExportProjectLogs(ctx context.Context, projectID uuid.UUID) (*excelize.File, error)
}
