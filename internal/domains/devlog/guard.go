package devlog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"devlog-backend/internal/domains/project"
)

// ProjectLookup resolves the project a log belongs to
type ProjectLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

// Guard decides whether a log mutation may be committed
type Guard struct {
	projects ProjectLookup
	now      func() time.Time
}

func NewGuard(projects ProjectLookup) *Guard {
	return &Guard{
		projects: projects,
		now:      time.Now,
	}
}

// Validate checks next against the stored version prev for the fields in changed.
// prev is nil when nothing is stored under next.ID yet; in that case a changed
// author is only checked for project membership.
// Returned notifications are meant to be published after the commit.
func (g *Guard) Validate(ctx context.Context, next, prev *Log, changed FieldSet) ([]ChangeNotification, error) {
	if len(changed) == 0 {
		return nil, nil
	}

	if changed.Has(FieldProject) {
		return nil, &ImmutableFieldError{Field: string(FieldProject)}
	}

	if changed.Has(FieldAuthor) {
		if prev != nil {
			if next.AuthorID != prev.AuthorID {
				return nil, &ImmutableFieldError{Field: string(FieldAuthor)}
			}
		} else if err := g.Authorize(ctx, next); err != nil {
			return nil, err
		}
	}

	var notifications []ChangeNotification
	if changed.Has(FieldContent) {
		notifications = append(notifications, newContentNotification(next, prev, g.now().UTC()))
	}

	return notifications, nil
}

// Authorize requires the log's author to be the project admin or a contributor
func (g *Guard) Authorize(ctx context.Context, l *Log) error {
	p, err := g.projects.GetByID(ctx, l.ProjectID)
	if err != nil {
		return err
	}
	if !p.IsMember(l.AuthorID) {
		return &AuthorizationError{Reason: "author not in the project"}
	}
	return nil
}
