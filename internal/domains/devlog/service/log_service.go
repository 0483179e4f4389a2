package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/domains/devlog"
	"devlog-backend/internal/domains/history"
	"devlog-backend/internal/shared/utils"
)

type logService struct {
	repo     devlog.Repository
	projects devlog.ProjectLookup
	guard    *devlog.Guard
	notifier devlog.Notifier
	history  *history.Tracker[string]
}

// NewLogService wires the guard to projects. notifier may be nil.
func NewLogService(
	repo devlog.Repository,
	projects devlog.ProjectLookup,
	notifier devlog.Notifier,
	tracker *history.Tracker[string],
) devlog.Service {
	if notifier == nil {
		notifier = devlog.LogNotifier{}
	}
	return &logService{
		repo:     repo,
		projects: projects,
		guard:    devlog.NewGuard(projects),
		notifier: notifier,
		history:  tracker,
	}
}

// ============================================
// CREATE
// ============================================

func (s *logService) Create(ctx context.Context, req devlog.CreateLogRequest) (*devlog.Log, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity := req.ToEntity()
	if err := s.guard.Authorize(ctx, entity); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return nil, err
	}

	// A failure here leaves the slug empty for the backfill job
	if err := s.assignSlug(ctx, created); err != nil {
		log.Error().Err(err).Str("log_id", created.ID.String()).Msg("failed to assign log slug")
	}

	log.Info().
		Str("log_id", created.ID.String()).
		Str("slug", created.Slug).
		Str("project_id", created.ProjectID.String()).
		Msg("Log created")

	return created, nil
}

func (s *logService) assignSlug(ctx context.Context, l *devlog.Log) error {
	if l.HasSlug() {
		return nil
	}

	slug, err := utils.RandomSlug(devlog.SlugLength)
	if err != nil {
		return err
	}

	assigned, err := s.repo.AssignSlug(ctx, l.ID, slug)
	if err != nil {
		return err
	}
	if !assigned {
		stored, err := s.repo.GetByID(ctx, l.ID)
		if err != nil {
			return err
		}
		l.Slug = stored.Slug
		return nil
	}

	l.Slug = slug
	return nil
}

func (s *logService) AssignMissingSlugs(ctx context.Context, limit int) (int, error) {
	pending, err := s.repo.ListWithoutSlug(ctx, limit)
	if err != nil {
		return 0, err
	}

	assigned := 0
	var errs []error
	for i := range pending {
		if err := s.assignSlug(ctx, &pending[i]); err != nil {
			log.Error().Err(err).Str("log_id", pending[i].ID.String()).Msg("slug backfill failed")
			errs = append(errs, fmt.Errorf("log %s: %w", pending[i].ID, err))
			continue
		}
		assigned++
	}
	return assigned, errors.Join(errs...)
}

// ============================================
// UPDATE
// ============================================

func (s *logService) Save(ctx context.Context, l *devlog.Log, changed devlog.FieldSet) (*devlog.Log, []devlog.ChangeNotification, error) {
	check := func(prev *devlog.Log) ([]devlog.ChangeNotification, error) {
		return s.guard.Validate(ctx, l, prev, changed)
	}

	saved, notifications, err := s.repo.Update(ctx, l, changed, check)
	if err != nil {
		log.Warn().
			Err(err).
			Str("log_id", l.ID.String()).
			Strs("changed", changed.Names()).
			Msg("log update rejected")
		return nil, nil, err
	}

	s.publish(ctx, notifications)
	return saved, notifications, nil
}

func (s *logService) Update(ctx context.Context, id uuid.UUID, req devlog.UpdateLogRequest) (*devlog.Log, []devlog.ChangeNotification, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	changed := req.ChangedFields()
	if len(changed) == 0 {
		return nil, nil, devlog.ErrNoChanges
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return s.Save(ctx, req.ApplyTo(*current), changed)
}

// publish runs after commit; notifier failures never undo the update
func (s *logService) publish(ctx context.Context, notifications []devlog.ChangeNotification) {
	for _, n := range notifications {
		if err := s.notifier.Notify(ctx, n); err != nil {
			log.Error().
				Err(err).
				Str("log_id", n.LogID.String()).
				Str("field", string(n.Field)).
				Msg("failed to publish change notification")
		}
	}
}

// ============================================
// READ
// ============================================

func (s *logService) GetByID(ctx context.Context, id uuid.UUID) (*devlog.Log, error) {
	if id == uuid.Nil {
		return nil, devlog.ErrLogNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *logService) GetBySlug(ctx context.Context, slug string) (*devlog.Log, error) {
	if slug == "" {
		return nil, devlog.ErrLogNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *logService) List(ctx context.Context, filter devlog.LogFilter) ([]devlog.Log, error) {
	return s.repo.List(ctx, filter)
}

func (s *logService) History(ctx context.Context, id uuid.UUID) ([]history.Change[string], error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.List(ctx, id)
}
