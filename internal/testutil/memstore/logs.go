package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"devlog-backend/internal/domains/devlog"
)

// Logs implements devlog.Repository. Update holds the write lock while
// the check runs, like the row lock of the postgres implementation.
type Logs struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]devlog.Log
	clock *clock

	// AssignSlugErr, when set, is returned by AssignSlug
	AssignSlugErr error
}

func NewLogs() *Logs {
	return &Logs{
		byID:  make(map[uuid.UUID]devlog.Log),
		clock: newClock(),
	}
}

func (r *Logs) Create(_ context.Context, l *devlog.Log) (*devlog.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *l
	created.ID = uuid.New()
	created.Slug = ""
	created.Date = r.clock.now()
	r.byID[created.ID] = created
	return &created, nil
}

func (r *Logs) AssignSlug(_ context.Context, id uuid.UUID, slug string) (bool, error) {
	if r.AssignSlugErr != nil {
		return false, r.AssignSlugErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byID[id]
	if !ok || l.Slug != "" {
		return false, nil
	}
	l.Slug = slug
	r.byID[id] = l
	return true, nil
}

func (r *Logs) GetByID(_ context.Context, id uuid.UUID) (*devlog.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return nil, devlog.ErrLogNotFound
	}
	return &l, nil
}

func (r *Logs) GetBySlug(ctx context.Context, slug string) (*devlog.Log, error) {
	all, _ := r.List(ctx, devlog.LogFilter{})
	for _, l := range all {
		if l.Slug == slug {
			return &l, nil
		}
	}
	return nil, devlog.ErrLogNotFound
}

func (r *Logs) ListWithoutSlug(ctx context.Context, limit int) ([]devlog.Log, error) {
	all, _ := r.List(ctx, devlog.LogFilter{})
	pending := []devlog.Log{}
	for _, l := range all {
		if l.Slug == "" && len(pending) < limit {
			pending = append(pending, l)
		}
	}
	return pending, nil
}

func (r *Logs) List(_ context.Context, filter devlog.LogFilter) ([]devlog.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := []devlog.Log{}
	for _, l := range r.byID {
		if filter.ProjectID != nil && l.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.AuthorID != nil && l.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.ImportantOnly && !l.Important {
			continue
		}
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}

func (r *Logs) Update(_ context.Context, l *devlog.Log, changed devlog.FieldSet, check devlog.CheckFunc) (*devlog.Log, []devlog.ChangeNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prev *devlog.Log
	if stored, ok := r.byID[l.ID]; ok {
		prev = &stored
	}

	notifications, err := check(prev)
	if err != nil {
		return nil, nil, err
	}
	if prev == nil {
		return nil, nil, devlog.ErrLogNotFound
	}

	updated := *prev
	if changed.Has(devlog.FieldContent) {
		updated.Content = l.Content
	}
	if changed.Has(devlog.FieldImportant) {
		updated.Important = l.Important
	}
	r.byID[updated.ID] = updated

	return &updated, notifications, nil
}
