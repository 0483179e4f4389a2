package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"devlog-backend/internal/domains/project"
)

// Projects implements project.Repository
type Projects struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]project.Project
	clock *clock

	slugless map[uuid.UUID]bool

	// AssignSlugErr, when set, is returned by AssignSlug
	AssignSlugErr error
	// AssignSlugErrs fails AssignSlug for single projects
	AssignSlugErrs map[uuid.UUID]error
}

func NewProjects() *Projects {
	return &Projects{
		byID:     make(map[uuid.UUID]project.Project),
		slugless: make(map[uuid.UUID]bool),
		clock:    newClock(),
	}
}

func clone(p project.Project) project.Project {
	p.ContributorIDs = slices.Clone(p.ContributorIDs)
	return p
}

func (r *Projects) Create(_ context.Context, p *project.Project) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := clone(*p)
	created.ID = uuid.New()
	created.Slug = ""
	created.CreatedAt = r.clock.now()
	r.byID[created.ID] = created

	out := clone(created)
	return &out, nil
}

func (r *Projects) AssignSlug(_ context.Context, id uuid.UUID, slug string) (bool, error) {
	if r.AssignSlugErr != nil {
		return false, r.AssignSlugErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.AssignSlugErrs[id]; err != nil {
		return false, err
	}

	p, ok := r.byID[id]
	if !ok || p.Slug != "" {
		return false, nil
	}
	p.Slug = slug
	r.byID[id] = p
	return true, nil
}

func (r *Projects) MarkSlugless(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.byID[id]; ok && p.Slug == "" {
		r.slugless[id] = true
	}
	return nil
}

func (r *Projects) GetByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	out := clone(p)
	return &out, nil
}

func (r *Projects) GetBySlug(ctx context.Context, slug string) (*project.Project, error) {
	all, _ := r.List(ctx)
	for _, p := range all {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, project.ErrProjectNotFound
}

func (r *Projects) ListWithoutSlug(ctx context.Context, limit int) ([]project.Project, error) {
	all, _ := r.List(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	pending := []project.Project{}
	for _, p := range all {
		if p.Slug == "" && !r.slugless[p.ID] && len(pending) < limit {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

func (r *Projects) List(_ context.Context) ([]project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]project.Project, 0, len(r.byID))
	for _, p := range r.byID {
		projects = append(projects, clone(p))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.Before(projects[j].CreatedAt) })
	return projects, nil
}

func (r *Projects) AddContributors(_ context.Context, id uuid.UUID, userIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return project.ErrProjectNotFound
	}
	for _, uid := range userIDs {
		if !p.HasContributor(uid) {
			p.ContributorIDs = append(p.ContributorIDs, uid)
		}
	}
	r.byID[id] = p
	return nil
}

func (r *Projects) RemoveContributor(_ context.Context, id uuid.UUID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return project.ErrProjectNotFound
	}
	p.ContributorIDs = slices.DeleteFunc(p.ContributorIDs, func(uid uuid.UUID) bool { return uid == userID })
	r.byID[id] = p
	return nil
}
