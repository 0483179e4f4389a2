package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"devlog-backend/internal/domains/user"
)

// Users implements user.Repository
type Users struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]user.User
	clock *clock
}

func NewUsers() *Users {
	return &Users{
		byID:  make(map[uuid.UUID]user.User),
		clock: newClock(),
	}
}

func (r *Users) Create(_ context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return nil, user.ErrDuplicateUsername
		}
	}

	created := *u
	created.ID = uuid.New()
	created.CreatedAt = r.clock.now()
	r.byID[created.ID] = created
	return &created, nil
}

func (r *Users) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *Users) GetByIDs(_ context.Context, ids []uuid.UUID) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := []user.User{}
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *Users) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]user.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}
