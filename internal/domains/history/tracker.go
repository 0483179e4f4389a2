package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tracker records previous values of a field of type V for any owner
type Tracker[V any] struct {
	store Store[V]
	now   func() time.Time
	newID func() uuid.UUID
}

type Option[V any] func(*Tracker[V])

// WithClock overrides the timestamp source
func WithClock[V any](now func() time.Time) Option[V] {
	return func(t *Tracker[V]) { t.now = now }
}

// WithIDGenerator overrides entry id generation
func WithIDGenerator[V any](newID func() uuid.UUID) Option[V] {
	return func(t *Tracker[V]) { t.newID = newID }
}

func NewTracker[V any](store Store[V], opts ...Option[V]) *Tracker[V] {
	t := &Tracker[V]{
		store: store,
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Change records previous as the value ownerID held before a modification
// happening now. See ChangeAt.
func (t *Tracker[V]) Change(ctx context.Context, ownerID uuid.UUID, previous V) (*Change[V], error) {
	return t.ChangeAt(ctx, ownerID, previous, time.Time{})
}

// ChangeAt records previous as the value ownerID held before the
// modification made at at; a zero at means now. The entry links to the
// owner's last entry dated at or before at, and an entry already recorded
// after at is relinked to it, so the chain follows modification time
// whatever order the calls arrive in.
func (t *Tracker[V]) ChangeAt(ctx context.Context, ownerID uuid.UUID, previous V, at time.Time) (*Change[V], error) {
	if ownerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	if at.IsZero() {
		at = t.now()
	}
	at = at.UTC()

	last, err := t.store.Before(ctx, ownerID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous change: %w", err)
	}
	next, err := t.store.After(ctx, ownerID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to load next change: %w", err)
	}

	entry := &Change[V]{
		ID:       t.newID(),
		OwnerID:  ownerID,
		Previous: previous,
		Date:     at,
	}
	if last != nil {
		lastID := last.ID
		entry.LastChangeID = &lastID
	}

	var successor *uuid.UUID
	if next != nil {
		nextID := next.ID
		successor = &nextID
	}

	if err := t.store.Insert(ctx, entry, successor); err != nil {
		return nil, fmt.Errorf("failed to record change: %w", err)
	}

	return entry, nil
}

// List returns the owner's history oldest first
func (t *Tracker[V]) List(ctx context.Context, ownerID uuid.UUID) ([]Change[V], error) {
	return t.store.List(ctx, ownerID)
}
