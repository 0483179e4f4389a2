package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"devlog-backend/internal/domains/history"
)

// History implements history.Store[V]; each chain is kept sorted by date,
// entries with equal dates in insertion order
type History[V any] struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]history.Change[V]
}

func NewHistory[V any]() *History[V] {
	return &History[V]{entries: make(map[uuid.UUID][]history.Change[V])}
}

func (s *History[V]) Before(_ context.Context, ownerID uuid.UUID, at time.Time) (*history.Change[V], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := s.entries[ownerID]
	for i := len(chain) - 1; i >= 0; i-- {
		if !chain[i].Date.After(at) {
			c := chain[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *History[V]) After(_ context.Context, ownerID uuid.UUID, at time.Time) (*history.Change[V], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.entries[ownerID] {
		if c.Date.After(at) {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *History[V]) Insert(_ context.Context, c *history.Change[V], successor *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.entries[c.OwnerID]
	pos := len(chain)
	for i, existing := range chain {
		if existing.Date.After(c.Date) {
			pos = i
			break
		}
	}

	chain = append(chain, history.Change[V]{})
	copy(chain[pos+1:], chain[pos:])
	chain[pos] = *c

	if successor != nil {
		for i := range chain {
			if chain[i].ID == *successor {
				id := c.ID
				chain[i].LastChangeID = &id
			}
		}
	}

	s.entries[c.OwnerID] = chain
	return nil
}

func (s *History[V]) List(_ context.Context, ownerID uuid.UUID) ([]history.Change[V], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]history.Change[V]{}, s.entries[ownerID]...), nil
}
