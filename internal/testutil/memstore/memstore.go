// Package memstore holds in-memory repositories for service and handler tests.
package memstore

import (
	"sync"
	"time"
)

// clock hands out strictly increasing timestamps so ordering by date is stable
type clock struct {
	mu   sync.Mutex
	next time.Time
}

func newClock() *clock {
	return &clock{next: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}
