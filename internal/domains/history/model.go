package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrOwnerRequired = errors.New("history owner is required")

// Change is one entry in the history of a tracked field.
// Previous holds the value the field had before the change.
// Entries of one owner form a chain through LastChangeID.
type Change[V any] struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Previous     V          `json:"previous"`
	Date         time.Time  `json:"date"`
	LastChangeID *uuid.UUID `json:"last_change_id,omitempty"`
}

// IsFirst reports whether the entry starts its owner's chain
func (c *Change[V]) IsFirst() bool {
	return c.LastChangeID == nil
}

func (c *Change[V]) String() string {
	return fmt.Sprintf("%s - %s", c.Date.Format(time.DateTime), c.OwnerID)
}
