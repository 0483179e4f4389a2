package devlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChangeNotification reports an accepted change to an observed field.
// It never blocks the update that produced it.
type ChangeNotification struct {
	LogID    uuid.UUID `json:"log_id"`
	Field    Field     `json:"field"`
	Previous string    `json:"previous"`
	Current  string    `json:"current"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

func newContentNotification(next, prev *Log, at time.Time) ChangeNotification {
	n := ChangeNotification{
		LogID:   next.ID,
		Field:   FieldContent,
		Current: next.Content,
		Message: fmt.Sprintf("content of %s has been modified", next),
		At:      at,
	}
	if prev != nil {
		n.Previous = prev.Content
	}
	return n
}

// Notifier publishes notifications once the update is committed
type Notifier interface {
	Notify(ctx context.Context, n ChangeNotification) error
}

// LogNotifier writes notifications as warnings to the global zerolog logger
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n ChangeNotification) error {
	log.Warn().
		Str("log_id", n.LogID.String()).
		Str("field", string(n.Field)).
		Time("at", n.At).
		Msg(n.Message)
	return nil
}

// Notifiers fans a notification out to every notifier, joining their errors
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, n ChangeNotification) error {
	var errs []error
	for _, notifier := range ns {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n ChangeNotification) error

func (f NotifierFunc) Notify(ctx context.Context, n ChangeNotification) error {
	return f(ctx, n)
}
