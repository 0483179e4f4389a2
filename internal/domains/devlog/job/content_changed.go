package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/domains/devlog"
	"devlog-backend/internal/domains/history"
	"devlog-backend/internal/shared"
	"devlog-backend/internal/shared/utils"
)

// ContentChangedPayload is the task body of shared.TypeLogContentChanged
type ContentChangedPayload struct {
	LogID     uuid.UUID `json:"log_id"`
	Previous  string    `json:"previous"`
	Current   string    `json:"current"`
	ChangedAt time.Time `json:"changed_at"`
}

// Enqueuer is the subset of *asynq.Client used to publish tasks
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ========================================
// PRODUCER
// ========================================

// QueueNotifier turns content notifications into worker tasks
type QueueNotifier struct {
	client   Enqueuer
	maxRetry int
}

func NewQueueNotifier(client Enqueuer, maxRetry int) *QueueNotifier {
	return &QueueNotifier{
		client:   client,
		maxRetry: maxRetry,
	}
}

func (q *QueueNotifier) Notify(ctx context.Context, n devlog.ChangeNotification) error {
	if n.Field != devlog.FieldContent {
		return nil
	}

	task, err := utils.NewTask(shared.TypeLogContentChanged, ContentChangedPayload{
		LogID:     n.LogID,
		Previous:  n.Previous,
		Current:   n.Current,
		ChangedAt: n.At,
	})
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(q.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("enqueue content change: %w", err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("log_id", n.LogID.String()).
		Msg("content change enqueued")
	return nil
}

// HistoryNotifier records content changes synchronously, for setups without a worker
type HistoryNotifier struct {
	tracker *history.Tracker[string]
}

func NewHistoryNotifier(tracker *history.Tracker[string]) *HistoryNotifier {
	return &HistoryNotifier{tracker: tracker}
}

func (h *HistoryNotifier) Notify(ctx context.Context, n devlog.ChangeNotification) error {
	if n.Field != devlog.FieldContent {
		return nil
	}
	_, err := h.tracker.ChangeAt(ctx, n.LogID, n.Previous, n.At)
	return err
}

// ========================================
// CONSUMER
// ========================================

// ContentChangedHandler stores the previous content of a log in its history
type ContentChangedHandler struct {
	tracker *history.Tracker[string]
}

func NewContentChangedHandler(tracker *history.Tracker[string]) *ContentChangedHandler {
	return &ContentChangedHandler{tracker: tracker}
}

func (h *ContentChangedHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ContentChangedPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.LogID == uuid.Nil {
		return fmt.Errorf("content change without log id: %w", asynq.SkipRetry)
	}

	// ChangedAt orders the entry, so retried or reordered tasks land in place
	entry, err := h.tracker.ChangeAt(ctx, payload.LogID, payload.Previous, payload.ChangedAt)
	if err != nil {
		log.Error().Err(err).Str("log_id", payload.LogID.String()).Msg("failed to record content change")
		return fmt.Errorf("record content change: %w", err)
	}

	log.Info().
		Str("log_id", payload.LogID.String()).
		Str("change_id", entry.ID.String()).
		Bool("first", entry.IsFirst()).
		Msg("content change recorded")
	return nil
}
