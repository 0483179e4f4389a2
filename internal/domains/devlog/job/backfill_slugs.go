package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/shared"
	"devlog-backend/internal/shared/utils"
)

const defaultBackfillBatch = 100

// BackfillSlugsPayload is the task body of shared.TypeBackfillSlugs
type BackfillSlugsPayload struct {
	Limit int `json:"limit"`
}

// SlugBackfiller assigns slugs to records whose post-creation assignment did not happen
type SlugBackfiller interface {
	AssignMissingSlugs(ctx context.Context, limit int) (int, error)
}

// NewBackfillSlugsTask builds the periodic backfill task
func NewBackfillSlugsTask(limit int) (*asynq.Task, error) {
	return utils.NewTask(shared.TypeBackfillSlugs, BackfillSlugsPayload{Limit: limit},
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
	)
}

// BackfillSlugsHandler runs every backfiller in order
type BackfillSlugsHandler struct {
	backfillers map[string]SlugBackfiller
}

func NewBackfillSlugsHandler(backfillers map[string]SlugBackfiller) *BackfillSlugsHandler {
	return &BackfillSlugsHandler{backfillers: backfillers}
}

func (h *BackfillSlugsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload BackfillSlugsPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.Limit <= 0 {
		payload.Limit = defaultBackfillBatch
	}

	var errs []error
	for name, b := range h.backfillers {
		n, err := b.AssignMissingSlugs(ctx, payload.Limit)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if n > 0 {
			log.Info().Str("kind", name).Int("assigned", n).Msg("slugs backfilled")
		}
	}
	return errors.Join(errs...)
}
