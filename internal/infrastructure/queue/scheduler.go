package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/config"
	devlogJob "devlog-backend/internal/domains/devlog/job"
)

// Registrar is the part of asynq.Scheduler used to register periodic tasks
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	registrar Registrar
	queue     config.QueueConfig
}

func NewScheduler(redis asynq.RedisClientOpt, queue config.QueueConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		registrar: scheduler,
		queue:     queue,
	}
}

// RegisterJobs registers every periodic job of the worker
func (s *Scheduler) RegisterJobs() error {
	return RegisterBackfillSlugsJob(s.registrar, s.queue)
}

// ================================================
// JOB: Backfill Slugs (every 5 minutes by default)
// ================================================
// Picks up projects and logs whose post-creation slug assignment failed.
func RegisterBackfillSlugsJob(r Registrar, queue config.QueueConfig) error {
	task, err := devlogJob.NewBackfillSlugsTask(queue.BackfillBatch)
	if err != nil {
		return fmt.Errorf("build backfill task: %w", err)
	}

	entryID, err := r.Register(queue.BackfillSchedule, task, asynq.Timeout(2*time.Minute))
	if err != nil {
		log.Error().Err(err).Str("schedule", queue.BackfillSchedule).Msg("Failed to register BackfillSlugs job")
		return fmt.Errorf("register backfill job: %w", err)
	}

	log.Info().
		Str("entry_id", entryID).
		Str("schedule", queue.BackfillSchedule).
		Int("batch", queue.BackfillBatch).
		Msg("Registered BackfillSlugs")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
