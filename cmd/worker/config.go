package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/config"
)

// redisOpt is the connection shared by the asynq server and scheduler
func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func logConfig(cfg *config.Config) {
	log.Info().
		Str("redis", cfg.Redis.Host).
		Int("concurrency", cfg.Queue.Concurrency).
		Str("backfill_schedule", cfg.Queue.BackfillSchedule).
		Msg("[Config] Worker configuration loaded")
}
