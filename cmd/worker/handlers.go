package main

import (
	"github.com/hibiken/asynq"

	devlogJob "devlog-backend/internal/domains/devlog/job"
	"devlog-backend/internal/shared"
	"devlog-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	contentChanged *devlogJob.ContentChangedHandler
	backfillSlugs  *devlogJob.BackfillSlugsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		contentChanged: devlogJob.NewContentChangedHandler(c.ContentHistory),
		backfillSlugs: devlogJob.NewBackfillSlugsHandler(map[string]devlogJob.SlugBackfiller{
			"projects": c.ProjectService,
			"logs":     c.LogService,
		}),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeLogContentChanged, h.contentChanged.ProcessTask)
	mux.HandleFunc(shared.TypeBackfillSlugs, h.backfillSlugs.ProcessTask)
}
