// Package factory builds services over in-memory stores and creates
// realistic users, projects and logs through them.
package factory

import (
	"context"
	"sync"

	"devlog-backend/internal/domains/devlog"
	logService "devlog-backend/internal/domains/devlog/service"
	"devlog-backend/internal/domains/history"
	"devlog-backend/internal/domains/project"
	projectService "devlog-backend/internal/domains/project/service"
	"devlog-backend/internal/domains/user"
	userService "devlog-backend/internal/domains/user/service"
	"devlog-backend/internal/testutil/memstore"
)

// Env is a fully wired service graph backed by memstore
type Env struct {
	UserRepo    *memstore.Users
	ProjectRepo *memstore.Projects
	LogRepo     *memstore.Logs
	HistoryRepo *memstore.History[string]

	Users    user.Service
	Projects project.Service
	Logs     devlog.Service
	Tracker  *history.Tracker[string]

	// Published collects every notification the log service published
	Published *Recorder
}

func NewEnv() *Env {
	env := &Env{
		UserRepo:    memstore.NewUsers(),
		ProjectRepo: memstore.NewProjects(),
		LogRepo:     memstore.NewLogs(),
		HistoryRepo: memstore.NewHistory[string](),
		Published:   &Recorder{},
	}

	env.Tracker = history.NewTracker[string](env.HistoryRepo)
	env.Users = userService.NewUserService(env.UserRepo)
	env.Projects = projectService.NewProjectService(env.ProjectRepo, env.Users)
	env.Logs = logService.NewLogService(env.LogRepo, env.Projects, env.Published, env.Tracker)

	return env
}

// Recorder is a devlog.Notifier that keeps what it receives
type Recorder struct {
	mu            sync.Mutex
	notifications []devlog.ChangeNotification
}

func (r *Recorder) Notify(_ context.Context, n devlog.ChangeNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *Recorder) All() []devlog.ChangeNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]devlog.ChangeNotification{}, r.notifications...)
}
