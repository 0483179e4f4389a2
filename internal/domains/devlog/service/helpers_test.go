package service_test

import (
	"devlog-backend/internal/domains/devlog"
	"devlog-backend/internal/domains/devlog/service"
	"devlog-backend/internal/testutil/factory"
)

func newServiceWithNotifier(env *factory.Env, n devlog.Notifier) devlog.Service {
	return service.NewLogService(env.LogRepo, env.Projects, n, env.Tracker)
}
