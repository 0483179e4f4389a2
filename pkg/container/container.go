package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/config"
	infraCache "devlog-backend/internal/infrastructure/cache"
	"devlog-backend/internal/infrastructure/database"
	"devlog-backend/internal/query"
	"devlog-backend/pkg/cache"

	"devlog-backend/internal/domains/devlog"
	logHandler "devlog-backend/internal/domains/devlog/handler"
	devlogJob "devlog-backend/internal/domains/devlog/job"
	logRepo "devlog-backend/internal/domains/devlog/repository"
	logService "devlog-backend/internal/domains/devlog/service"
	"devlog-backend/internal/domains/history"
	"devlog-backend/internal/domains/project"
	projectHandler "devlog-backend/internal/domains/project/handler"
	projectRepo "devlog-backend/internal/domains/project/repository"
	projectService "devlog-backend/internal/domains/project/service"
	"devlog-backend/internal/domains/user"
	userHandler "devlog-backend/internal/domains/user/handler"
	userRepo "devlog-backend/internal/domains/user/repository"
	userService "devlog-backend/internal/domains/user/service"
)

// LogContentChangesTable stores the previous contents of logs
const LogContentChangesTable = "log_content_changes"

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph.
// Built once per process; every field is a singleton.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache   // nil when Redis is unreachable
	AsynqClient *asynq.Client // nil when the queue is disabled

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo    user.Repository
	ProjectRepo project.Repository
	LogRepo     devlog.Repository
	ContentLog  history.Store[string]

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService    user.Service
	ProjectService project.Service
	LogService     devlog.Service
	ContentHistory *history.Tracker[string]
	Notifier       devlog.Notifier

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler    *userHandler.UserHandler
	ProjectHandler *projectHandler.ProjectHandler
	LogHandler     *logHandler.LogHandler
	QueryHandler   *query.Handler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	// STEP 1: CONFIGURATION
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	if cfg.App.UserSource == "" {
		log.Warn().Msg("USER_SOURCE not set, users are only managed locally. Devlog may not function correctly.")
	}

	// STEP 2: DATABASE
	if err := c.initDatabase(); err != nil {
		return nil, err
	}

	// STEP 3: CACHE + QUEUE
	c.initCache()
	c.initQueue()

	// STEP 4-6
	c.initRepositories()
	c.initServices()
	if err := c.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	log.Info().Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	if c.Config.Database.AutoMigrate {
		migrator, err := database.NewMigrator(c.Config.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to create migrator: %w", err)
		}
		if err := migrator.Up(context.Background()); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Info().Str("host", dbConfig.Host).Str("database", dbConfig.Database).Msg("Database connected")
	return nil
}

// initCache leaves c.Cache nil when Redis is down; repositories then read through to postgres
func (c *Container) initCache() {
	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisCache.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), caching disabled")
		_ = redisCache.Close()
		return
	}

	c.Cache = redisCache
	log.Info().Str("addr", c.Config.Redis.Host).Msg("Redis connected")
}

func (c *Container) initQueue() {
	if !c.Config.Queue.Enabled {
		log.Info().Msg("Queue disabled, content history is recorded synchronously")
		return
	}

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.ProjectRepo = projectRepo.NewPostgresRepository(pool, c.Cache)
	c.LogRepo = logRepo.NewPostgresRepository(pool)
	c.ContentLog = history.NewPostgresStore[string](pool, LogContentChangesTable)
}

func (c *Container) initServices() {
	c.ContentHistory = history.NewTracker[string](c.ContentLog)

	// Every notification is logged; content changes also reach the history
	notifiers := devlog.Notifiers{devlog.LogNotifier{}}
	if c.AsynqClient != nil {
		notifiers = append(notifiers, devlogJob.NewQueueNotifier(c.AsynqClient, c.Config.Queue.MaxRetry))
	} else {
		notifiers = append(notifiers, devlogJob.NewHistoryNotifier(c.ContentHistory))
	}
	c.Notifier = notifiers

	c.UserService = userService.NewUserService(c.UserRepo)
	c.ProjectService = projectService.NewProjectService(c.ProjectRepo, c.UserService)
	c.LogService = logService.NewLogService(c.LogRepo, c.ProjectService, c.Notifier, c.ContentHistory)
}

func (c *Container) initHandlers() error {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ProjectHandler = projectHandler.NewProjectHandler(c.ProjectService)
	c.LogHandler = logHandler.NewLogHandler(c.LogService, c.ProjectService)

	schema, err := query.NewSchema(query.Services{
		Users:    c.UserService,
		Projects: c.ProjectService,
		Logs:     c.LogService,
	})
	if err != nil {
		return fmt.Errorf("failed to build graphql schema: %w", err)
	}
	c.QueryHandler = query.NewHandler(schema)

	return nil
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases connections; call during graceful shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
