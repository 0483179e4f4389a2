package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devlog-backend/internal/shared/middleware"
	"devlog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))
		v1.GET("/db-test", databaseTestHandler(c))

		setupUserRoutes(v1, c)
		setupProjectRoutes(v1, c)
		setupLogRoutes(v1, c)
		setupQueryRoutes(v1, c)
	}

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	{
		users.POST("", c.UserHandler.Create)
		users.GET("", c.UserHandler.List)
		users.GET("/:id", c.UserHandler.GetByID)
	}
}

// ========================================
// PROJECT ROUTES
// ========================================
// :slug also accepts the project UUID
func setupProjectRoutes(v1 *gin.RouterGroup, c *container.Container) {
	projects := v1.Group("/projects")
	{
		projects.POST("", c.ProjectHandler.Create)
		projects.GET("", c.ProjectHandler.List)
		projects.GET("/:slug", c.ProjectHandler.Get)
		projects.POST("/:slug/contributors", c.ProjectHandler.AddContributors)
		projects.DELETE("/:slug/contributors/:user_id", c.ProjectHandler.RemoveContributor)

		projects.GET("/:slug/logs", c.LogHandler.ListByProject)
		projects.GET("/:slug/logs/export", c.LogHandler.Export)
	}
}

// ========================================
// LOG ROUTES
// ========================================
// :id also accepts the log slug
func setupLogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	logs := v1.Group("/logs")
	{
		logs.POST("", c.LogHandler.Create)
		logs.GET("", c.LogHandler.List)
		logs.GET("/:id", c.LogHandler.Get)
		logs.PATCH("/:id", c.LogHandler.Update)
		logs.GET("/:id/history", c.LogHandler.History)
	}
}

// ========================================
// QUERY ROUTES
// ========================================
func setupQueryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/graphql", c.QueryHandler.Serve)
	v1.GET("/graphql", c.QueryHandler.Serve)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"queue":    appCtx.AsynqClient != nil,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

// ========================================
// DATABASE TEST HANDLER
// ========================================
func databaseTestHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not connected"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var version string
		if err := appCtx.DB.Pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Query failed: %v", err)})
			return
		}

		stats, err := appCtx.DB.Stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Database test successful",
			"database": gin.H{
				"postgres_version": version,
				"pool_stats":       stats,
			},
		})
	}
}
