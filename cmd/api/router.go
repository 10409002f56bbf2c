package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"homelibrary-backend/internal/shared/middleware"
	"homelibrary-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupAuthorRoutes(v1, c)
		setupFeedRoutes(v1, c)
		setupDownloadRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	me := v1.Group("/me")
	me.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		me.GET("", c.UserHandler.GetProfile)
		me.PATCH("", c.UserHandler.UpdateProfile)
		me.GET("/downloads", c.UserHandler.ListDownloads)
		me.PUT("/downloads/:bookId", c.UserHandler.SetReadingOffset)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Public catalog reads
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.GetAll)
		books.GET("/:id", c.BookHandler.GetByID)
	}

	// Catalog writes are admin-only
	adminBooks := v1.Group("/books")
	adminBooks.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		adminBooks.POST("", c.BookHandler.Create)
		adminBooks.PATCH("/:id", c.BookHandler.Update)
		adminBooks.DELETE("/:id", c.BookHandler.Delete)
		adminBooks.POST("/:id/file", c.BookHandler.UploadFile)
		adminBooks.POST("/:id/cover", c.BookHandler.UploadCover)
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.GetAll)
		authors.GET("/:id", c.AuthorHandler.GetByID)
	}

	adminAuthors := v1.Group("/authors")
	adminAuthors.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		adminAuthors.POST("", c.AuthorHandler.Create)
		adminAuthors.PUT("/:id", c.AuthorHandler.Update)
		adminAuthors.DELETE("/:id", c.AuthorHandler.Delete)
	}
}

// ========================================
// FEED ROUTES
// ========================================
func setupFeedRoutes(v1 *gin.RouterGroup, c *container.Container) {
	feed := v1.Group("/feed")
	{
		feed.GET("", c.FeedHandler.Snapshot)
		feed.GET("/stream", c.FeedHandler.Stream)
	}

	v1.GET("/books/:id/watch", c.FeedHandler.Watch)
}

// ========================================
// DOWNLOAD ROUTES
// ========================================
func setupDownloadRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	v1.POST("/books/:id/download", auth, c.DownloadHandler.Start)
	v1.GET("/books/:id/file", auth, c.DownloadHandler.ServeFile)

	downloads := v1.Group("/downloads")
	downloads.Use(auth)
	{
		downloads.GET("/:correlationId", c.DownloadHandler.Status)
		downloads.GET("/:correlationId/wait", c.DownloadHandler.Wait)
		downloads.GET("/:correlationId/file", c.DownloadHandler.ServeTransferFile)
	}
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

		// Check database
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

		// Check redis
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
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
