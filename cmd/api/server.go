package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homelibrary-backend/internal/infrastructure/events"
	"homelibrary-backend/pkg/container"
)

func Serve() {
	// ========================================
	// 1. BUILD DI CONTAINER
	// ========================================
	appContainer, err := container.NewContainer()
	if err != nil {
		log.Fatalf("❌ Failed to initialize container: %v", err)
	}
	defer appContainer.Cleanup()

	// ========================================
	// 2. START BACKGROUND CONSUMERS
	// ========================================
	// Feed subscriber và transfer completion listener chạy suốt đời server.
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	warmFeed(bgCtx, appContainer)
	go appContainer.FeedSubscriber.Run(bgCtx)
	go appContainer.DownloadService.Listen(bgCtx)

	// ========================================
	// 3. SETUP ROUTER + HTTP SERVER
	// ========================================
	router := SetupRouter(appContainer)

	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   0, // SSE endpoints hold the connection open
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// ========================================
	// 4. START SERVER (NON-BLOCKING)
	// ========================================
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", port)
		log.Printf("📚 Environment: %s", appContainer.Config.App.Environment)
		log.Printf("💚 Health Check: http://localhost:%s/api/v1/health", port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// ========================================
	// 5. GRACEFUL SHUTDOWN
	// ========================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	bgCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}

// feedWarmLimit bounds the startup load; a home library stays well under it.
const feedWarmLimit = 1000

// warmFeed seeds the reconciler from the database so the first snapshot
// is not empty while waiting for deltas.
func warmFeed(ctx context.Context, c *container.Container) {
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	books, err := c.BookRepo.List(loadCtx, feedWarmLimit)
	if err != nil {
		log.Printf("⚠️  Feed warm-up failed (serving empty snapshot): %v", err)
		return
	}

	for _, b := range books {
		c.FeedReconciler.Apply(events.CatalogDelta{
			Op:     events.OpAdded,
			BookID: b.ID.String(),
			Book:   b,
		})
	}

	log.Printf("📡 Feed warmed with %d books", len(books))
}
