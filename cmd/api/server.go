package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bizcard-backend/pkg/container"
	"bizcard-backend/pkg/logger"
	"bizcard-backend/pkg/shutdown"
)

// Serve builds the dependency graph, starts the HTTP server and blocks until
// a termination signal, then runs the shutdown hooks in order: stop the
// tracker ticker, drain the event buffer, close the pools.
func Serve() {
	appContainer, err := container.NewContainer()
	if err != nil {
		logger.Error("Failed to initialize container", err)
		panic(err)
	}

	appContainer.Tracker.Start()

	registry := shutdown.NewRegistry()
	registry.Register("tracker.stop", func(ctx context.Context) error {
		appContainer.Tracker.Stop()
		return nil
	})
	registry.Register("tracker.drain", func(ctx context.Context) error {
		appContainer.Tracker.ForceFlush(ctx)
		return nil
	})
	registry.Register("container.cleanup", func(ctx context.Context) error {
		appContainer.Cleanup()
		return nil
	})

	router := SetupRouter(appContainer)

	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":        port,
			"environment": appContainer.Config.App.Environment,
		})

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", err)
			panic(err)
		}
	}()

	<-shutdown.Notify()

	logger.Info("Shutting down server", map[string]interface{}{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Stop accepting requests first so no new view events arrive while the
	// tracker drains.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	registry.Run(shutdownCtx)

	logger.Info("Server exited gracefully", map[string]interface{}{})
}
