package main

import (
	"os"

	"github.com/joho/godotenv"

	"bizcard-backend/pkg/container"
	"bizcard-backend/pkg/logger"
	"bizcard-backend/pkg/shutdown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables", map[string]interface{}{})
	}

	// Logger first: container construction logs connect retries.
	logger.Init(getEnv("APP_ENV", "development"))

	c, err := container.NewContainer()
	if err != nil {
		logger.Error("Failed to initialize container", err)
		panic(err)
	}
	defer c.Cleanup()

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(c, handlers)
	scheduler := setupScheduler(c)

	<-shutdown.Notify()

	logger.Info("Worker shutting down", map[string]interface{}{})
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("Worker stopped", map[string]interface{}{})
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
