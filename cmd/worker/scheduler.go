package main

import (
	"bizcard-backend/internal/infrastructure/queue"
	"bizcard-backend/pkg/container"
	"bizcard-backend/pkg/logger"
)

// setupScheduler registers the cron jobs and starts the scheduler in a
// goroutine.
func setupScheduler(c *container.Container) *queue.Scheduler {
	scheduler := queue.NewScheduler(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	if err := scheduler.RegisterJobs(); err != nil {
		logger.Error("Failed to register scheduled jobs", err)
		panic(err)
	}

	go func() {
		logger.Info("Scheduler starting", map[string]interface{}{})
		if err := scheduler.Start(); err != nil {
			logger.Error("Scheduler failed", err)
			panic(err)
		}
	}()

	return scheduler
}
