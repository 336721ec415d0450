package main

import (
	"context"

	"github.com/hibiken/asynq"

	"bizcard-backend/internal/shared"
	"bizcard-backend/pkg/container"
	"bizcard-backend/pkg/logger"
)

// setupAsynqServer creates the worker server and starts it in a goroutine.
func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynq.Server {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueAnalytics: 10,
				shared.QueueDefault:   5,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.ErrorFields("Task failed", err, map[string]interface{}{
					"type": task.Type(),
				})
			}),
		},
	)

	go func() {
		logger.Info("Worker starting", map[string]interface{}{})
		if err := srv.Run(mux); err != nil {
			logger.Error("Worker failed", err)
			panic(err)
		}
	}()

	return srv
}
