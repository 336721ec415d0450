package main

import (
	"github.com/hibiken/asynq"

	analyticsJob "bizcard-backend/internal/domains/analytics/job"
	"bizcard-backend/internal/shared"
	"bizcard-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	analyticsRollup *analyticsJob.RollupHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		analyticsRollup: analyticsJob.NewRollupHandler(c.AnalyticsRepo),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeAnalyticsRollup, h.analyticsRollup.ProcessTask)
}
