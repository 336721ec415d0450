package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bizcard-backend/internal/domains/analytics/job"
	"bizcard-backend/internal/shared"
	"bizcard-backend/pkg/logger"
)

// Scheduler registers the recurring background jobs with asynq.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires up all scheduled jobs.
func (s *Scheduler) RegisterJobs() error {
	return s.registerAnalyticsRollupJob()
}

// Nightly at 00:30 UTC, after the day it aggregates has fully closed. An
// empty payload means "yesterday" on the handler side.
func (s *Scheduler) registerAnalyticsRollupJob() error {
	payload, err := json.Marshal(job.RollupPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeAnalyticsRollup, payload)

	_, err = s.scheduler.Register(
		"30 0 * * *",
		task,
		asynq.Queue(shared.QueueAnalytics),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register AnalyticsRollup job", err)
		return err
	}

	logger.Info("Registered AnalyticsRollup: daily at 00:30 UTC", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
