package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bizcard-backend/internal/domains/analytics"
	"bizcard-backend/pkg/logger"
	"bizcard-backend/pkg/retry"
)

// RollupPayload optionally pins the day to aggregate. An empty payload means
// yesterday (UTC), which is what the nightly schedule sends.
type RollupPayload struct {
	Day string `json:"day,omitempty"` // YYYY-MM-DD
}

// RollupHandler materializes daily view counts for the dashboard.
type RollupHandler struct {
	repo analytics.Repository
}

func NewRollupHandler(repo analytics.Repository) *RollupHandler {
	return &RollupHandler{repo: repo}
}

// ProcessTask handles the analytics:rollup task. Returning an error lets
// asynq retry with its own backoff on top of ours.
func (h *RollupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	day := time.Now().UTC().AddDate(0, 0, -1)

	if len(task.Payload()) > 0 {
		var payload RollupPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return err
		}
		if payload.Day != "" {
			parsed, err := time.Parse("2006-01-02", payload.Day)
			if err != nil {
				return err
			}
			day = parsed
		}
	}

	rows, err := retry.DoResult(ctx, "analytics.rollup", retry.DefaultPolicy(), func(ctx context.Context) (int64, error) {
		return h.repo.RollupDaily(ctx, day)
	})
	if err != nil {
		return err
	}

	logger.Info("Daily view rollup complete", map[string]interface{}{
		"day":  day.Format("2006-01-02"),
		"rows": rows,
	})
	return nil
}
