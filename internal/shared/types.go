package shared

// Asynq task types and queue names shared between the API (enqueue side)
// and the worker (handler side).
const (
	TypeAnalyticsRollup = "analytics:rollup"

	QueueAnalytics = "analytics"
	QueueDefault   = "default"
)
