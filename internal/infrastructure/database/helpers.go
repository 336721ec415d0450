package database

import (
	"context"
	"fmt"
	"time"

	"bizcard-backend/pkg/logger"
)

// Ping verifies the database is alive and responsive. Called by health check
// endpoints.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	// A database that cannot answer within 5s has a problem; do not hang
	// the health endpoint on it.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// HealthCheck is the name the container calls Ping under.
func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	return db.Ping(ctx)
}

// Close drains the pool and releases all connections. Safe to call multiple
// times; subsequent calls are no-ops.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	logger.Info("Closing database connection pool", nil)

	// Close waits for acquired connections to be released before
	// terminating them.
	db.Pool.Close()
	db.Pool = nil

	return nil
}
