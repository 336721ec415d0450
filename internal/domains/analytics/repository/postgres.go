package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizcard-backend/internal/domains/analytics"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) analytics.Repository {
	return &postgresRepository{pool: pool}
}

// InsertBatch writes a whole flushed buffer via COPY, one round trip
// regardless of batch size.
func (r *postgresRepository) InsertBatch(ctx context.Context, events []analytics.ViewEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{e.ID, e.CardID, e.ViewedAt, e.IPAddress, e.UserAgent, e.Referrer})
	}

	copied, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"card_views"},
		[]string{"id", "card_id", "viewed_at", "ip_address", "user_agent", "referrer"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy view events: %w", err)
	}
	if copied != int64(len(events)) {
		return fmt.Errorf("copy view events: wrote %d of %d rows", copied, len(events))
	}

	return nil
}

func (r *postgresRepository) CountByCard(ctx context.Context, ownerID uuid.UUID) ([]analytics.CardViewSummary, error) {
	query := `
		SELECT c.id, c.name, COUNT(v.id), MAX(v.viewed_at)
		FROM business_cards c
		LEFT JOIN card_views v ON v.card_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id, c.name
		ORDER BY COUNT(v.id) DESC, c.name
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count views by card: %w", err)
	}
	defer rows.Close()

	var summaries []analytics.CardViewSummary
	for rows.Next() {
		var s analytics.CardViewSummary
		if err := rows.Scan(&s.CardID, &s.CardName, &s.TotalViews, &s.LastViewAt); err != nil {
			return nil, fmt.Errorf("scan view summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (r *postgresRepository) RecentViews(ctx context.Context, ownerID uuid.UUID, limit int) ([]analytics.ViewEvent, error) {
	query := `
		SELECT v.id, v.card_id, v.viewed_at, v.ip_address, v.user_agent, v.referrer
		FROM card_views v
		JOIN business_cards c ON c.id = v.card_id
		WHERE c.user_id = $1
		ORDER BY v.viewed_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent views: %w", err)
	}
	defer rows.Close()

	var events []analytics.ViewEvent
	for rows.Next() {
		var e analytics.ViewEvent
		if err := rows.Scan(&e.ID, &e.CardID, &e.ViewedAt, &e.IPAddress, &e.UserAgent, &e.Referrer); err != nil {
			return nil, fmt.Errorf("scan view event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// RollupDaily re-aggregates one day into card_view_daily. The upsert
// recomputes from raw events, so re-running a day converges on the same
// counts.
func (r *postgresRepository) RollupDaily(ctx context.Context, day time.Time) (int64, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	query := `
		INSERT INTO card_view_daily (card_id, day, views)
		SELECT card_id, $1::date, COUNT(*)
		FROM card_views
		WHERE viewed_at >= $1 AND viewed_at < $1 + interval '1 day'
		GROUP BY card_id
		ON CONFLICT (card_id, day) DO UPDATE SET views = EXCLUDED.views
	`

	tag, err := r.pool.Exec(ctx, query, dayStart)
	if err != nil {
		return 0, fmt.Errorf("rollup daily views: %w", err)
	}

	return tag.RowsAffected(), nil
}
