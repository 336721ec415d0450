package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	card "bizcard-backend/internal/domains/card"
	"bizcard-backend/pkg/database"
	"bizcard-backend/pkg/occ"
)

const uniqueViolationCode = "23505"

// slugCandidateLimit bounds the suffix loop; past this the base name is so
// contended that failing is more honest than minting slug-99 style URLs.
const slugCandidateLimit = 20

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) card.Repository {
	return &postgresRepository{pool: pool}
}

// CreateWithSlug reserves a slug and inserts in one transaction. The check
// and the insert still race against other transactions, so the unique index
// on slug stays the source of truth; we only shrink the window.
func (r *postgresRepository) CreateWithSlug(ctx context.Context, c *card.BusinessCard, baseSlug string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		slug, err := resolveFreeSlug(ctx, tx, baseSlug)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO business_cards (
				id, user_id, name, slug, title, theme, is_active,
				version, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
		`

		_, err = tx.Exec(ctx, query,
			c.ID, c.UserID, c.Name, slug, c.Title, c.Theme, c.IsActive,
			c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return fmt.Errorf("%w: unique constraint on %q", card.ErrSlugTaken, slug)
			}
			return fmt.Errorf("insert card: %w", err)
		}

		c.Slug = slug
		c.Version = 1
		return nil
	})
}

func resolveFreeSlug(ctx context.Context, tx pgx.Tx, base string) (string, error) {
	for i := 1; i <= slugCandidateLimit; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}

		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM business_cards WHERE slug = $1)`, candidate,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: no free candidate for %q", card.ErrSlugTaken, base)
}

func (r *postgresRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*card.BusinessCard, error) {
	query := `
		SELECT id, user_id, name, slug, title, theme, is_active,
		       version, created_at, updated_at
		FROM business_cards
		WHERE id = $1 AND user_id = $2
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]card.BusinessCard, error) {
	query := `
		SELECT id, user_id, name, slug, title, theme, is_active,
		       version, created_at, updated_at
		FROM business_cards
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []card.BusinessCard
	for rows.Next() {
		var c card.BusinessCard
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Slug, &c.Title, &c.Theme, &c.IsActive,
			&c.Version, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}

	return cards, rows.Err()
}

func (r *postgresRepository) GetActiveBySlug(ctx context.Context, slug string) (*card.BusinessCard, error) {
	query := `
		SELECT id, user_id, name, slug, title, theme, is_active,
		       version, created_at, updated_at
		FROM business_cards
		WHERE slug = $1 AND is_active = true
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, slug))
}

func (r *postgresRepository) Update(ctx context.Context, c *card.BusinessCard, expectedVersion int) (int, error) {
	query := `
		UPDATE business_cards
		SET name = $1, title = $2, theme = $3,
		    version = version + 1, updated_at = now()
		WHERE id = $4 AND user_id = $5 AND version = $6
		RETURNING version
	`

	var newVersion int
	err := r.pool.QueryRow(ctx, query,
		c.Name, c.Title, c.Theme,
		c.ID, c.UserID, expectedVersion,
	).Scan(&newVersion)

	return occ.ResolveUpdate(ctx, r.pool, err, newVersion, "business_cards", c.ID, c.UserID)
}

func (r *postgresRepository) SetActive(ctx context.Context, id, userID uuid.UUID, active bool, expectedVersion int) (int, error) {
	query := `
		UPDATE business_cards
		SET is_active = $1,
		    version = version + 1, updated_at = now()
		WHERE id = $2 AND user_id = $3 AND version = $4
		RETURNING version
	`

	var newVersion int
	err := r.pool.QueryRow(ctx, query, active, id, userID, expectedVersion).Scan(&newVersion)

	return occ.ResolveUpdate(ctx, r.pool, err, newVersion, "business_cards", id, userID)
}

func (r *postgresRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM business_cards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return card.ErrCardNotFound
	}

	return nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*card.BusinessCard, error) {
	var c card.BusinessCard
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Slug, &c.Title, &c.Theme, &c.IsActive,
		&c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, card.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}

	return &c, nil
}
