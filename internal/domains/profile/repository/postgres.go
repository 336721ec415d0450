package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	profile "bizcard-backend/internal/domains/profile"
	"bizcard-backend/pkg/occ"
)

// postgresRepository implements profile.Repository.
//
// All version-checked updates follow the same shape: one UPDATE with the
// expected version in the WHERE clause, `version = version + 1` in the SET
// list and RETURNING version. occ.ResolveUpdate turns a zero-row outcome
// into a ConflictError or ErrNotFound.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) profile.Repository {
	return &postgresRepository{pool: pool}
}

// ========================================
// PERSONAL INFO
// ========================================

func (r *postgresRepository) GetPersonalInfo(ctx context.Context, userID uuid.UUID) (*profile.PersonalInfo, error) {
	query := `
		SELECT id, user_id, full_name, headline, bio, phone, email, website, location,
		       version, created_at, updated_at
		FROM personal_info
		WHERE user_id = $1
	`

	var p profile.PersonalInfo
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Headline, &p.Bio, &p.Phone,
		&p.Email, &p.Website, &p.Location,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, profile.ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get personal info: %w", err)
	}

	return &p, nil
}

func (r *postgresRepository) InsertPersonalInfo(ctx context.Context, info *profile.PersonalInfo) error {
	query := `
		INSERT INTO personal_info (
			id, user_id, full_name, headline, bio, phone, email, website, location,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		info.ID, info.UserID, info.FullName, info.Headline, info.Bio,
		info.Phone, info.Email, info.Website, info.Location,
		info.CreatedAt, info.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert personal info: %w", err)
	}

	info.Version = 1
	return nil
}

func (r *postgresRepository) UpdatePersonalInfo(ctx context.Context, info *profile.PersonalInfo, expectedVersion int) (int, error) {
	query := `
		UPDATE personal_info
		SET full_name = $1, headline = $2, bio = $3, phone = $4, email = $5,
		    website = $6, location = $7,
		    version = version + 1, updated_at = now()
		WHERE id = $8 AND user_id = $9 AND version = $10
		RETURNING version
	`

	var newVersion int
	err := r.pool.QueryRow(ctx, query,
		info.FullName, info.Headline, info.Bio, info.Phone, info.Email,
		info.Website, info.Location,
		info.ID, info.UserID, expectedVersion,
	).Scan(&newVersion)

	return occ.ResolveUpdate(ctx, r.pool, err, newVersion, "personal_info", info.ID, info.UserID)
}

// ========================================
// PROFESSIONAL INFO
// ========================================

func (r *postgresRepository) ListProfessionalInfo(ctx context.Context, userID uuid.UUID) ([]profile.ProfessionalInfo, error) {
	query := `
		SELECT id, user_id, company, title, start_year, end_year, is_primary,
		       version, created_at, updated_at
		FROM professional_info
		WHERE user_id = $1
		ORDER BY is_primary DESC, start_year DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list professional info: %w", err)
	}
	defer rows.Close()

	var entries []profile.ProfessionalInfo
	for rows.Next() {
		var e profile.ProfessionalInfo
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Company, &e.Title, &e.StartYear, &e.EndYear,
			&e.IsPrimary, &e.Version, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan professional info: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *postgresRepository) InsertProfessionalInfo(ctx context.Context, entry *profile.ProfessionalInfo) error {
	query := `
		INSERT INTO professional_info (
			id, user_id, company, title, start_year, end_year, is_primary,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Company, entry.Title,
		entry.StartYear, entry.EndYear, entry.IsPrimary,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert professional info: %w", err)
	}

	entry.Version = 1
	return nil
}

func (r *postgresRepository) UpdateProfessionalInfo(ctx context.Context, entry *profile.ProfessionalInfo, expectedVersion int) (int, error) {
	query := `
		UPDATE professional_info
		SET company = $1, title = $2, start_year = $3, end_year = $4, is_primary = $5,
		    version = version + 1, updated_at = now()
		WHERE id = $6 AND user_id = $7 AND version = $8
		RETURNING version
	`

	var newVersion int
	err := r.pool.QueryRow(ctx, query,
		entry.Company, entry.Title, entry.StartYear, entry.EndYear, entry.IsPrimary,
		entry.ID, entry.UserID, expectedVersion,
	).Scan(&newVersion)

	return occ.ResolveUpdate(ctx, r.pool, err, newVersion, "professional_info", entry.ID, entry.UserID)
}

func (r *postgresRepository) DeleteProfessionalInfo(ctx context.Context, id, userID uuid.UUID) error {
	return r.deleteOwned(ctx, "professional_info", id, userID)
}

// ========================================
// EDUCATION
// ========================================

func (r *postgresRepository) ListEducation(ctx context.Context, userID uuid.UUID) ([]profile.Education, error) {
	query := `
		SELECT id, user_id, institution, degree, field, year_completed,
		       version, created_at, updated_at
		FROM education
		WHERE user_id = $1
		ORDER BY year_completed DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	defer rows.Close()

	var entries []profile.Education
	for rows.Next() {
		var e profile.Education
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Institution, &e.Degree, &e.Field,
			&e.YearCompleted, &e.Version, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan education: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *postgresRepository) InsertEducation(ctx context.Context, entry *profile.Education) error {
	query := `
		INSERT INTO education (
			id, user_id, institution, degree, field, year_completed,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Institution, entry.Degree,
		entry.Field, entry.YearCompleted,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert education: %w", err)
	}

	entry.Version = 1
	return nil
}

func (r *postgresRepository) UpdateEducation(ctx context.Context, entry *profile.Education, expectedVersion int) (int, error) {
	query := `
		UPDATE education
		SET institution = $1, degree = $2, field = $3, year_completed = $4,
		    version = version + 1, updated_at = now()
		WHERE id = $5 AND user_id = $6 AND version = $7
		RETURNING version
	`

	var newVersion int
	err := r.pool.QueryRow(ctx, query,
		entry.Institution, entry.Degree, entry.Field, entry.YearCompleted,
		entry.ID, entry.UserID, expectedVersion,
	).Scan(&newVersion)

	return occ.ResolveUpdate(ctx, r.pool, err, newVersion, "education", entry.ID, entry.UserID)
}

func (r *postgresRepository) DeleteEducation(ctx context.Context, id, userID uuid.UUID) error {
	return r.deleteOwned(ctx, "education", id, userID)
}

// ========================================
// AWARDS
// ========================================

func (r *postgresRepository) ListAwards(ctx context.Context, userID uuid.UUID) ([]profile.Award, error) {
	query := `
		SELECT id, user_id, title, issuer, date_received, description,
		       version, created_at, updated_at
		FROM awards
		WHERE user_id = $1
		ORDER BY date_received DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}
	defer rows.Close()

	var entries []profile.Award
	for rows.Next() {
		var e profile.Award
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Title, &e.Issuer, &e.DateReceived,
			&e.Description, &e.Version, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan award: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *postgresRepository) InsertAward(ctx context.Context, entry *profile.Award) error {
	query := `
		INSERT INTO awards (
			id, user_id, title, issuer, date_received, description,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Issuer,
		entry.DateReceived, entry.Description,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert award: %w", err)
	}

	entry.Version = 1
	return nil
}

func (r *postgresRepository) UpdateAward(ctx context.Context, entry *profile.Award, expectedVersion int) (int, error) {
	query := `
		UPDATE awards
		SET title = $1, issuer = $2, date_received = $3, description = $4,
		    version = version + 1, updated_at = now()
		WHERE id = $5 AND user_id = $6 AND version = $7
		RETURNING version
	`

	var newVersion int
	err := r.pool.QueryRow(ctx, query,
		entry.Title, entry.Issuer, entry.DateReceived, entry.Description,
		entry.ID, entry.UserID, expectedVersion,
	).Scan(&newVersion)

	return occ.ResolveUpdate(ctx, r.pool, err, newVersion, "awards", entry.ID, entry.UserID)
}

func (r *postgresRepository) DeleteAward(ctx context.Context, id, userID uuid.UUID) error {
	return r.deleteOwned(ctx, "awards", id, userID)
}

// ========================================
// PRODUCTS / SERVICES
// ========================================

func (r *postgresRepository) ListProductsServices(ctx context.Context, userID uuid.UUID) ([]profile.ProductService, error) {
	query := `
		SELECT id, user_id, name, description, category, photo_url, website_link,
		       version, created_at, updated_at
		FROM products_services
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list products/services: %w", err)
	}
	defer rows.Close()

	var entries []profile.ProductService
	for rows.Next() {
		var e profile.ProductService
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Name, &e.Description, &e.Category,
			&e.PhotoURL, &e.WebsiteLink, &e.Version, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product/service: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *postgresRepository) InsertProductService(ctx context.Context, entry *profile.ProductService) error {
	query := `
		INSERT INTO products_services (
			id, user_id, name, description, category, photo_url, website_link,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Name, entry.Description,
		entry.Category, entry.PhotoURL, entry.WebsiteLink,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product/service: %w", err)
	}

	entry.Version = 1
	return nil
}

func (r *postgresRepository) UpdateProductService(ctx context.Context, entry *profile.ProductService, expectedVersion int) (int, error) {
	query := `
		UPDATE products_services
		SET name = $1, description = $2, category = $3, photo_url = $4, website_link = $5,
		    version = version + 1, updated_at = now()
		WHERE id = $6 AND user_id = $7 AND version = $8
		RETURNING version
	`

	var newVersion int
	err := r.pool.QueryRow(ctx, query,
		entry.Name, entry.Description, entry.Category, entry.PhotoURL, entry.WebsiteLink,
		entry.ID, entry.UserID, expectedVersion,
	).Scan(&newVersion)

	return occ.ResolveUpdate(ctx, r.pool, err, newVersion, "products_services", entry.ID, entry.UserID)
}

func (r *postgresRepository) DeleteProductService(ctx context.Context, id, userID uuid.UUID) error {
	return r.deleteOwned(ctx, "products_services", id, userID)
}

// deleteOwned removes an owner-scoped row. Zero rows affected maps to
// occ.ErrNotFound; missing and foreign rows look the same to the caller.
func (r *postgresRepository) deleteOwned(ctx context.Context, table string, id, userID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table)

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return occ.ErrNotFound
	}

	return nil
}
