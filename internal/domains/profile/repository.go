package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines profile data access. Update methods implement the
// optimistic-concurrency contract: they apply a single conditional UPDATE
// with the expected version in the WHERE clause and return the new version
// on success, occ.ConflictError on a stale version, occ.ErrNotFound when the
// row is missing or owned by someone else.
type Repository interface {
	// Personal info (single row per user)
	GetPersonalInfo(ctx context.Context, userID uuid.UUID) (*PersonalInfo, error)
	InsertPersonalInfo(ctx context.Context, info *PersonalInfo) error
	UpdatePersonalInfo(ctx context.Context, info *PersonalInfo, expectedVersion int) (int, error)

	// Professional info
	ListProfessionalInfo(ctx context.Context, userID uuid.UUID) ([]ProfessionalInfo, error)
	InsertProfessionalInfo(ctx context.Context, entry *ProfessionalInfo) error
	UpdateProfessionalInfo(ctx context.Context, entry *ProfessionalInfo, expectedVersion int) (int, error)
	DeleteProfessionalInfo(ctx context.Context, id, userID uuid.UUID) error

	// Education
	ListEducation(ctx context.Context, userID uuid.UUID) ([]Education, error)
	InsertEducation(ctx context.Context, entry *Education) error
	UpdateEducation(ctx context.Context, entry *Education, expectedVersion int) (int, error)
	DeleteEducation(ctx context.Context, id, userID uuid.UUID) error

	// Awards
	ListAwards(ctx context.Context, userID uuid.UUID) ([]Award, error)
	InsertAward(ctx context.Context, entry *Award) error
	UpdateAward(ctx context.Context, entry *Award, expectedVersion int) (int, error)
	DeleteAward(ctx context.Context, id, userID uuid.UUID) error

	// Products / services
	ListProductsServices(ctx context.Context, userID uuid.UUID) ([]ProductService, error)
	InsertProductService(ctx context.Context, entry *ProductService) error
	UpdateProductService(ctx context.Context, entry *ProductService, expectedVersion int) (int, error)
	DeleteProductService(ctx context.Context, id, userID uuid.UUID) error
}
