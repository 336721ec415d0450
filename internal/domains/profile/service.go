package profile

import (
	"context"

	"github.com/google/uuid"
)

// Service defines profile business logic.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)

	SavePersonalInfo(ctx context.Context, userID uuid.UUID, req SavePersonalInfoRequest) (*PersonalInfo, error)

	SaveProfessionalInfo(ctx context.Context, userID uuid.UUID, req SaveProfessionalInfoRequest) (*ProfessionalInfo, error)
	DeleteProfessionalInfo(ctx context.Context, id, userID uuid.UUID) error

	SaveEducation(ctx context.Context, userID uuid.UUID, req SaveEducationRequest) (*Education, error)
	DeleteEducation(ctx context.Context, id, userID uuid.UUID) error

	SaveAward(ctx context.Context, userID uuid.UUID, req SaveAwardRequest) (*Award, error)
	DeleteAward(ctx context.Context, id, userID uuid.UUID) error

	SaveProductService(ctx context.Context, userID uuid.UUID, req SaveProductServiceRequest) (*ProductService, error)
	DeleteProductService(ctx context.Context, id, userID uuid.UUID) error
}
