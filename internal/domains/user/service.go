package user

import (
	"context"

	"github.com/google/uuid"
)

// Service defines user business logic
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
}
