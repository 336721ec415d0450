package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bizcard-backend/internal/domains/user"
	"bizcard-backend/pkg/jwt"
	"bizcard-backend/pkg/logger"
	"bizcard-backend/pkg/retry"
)

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// Register creates a new account. The exists-check plus insert can race a
// concurrent registration with the same email; the unique index is the real
// guard and 23505 surfaces as ErrEmailAlreadyExists.
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	// bcrypt cost 12: balance between security and login latency
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	dto := user.ToDTO(newUser)
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == user.ErrUserNotFound {
			// Same error for unknown email and wrong password
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	// last_login_at is best-effort; a transient failure must not block login
	if err := retry.Do(ctx, "user.update_last_login", retry.DefaultPolicy(), func(ctx context.Context) error {
		return s.repo.UpdateLastLogin(ctx, u.ID)
	}); err != nil {
		logger.Warn("Failed to update last login, proceeding with login", map[string]interface{}{
			"user_id": u.ID.String(),
			"error":   err.Error(),
		})
	}

	return s.buildLoginResponse(u)
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*user.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrUnauthorized
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrUnauthorized
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, user.ErrUnauthorized
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	return s.buildLoginResponse(u)
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := user.ToDTO(u)
	return &dto, nil
}

func (s *userService) buildLoginResponse(u *user.User) (*user.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &user.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.AccessExpiry()),
		User:         user.ToDTO(u),
	}, nil
}
