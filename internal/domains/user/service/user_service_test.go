package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bizcard-backend/internal/domains/user"
	"bizcard-backend/pkg/jwt"
)

type fakeUserRepository struct {
	findByEmail     func(ctx context.Context, email string) (*user.User, error)
	updateLastLogin func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	return nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmail != nil {
		return f.findByEmail(ctx, email)
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if f.updateLastLogin != nil {
		return f.updateLastLogin(ctx, id)
	}
	return nil
}

func activeUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &user.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		FullName:     "Ada Lovelace",
		IsActive:     true,
	}
}

func TestLoginSucceedsWhenLastLoginUpdateFails(t *testing.T) {
	u := activeUser(t, "correct-horse")

	repo := &fakeUserRepository{
		findByEmail: func(ctx context.Context, _ string) (*user.User, error) {
			return u, nil
		},
		updateLastLogin: func(ctx context.Context, _ uuid.UUID) error {
			return errors.New("write timeout")
		},
	}

	svc := NewUserService(repo, jwt.NewManager("test-secret", 15*time.Minute, 72*time.Hour))
	resp, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err, "a failed last-login write must not block login")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, u.Email, resp.User.Email)
}

func TestLoginExpiryTracksConfiguredLifetime(t *testing.T) {
	u := activeUser(t, "correct-horse")

	repo := &fakeUserRepository{
		findByEmail: func(ctx context.Context, _ string) (*user.User, error) {
			return u, nil
		},
	}

	svc := NewUserService(repo, jwt.NewManager("test-secret", 30*time.Minute, 72*time.Hour))
	resp, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), resp.ExpiresAt, 5*time.Second)
}

func TestLoginWrongPasswordHidesAccountExistence(t *testing.T) {
	u := activeUser(t, "correct-horse")

	repo := &fakeUserRepository{
		findByEmail: func(ctx context.Context, _ string) (*user.User, error) {
			return u, nil
		},
	}

	svc := NewUserService(repo, jwt.NewManager("test-secret", 15*time.Minute, 72*time.Hour))

	_, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	repo.findByEmail = func(ctx context.Context, _ string) (*user.User, error) {
		return nil, user.ErrUserNotFound
	}
	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "nobody@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}
