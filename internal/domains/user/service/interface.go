package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"angeles-backend/internal/domains/user/model"
	"angeles-backend/internal/shared"
)

// Service is the credential store: registration, authentication and profile management
type Service interface {
	// ========================================
	// AUTHENTICATION
	// ========================================
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)

	// ResolvePrincipal loads the identity behind a verified token
	ResolvePrincipal(ctx context.Context, id uuid.UUID) (*shared.Principal, error)

	// ========================================
	// PROFILE MANAGEMENT
	// ========================================
	GetUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	ListUsers(ctx context.Context) ([]model.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
	TTL() time.Duration
}
