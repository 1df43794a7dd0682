package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"angeles-backend/internal/domains/user/model"
)

// =====================================================
// USER REPOSITORY INTERFACE
// =====================================================

type Repository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// Create inserts a new user. Unique violations map to ErrEmailAlreadyExists / ErrUsernameTaken.
	Create(ctx context.Context, u *model.User) error

	// FindByID gets a user by ID, cached. The cached copy carries no password hash.
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindByIdentifier matches the identifier against email or username (both case-insensitive).
	// Returns the password hash, for login.
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)

	// Update saves every mutable column. An empty PasswordHash keeps the stored hash.
	Update(ctx context.Context, u *model.User) error

	// UpdateLastLogin stamps last_login_at
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes the row
	Delete(ctx context.Context, id uuid.UUID) error

	// ========================================
	// QUERIES
	// ========================================

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername compares case-insensitively
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// List returns every user, newest first
	List(ctx context.Context) ([]*model.User, error)
}
