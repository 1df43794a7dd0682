package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"angeles-backend/internal/domains/user/model"
	"angeles-backend/internal/domains/user/repository"
	"angeles-backend/internal/shared"
	"angeles-backend/internal/shared/apperror"
)

// bcrypt cost = 12
const defaultBcryptCost = 12

type userService struct {
	repo       repository.Repository
	tokens     TokenIssuer
	bcryptCost int
	now        func() time.Time
}

func NewUserService(repo repository.Repository, tokens TokenIssuer) Service {
	return &userService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: defaultBcryptCost,
		now:        time.Now,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	// 1. NORMALIZE INPUT
	req.Normalize()

	// 2. UNIQUENESS: email first, then username
	if req.Email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email exists: %w", err)
		}
		if exists {
			return nil, model.ErrEmailAlreadyExists
		}
	}

	if req.Username != "" {
		exists, err := s.repo.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("check username exists: %w", err)
		}
		if exists {
			return nil, model.ErrUsernameTaken
		}
	}

	// 3. VALIDATE every field
	if err := apperror.FromValidation(req.Validate()); err != nil {
		return nil, err
	}

	// 4. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 5. CREATE USER ENTITY
	now := s.now().UTC()
	newUser := &model.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Age:          req.Age,
		Gender:       model.Optional(req.Gender),
		Mobile:       model.Optional(req.Mobile),
		Address:      model.Optional(req.Address),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         shared.Role(req.Role),
		IsActive:     true,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 6. PERSIST. A concurrent insert still surfaces as a duplicate via the unique indexes.
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", newUser.ID.String()).
		Str("role", newUser.Role.String()).
		Msg("User registered")

	// 7. ISSUE TOKEN
	return s.authResponse(newUser)
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	identifier := req.Identifier()
	if identifier == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	// 1. FIND USER BY EMAIL OR USERNAME
	u, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			// Same answer as a wrong password
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 2. VERIFY PASSWORD
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	// 3. UPDATE LAST LOGIN
	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	u.LastLoginAt = &now

	// 4. ISSUE TOKEN
	return s.authResponse(u)
}

func (s *userService) ResolvePrincipal(ctx context.Context, id uuid.UUID) (*shared.Principal, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ToPrincipal(), nil
}

func (s *userService) authResponse(u *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.AuthResponse{
		UserResponse: u.ToResponse(),
		Token:        token,
		ExpiresAt:    s.now().UTC().Add(s.tokens.TTL()),
	}, nil
}

// ========================================
// PROFILE MANAGEMENT
// ========================================

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := u.ToResponse()
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.UserResponse, error) {
	// 1. LOAD
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. VALIDATE present fields
	req.Normalize()
	if err := apperror.FromValidation(req.Validate()); err != nil {
		return nil, err
	}

	// 3. UNIQUENESS, only for values that actually change
	if req.Email != nil && *req.Email != u.Email {
		exists, err := s.repo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email exists: %w", err)
		}
		if exists {
			return nil, model.ErrEmailAlreadyExists
		}
	}

	if req.Username != nil && !strings.EqualFold(*req.Username, u.Username) {
		exists, err := s.repo.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, fmt.Errorf("check username exists: %w", err)
		}
		if exists {
			return nil, model.ErrUsernameTaken
		}
	}

	// 4. APPLY. An empty hash tells the repository to keep the stored one.
	req.Apply(u)
	u.PasswordHash = ""
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	u.UpdatedAt = s.now().UTC()

	// 5. PERSIST
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	resp := u.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("user_id", id.String()).Msg("User deleted")
	return nil
}
