package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"angeles-backend/internal/domains/user/model"
	"angeles-backend/pkg/cache"
)

const (
	userCacheTTL = 15 * time.Minute

	// PostgreSQL unique_violation
	uniqueViolation = "23505"

	userColumns = `
		id, first_name, last_name, age, gender, mobile, address,
		username, email, password_hash, role, is_active,
		last_login_at, created_at, updated_at`
)

// postgresRepository implements Repository on pgx with a cache-aside layer for FindByID
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache // optional
}

// NewPostgresRepository returns the interface, the concrete type stays private.
// cache may be nil when Redis is unavailable.
func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: c,
	}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (
			id, first_name, last_name, age, gender, mobile, address,
			username, email, password_hash, role, is_active,
			last_login_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15
		)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Age,
		u.Gender,
		u.Mobile,
		u.Address,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.IsActive,
		u.LastLoginAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByID uses the cache-aside pattern, key "user:<id>"
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	// STEP 1: CHECK CACHE FIRST
	if r.cache != nil {
		var cached model.User
		if found, err := r.cache.Get(ctx, cacheKey(id), &cached); err == nil && found {
			return &cached, nil
		}
	}

	// STEP 2: CACHE MISS - QUERY DATABASE
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	// STEP 3: SET CACHE. Failures are ignored.
	r.setCache(ctx, u)

	return u, nil
}

func (r *postgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = LOWER($1) OR LOWER(username) = LOWER($1)
		ORDER BY (email = LOWER($1)) DESC
		LIMIT 1
	`

	u, err := scanUser(r.pool.QueryRow(ctx, query, strings.TrimSpace(identifier)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}

	return u, nil
}

func (r *postgresRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users SET
			first_name = $2,
			last_name = $3,
			age = $4,
			gender = $5,
			mobile = $6,
			address = $7,
			username = $8,
			email = $9,
			password_hash = COALESCE(NULLIF($10, ''), password_hash),
			role = $11,
			is_active = $12,
			updated_at = $13
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Age,
		u.Gender,
		u.Mobile,
		u.Address,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.IsActive,
		u.UpdatedAt,
	)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	r.invalidateCache(ctx, u.ID)
	return nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	r.invalidateCache(ctx, id)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	r.invalidateCache(ctx, id)
	return nil
}

// ========================================
// QUERIES
// ========================================

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = LOWER($1))`,
		strings.TrimSpace(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`,
		strings.TrimSpace(username),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// ========================================
// HELPERS
// ========================================

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Age,
		&u.Gender,
		&u.Mobile,
		&u.Address,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapUniqueViolation translates a 23505 on one of the users unique indexes into a domain error
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case model.ConstraintEmail:
		return model.ErrEmailAlreadyExists
	case model.ConstraintUsername:
		return model.ErrUsernameTaken
	}
	return nil
}

func (r *postgresRepository) setCache(ctx context.Context, u *model.User) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Set(ctx, cacheKey(u.ID), u, userCacheTTL)
}

func (r *postgresRepository) invalidateCache(ctx context.Context, id uuid.UUID) {
	if r.cache == nil {
		return
	}
	// A stale entry keeps resolving the identity until userCacheTTL expires
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Error().Err(err).
			Str("user_id", id.String()).
			Dur("stale_for", userCacheTTL).
			Msg("Failed to invalidate cached user")
	}
}
