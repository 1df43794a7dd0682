package model

import "angeles-backend/internal/shared/apperror"

// Constraint names of the unique indexes on users
const (
	ConstraintEmail    = "idx_users_email"
	ConstraintUsername = "idx_users_username"
)

var (
	// Not Found
	ErrUserNotFound = apperror.NotFound("user not found")

	// Conflict
	ErrEmailAlreadyExists = apperror.Duplicate("user with this email already exists")
	ErrUsernameTaken      = apperror.Duplicate("username already taken")

	// Authentication. One message for unknown identifier and wrong password.
	ErrInvalidCredentials = apperror.Unauthenticated("invalid email or password")
)
