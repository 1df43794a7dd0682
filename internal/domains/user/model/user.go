package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"angeles-backend/internal/shared"
)

type User struct {
	ID           uuid.UUID   `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Age          *int        `json:"age,omitempty"`
	Gender       *string     `json:"gender,omitempty"`
	Mobile       *string     `json:"mobile,omitempty"`
	Address      *string     `json:"address,omitempty"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Never expose in JSON, never cached
	Role         shared.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// FullName joins first and last name with a single space
func FullName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

func (u *User) FullName() string {
	return FullName(u.FirstName, u.LastName)
}

// ToPrincipal strips everything the guard does not need
func (u *User) ToPrincipal() *shared.Principal {
	return &shared.Principal{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// ToResponse converts the entity to its public form, without the password hash
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Age:         u.Age,
		Gender:      u.Gender,
		Mobile:      u.Mobile,
		Address:     u.Address,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
