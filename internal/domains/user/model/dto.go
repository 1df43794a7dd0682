package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"angeles-backend/internal/shared"
)

var (
	mobilePattern = regexp.MustCompile(`^[\+]?[\d\s\-\(\)]{7,15}$`)
	emailPattern  = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
	MaxAddressLength  = 200
	MaxNameLength     = 100
	MaxEmailLength    = 255
)

var genders = []interface{}{"male", "female", "other"}

// roleRule accepts an empty value or a known role, on string and *string fields
var roleRule = validation.By(func(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if s == "" || shared.Role(s).IsValid() {
		return nil
	}
	return errors.New("role must be one of user, editor, admin")
})

// ageRule checks 1 <= age <= 120 when an age is present.
// validation.Min would skip a zero value.
var ageRule = validation.By(func(value interface{}) error {
	age, _ := value.(*int)
	if age == nil {
		return nil
	}
	if *age < 1 {
		return errors.New("age must be at least 1")
	}
	if *age > 120 {
		return errors.New("age must be at most 120")
	}
	return nil
})

// ========================================
// RESPONSES
// ========================================

// UserResponse is the public form of an identity
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	FullName    string      `json:"full_name"`
	Age         *int        `json:"age"`
	Gender      *string     `json:"gender"`
	Mobile      *string     `json:"mobile"`
	Address     *string     `json:"address"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Role        shared.Role `json:"role"`
	IsActive    bool        `json:"is_active"`
	LastLoginAt *time.Time  `json:"last_login_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	UserResponse
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       *int   `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Address   string `json:"address,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// Normalize trims text fields, lowercases email and gender, defaults the role
func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Address = strings.TrimSpace(r.Address)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = NormalizeEmail(r.Email)

	r.Role = string(shared.ParseRole(r.Role))
	if r.Role == "" {
		r.Role = string(shared.RoleUser)
	}
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.Required.Error("first name is required"),
			validation.RuneLength(0, MaxNameLength).Error("first name cannot exceed 100 characters"),
		),
		validation.Field(&r.LastName,
			validation.Required.Error("last name is required"),
			validation.RuneLength(0, MaxNameLength).Error("last name cannot exceed 100 characters"),
		),
		validation.Field(&r.Age, ageRule),
		validation.Field(&r.Gender,
			validation.In(genders...).Error("gender must be one of male, female, other"),
		),
		validation.Field(&r.Mobile,
			validation.Match(mobilePattern).Error("please enter a valid mobile number (7-15 digits, spaces and dashes allowed)"),
		),
		validation.Field(&r.Address,
			validation.RuneLength(0, MaxAddressLength).Error("address cannot exceed 200 characters"),
		),
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.RuneLength(MinUsernameLength, MaxUsernameLength).Error("username must be 3-20 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			validation.RuneLength(0, MaxEmailLength).Error("email cannot exceed 255 characters"),
			validation.Match(emailPattern).Error("please enter a valid email address"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(MinPasswordLength, 0).Error("password must be at least 6 characters"),
		),
		validation.Field(&r.Role,
			roleRule,
		),
	)
}

// LoginRequest accepts the identifier in email or, failing that, username
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Identifier returns the value to match against email or username
func (r LoginRequest) Identifier() string {
	if id := strings.TrimSpace(r.Email); id != "" {
		return id
	}
	return strings.TrimSpace(r.Username)
}

// ========================================
// PROFILE DTOs
// ========================================

// UpdateUserRequest is a partial update. nil fields are left unchanged.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Mobile    *string `json:"mobile,omitempty"`
	Address   *string `json:"address,omitempty"`
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *UpdateUserRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(r.FirstName)
	trim(r.LastName)
	trim(r.Mobile)
	trim(r.Address)
	trim(r.Username)

	if r.Gender != nil {
		*r.Gender = strings.ToLower(strings.TrimSpace(*r.Gender))
	}
	if r.Email != nil {
		*r.Email = NormalizeEmail(*r.Email)
	}
	if r.Role != nil {
		*r.Role = string(shared.ParseRole(*r.Role))
	}
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.When(r.FirstName != nil, validation.Required.Error("first name cannot be empty")),
			validation.RuneLength(0, MaxNameLength).Error("first name cannot exceed 100 characters"),
		),
		validation.Field(&r.LastName,
			validation.When(r.LastName != nil, validation.Required.Error("last name cannot be empty")),
			validation.RuneLength(0, MaxNameLength).Error("last name cannot exceed 100 characters"),
		),
		validation.Field(&r.Age, ageRule),
		validation.Field(&r.Gender,
			validation.In(genders...).Error("gender must be one of male, female, other"),
		),
		validation.Field(&r.Mobile,
			validation.Match(mobilePattern).Error("please enter a valid mobile number (7-15 digits, spaces and dashes allowed)"),
		),
		validation.Field(&r.Address,
			validation.RuneLength(0, MaxAddressLength).Error("address cannot exceed 200 characters"),
		),
		validation.Field(&r.Username,
			validation.When(r.Username != nil, validation.Required.Error("username cannot be empty")),
			validation.RuneLength(MinUsernameLength, MaxUsernameLength).Error("username must be 3-20 characters"),
		),
		validation.Field(&r.Email,
			validation.When(r.Email != nil, validation.Required.Error("email cannot be empty")),
			validation.RuneLength(0, MaxEmailLength).Error("email cannot exceed 255 characters"),
			validation.Match(emailPattern).Error("please enter a valid email address"),
		),
		validation.Field(&r.Password,
			validation.When(r.Password != nil, validation.Required.Error("password cannot be empty")),
			validation.RuneLength(MinPasswordLength, 0).Error("password must be at least 6 characters"),
		),
		validation.Field(&r.Role,
			validation.When(r.Role != nil, validation.Required.Error("role cannot be empty")),
			roleRule,
		),
	)
}

// Apply copies the present fields onto u. The password is handled by the caller.
func (r UpdateUserRequest) Apply(u *User) {
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Age != nil {
		u.Age = r.Age
	}
	if r.Gender != nil {
		u.Gender = optional(*r.Gender)
	}
	if r.Mobile != nil {
		u.Mobile = optional(*r.Mobile)
	}
	if r.Address != nil {
		u.Address = optional(*r.Address)
	}
	if r.Username != nil {
		u.Username = *r.Username
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.Role != nil {
		u.Role = shared.Role(*r.Role)
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional maps "" to nil
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Optional is exported for the service when building a new User
func Optional(s string) *string {
	return optional(s)
}
