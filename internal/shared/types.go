package shared

import (
	"strings"

	"github.com/google/uuid"
)

// Role enum - the three roles known to the system
type Role string

const (
	RoleUser   Role = "user"   // Regular reader/writer
	RoleEditor Role = "editor" // Moderates all content
	RoleAdmin  Role = "admin"  // Full system access
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{RoleUser, RoleEditor, RoleAdmin}
}

// ParseRole normalizes raw input (trim + lowercase) into a Role.
// The result still has to be checked with IsValid.
func ParseRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may moderate content it does not own.
// Editor and admin are equivalent for content authorization.
func (r Role) IsPrivileged() bool {
	return r == RoleEditor || r == RoleAdmin
}

// String implements Stringer interface
func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated caller attached to a request by the auth guard.
// It lives here (not in the user domain) so the article domain can consume it
// without importing user packages.
type Principal struct {
	ID        uuid.UUID
	Username  string
	FirstName string
	LastName  string
	Role      Role
}

// DisplayName returns "First Last", or the username when either name is missing.
func (p *Principal) DisplayName() string {
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	if first == "" || last == "" {
		return p.Username
	}
	return first + " " + last
}
