// Package domain defines the user and role entities that back authentication.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// Role names granted to users. They double as authorities on the authenticated principal.
const (
	RoleParent = "ROLE_PARENT"
	RoleChild  = "ROLE_CHILD"
	RoleAdmin  = "ROLE_ADMIN"
)

// AllRoles lists every known role in precedence order, highest first.
var AllRoles = []string{RoleAdmin, RoleParent, RoleChild}

// User is an account that can log in.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Age          *int
	IsActive     bool
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// CanAuthenticate reports whether the account may log in or be resolved as a principal.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsDeleted
}

// Role is a named grant.
type Role struct {
	ID   uuid.UUID
	Name string
}

// IsKnownRole reports whether name is one of the roles in AllRoles.
func IsKnownRole(name string) bool {
	for _, r := range AllRoles {
		if r == name {
			return true
		}
	}
	return false
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist or cannot authenticate.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the username or email is taken.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrRoleNotFound indicates the role has not been seeded.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")

	// ErrUnknownRole indicates a role name outside AllRoles.
	ErrUnknownRole = errors.Wrap(errors.ErrInvalidInput, "unknown role")
)
