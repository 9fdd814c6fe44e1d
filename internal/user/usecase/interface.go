// Package usecase implements user management: creating accounts, seeding roles and
// loading users by id.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

// CreateUserInput contains the data needed to create an account.
type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Age      *int   `json:"age"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	SeedRoles(ctx context.Context) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// RoleRepository defines role persistence operations.
type RoleRepository interface {
	EnsureRole(ctx context.Context, role *domain.Role) error
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

// PasswordHasher produces the stored form of a password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
