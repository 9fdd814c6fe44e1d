package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/database"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/user/domain"
	appValidation "github.com/gegcuk/kidsgpt-backend/internal/validation"
)

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager database.TxManager
	userRepo  UserRepository
	roleRepo  RoleRepository
	hasher    PasswordHasher
	now       func() time.Time
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	roleRepo RoleRepository,
	hasher PasswordHasher,
) UseCase {
	return &UserUseCase{
		txManager: txManager,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		hasher:    hasher,
		now:       time.Now,
	}
}

func (uc *UserUseCase) validateCreateUserInput(input CreateUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			appValidation.Username,
			validation.Length(3, 50).Error("username must be between 3 and 50 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.AccountPassword,
		),
		validation.Field(&input.Role,
			validation.In(domain.RoleParent, domain.RoleChild, domain.RoleAdmin).
				Error("role must be one of ROLE_ADMIN, ROLE_PARENT, ROLE_CHILD"),
		),
		validation.Field(&input.Age,
			validation.Min(1).Error("age must be positive"),
			validation.Max(120).Error("age must be at most 120"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateUser validates the input, hashes the password and stores the user together with
// its role in a single transaction. An empty role defaults to ROLE_PARENT.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Role == "" {
		input.Role = domain.RoleParent
	}

	if err := uc.validateCreateUserInput(input); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	user := &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Age:          input.Age,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		role, err := uc.roleRepo.GetByName(ctx, input.Role)
		if err != nil {
			return err
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return uc.userRepo.AssignRole(ctx, user.ID, role.ID)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SeedRoles makes sure every known role exists. Running it again changes nothing.
func (uc *UserUseCase) SeedRoles(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, name := range domain.AllRoles {
			role := &domain.Role{ID: uuid.Must(uuid.NewV7()), Name: name}
			if err := uc.roleRepo.EnsureRole(ctx, role); err != nil {
				return apperrors.Wrap(err, "failed to seed "+name)
			}
		}
		return nil
	})
}

// GetByID retrieves a user by ID
func (uc *UserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
