package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
	userUseCase "github.com/gegcuk/kidsgpt-backend/internal/user/usecase"
)

// RunCreateUser creates an account and prints its id. An empty role means ROLE_PARENT.
//
// Requirements: roles must be seeded first (see seed-roles).
func RunCreateUser(
	ctx context.Context,
	useCase userUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	input userUseCase.CreateUserInput,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("creating user",
		slog.String("username", input.Username),
		slog.String("role", input.Role),
	)

	user, err := useCase.CreateUser(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	role := input.Role
	if role == "" {
		role = userDomain.RoleParent
	}

	if format == formatJSON {
		err = writeJSON(writer, map[string]any{
			"id":       user.ID.String(),
			"username": user.Username,
			"email":    user.Email,
			"role":     role,
		})
	} else {
		_, err = fmt.Fprintf(writer, "User created successfully!\nID:       %s\nUsername: %s\nEmail:    %s\nRole:     %s\n",
			user.ID, user.Username, user.Email, role)
	}
	if err != nil {
		return err
	}

	logger.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}
