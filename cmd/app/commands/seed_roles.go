package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gegcuk/kidsgpt-backend/internal/user/domain"
	userUseCase "github.com/gegcuk/kidsgpt-backend/internal/user/usecase"
)

// RunSeedRoles makes sure every known role exists. Running it again changes nothing.
func RunSeedRoles(
	ctx context.Context,
	useCase userUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("seeding roles")

	if err := useCase.SeedRoles(ctx); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	if _, err := fmt.Fprintf(writer, "Roles seeded: %s\n", strings.Join(domain.AllRoles, ", ")); err != nil {
		return err
	}

	logger.Info("roles seeded", slog.Int("count", len(domain.AllRoles)))
	return nil
}
