// Package commands implements the CLI actions. Each Run function receives its use cases,
// a logger and an output writer, so tests can drive it without a container.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"

	"github.com/gegcuk/kidsgpt-backend/internal/app"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to release resources", slog.Any("error", err))
	}
}

func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		logger.Error("failed to close migrate",
			slog.Any("source_error", srcErr),
			slog.Any("database_error", dbErr),
		)
	}
}

func validateFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
