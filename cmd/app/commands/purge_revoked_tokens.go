package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	authUseCase "github.com/gegcuk/kidsgpt-backend/internal/auth/usecase"
)

// RunPurgeRevokedTokens deletes revocations whose tokens expired before now. With dryRun
// set it only counts them. Output is text or json.
func RunPurgeRevokedTokens(
	ctx context.Context,
	revocationUseCase authUseCase.RevocationUseCase,
	logger *slog.Logger,
	writer io.Writer,
	now time.Time,
	dryRun bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("purging revoked tokens",
		slog.Time("before", now),
		slog.Bool("dry_run", dryRun),
	)

	var (
		count int64
		err   error
	)
	if dryRun {
		count, err = revocationUseCase.CountExpired(ctx, now)
	} else {
		count, err = revocationUseCase.PurgeExpired(ctx, now)
	}
	if err != nil {
		return fmt.Errorf("failed to purge revoked tokens: %w", err)
	}

	if format == formatJSON {
		err = writeJSON(writer, map[string]any{
			"count":   count,
			"before":  now.UTC().Format(time.RFC3339),
			"dry_run": dryRun,
		})
	} else {
		err = outputPurgeText(writer, count, dryRun)
	}
	if err != nil {
		return err
	}

	logger.Info("purge completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)
	return nil
}

func outputPurgeText(w io.Writer, count int64, dryRun bool) error {
	var err error
	if dryRun {
		_, err = fmt.Fprintf(w, "Dry-run mode: Would delete %d expired revoked token(s)\n", count)
	} else {
		_, err = fmt.Fprintf(w, "Successfully deleted %d expired revoked token(s)\n", count)
	}
	return err
}
