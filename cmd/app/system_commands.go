package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/gegcuk/kidsgpt-backend/cmd/app/commands"
	"github.com/gegcuk/kidsgpt-backend/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Serve the API, the metrics endpoint and the revocation purge worker",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply pending database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					cfg := container.Config()
					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				})
			},
		},
		{
			Name:  "purge-revoked-tokens",
			Usage: "Delete revocation records whose tokens have already expired",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Usage:   "Only count the records that would be deleted",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					revocations, err := container.RevocationUseCase()
					if err != nil {
						return err
					}
					return commands.RunPurgeRevokedTokens(
						ctx,
						revocations,
						container.Logger(),
						cmd.Root().Writer,
						time.Now(),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				})
			},
		},
	}
}
