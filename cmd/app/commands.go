package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/gegcuk/kidsgpt-backend/internal/app"
	"github.com/gegcuk/kidsgpt-backend/internal/config"
)

func getCommands(version string) []*cli.Command {
	return append(getSystemCommands(version), getUserCommands()...)
}

// withContainer loads the configuration, builds a container for one command and
// releases it afterwards.
func withContainer(ctx context.Context, fn func(*app.Container) error) error {
	container := app.NewContainer(config.Load())
	defer func() { _ = container.Shutdown(ctx) }()
	return fn(container)
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
