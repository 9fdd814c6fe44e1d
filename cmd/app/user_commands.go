package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/gegcuk/kidsgpt-backend/cmd/app/commands"
	"github.com/gegcuk/kidsgpt-backend/internal/app"
	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
	userUseCase "github.com/gegcuk/kidsgpt-backend/internal/user/usecase"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a user account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Login name (letters, digits, '.', '_' or '-')",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email address",
				},
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Initial password",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   userDomain.RoleParent,
					Usage:   "ROLE_ADMIN, ROLE_PARENT or ROLE_CHILD",
				},
				&cli.IntFlag{
					Name:    "age",
					Aliases: []string{"a"},
					Usage:   "Age in years, used to tune chat replies",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				input := userUseCase.CreateUserInput{
					Username: cmd.String("username"),
					Email:    cmd.String("email"),
					Password: cmd.String("password"),
					Role:     cmd.String("role"),
				}
				if cmd.IsSet("age") {
					age := int(cmd.Int("age"))
					input.Age = &age
				}

				return withContainer(ctx, func(container *app.Container) error {
					useCase, err := container.UserUseCase()
					if err != nil {
						return err
					}
					return commands.RunCreateUser(
						ctx, useCase, container.Logger(), cmd.Root().Writer, input, cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "seed-roles",
			Usage: "Create the ROLE_ADMIN, ROLE_PARENT and ROLE_CHILD roles if missing",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					useCase, err := container.UserUseCase()
					if err != nil {
						return err
					}
					return commands.RunSeedRoles(ctx, useCase, container.Logger(), cmd.Root().Writer)
				})
			},
		},
	}
}
