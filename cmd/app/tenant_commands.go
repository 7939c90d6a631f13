package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenbroker/cmd/app/commands"
	"github.com/allisson/tokenbroker/internal/app"
	"github.com/allisson/tokenbroker/internal/config"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
)

func getTenantCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-tenant",
			Usage: "Register a subscriber application and print its API key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Unique application name",
				},
				&cli.StringFlag{
					Name:     "audience",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Audience (aud claim) of tokens issued for this application",
				},
				&cli.StringFlag{
					Name:  "cookie-name",
					Usage: "Cookie name (defaults to TOKEN_NAME)",
				},
				&cli.StringFlag{
					Name:  "cookie-domain",
					Usage: "Cookie domain (defaults to TOKEN_COOKIE_DOMAIN)",
				},
				&cli.StringFlag{
					Name:  "cookie-path",
					Usage: "Cookie path (defaults to TOKEN_COOKIE_PATH)",
				},
				&cli.StringSliceFlag{
					Name:    "role-regex",
					Aliases: []string{"r"},
					Usage:   "Pattern matched against group names to emit role claims; repeat in priority order",
				},
				&cli.BoolFlag{
					Name:  "active",
					Value: true,
					Usage: "Whether the application can obtain tokens immediately",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tenantUseCase, err := container.TenantUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateTenant(
					ctx,
					tenantUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					&tenantDomain.CreateTenantInput{
						ApplicationName: cmd.String("name"),
						Audience:        cmd.String("audience"),
						CookieName:      cmd.String("cookie-name"),
						CookieDomain:    cmd.String("cookie-domain"),
						CookiePath:      cmd.String("cookie-path"),
						RoleRegexes:     cmd.StringSlice("role-regex"),
						IsActive:        cmd.Bool("active"),
					},
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-tenants",
			Usage: "List registered subscriber applications",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "offset",
					Value: 0,
					Usage: "Number of tenants to skip",
				},
				&cli.IntFlag{
					Name:  "limit",
					Value: 50,
					Usage: "Maximum number of tenants to list",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tenantUseCase, err := container.TenantUseCase()
				if err != nil {
					return err
				}

				return commands.RunListTenants(
					ctx,
					tenantUseCase,
					commands.DefaultIO().Writer,
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "update-tenant-status",
			Usage: "Activate or deactivate a subscriber application",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Tenant ID (UUID)",
				},
				&cli.BoolFlag{
					Name:     "active",
					Required: true,
					Usage:    "New status; --active=false revokes the application's access",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tenantUseCase, err := container.TenantUseCase()
				if err != nil {
					return err
				}

				var invalidator commands.TenantCacheInvalidator
				if cfg.TenantCacheEnabled {
					cache, err := container.TenantCache()
					if err != nil {
						return err
					}
					invalidator = cache
				}

				return commands.RunUpdateTenantStatus(
					ctx,
					tenantUseCase,
					invalidator,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.Bool("active"),
				)
			},
		},
	}
}
