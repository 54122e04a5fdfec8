package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/rolegate/cmd/app/commands"
	"github.com/allisson/rolegate/internal/app"
	"github.com/allisson/rolegate/internal/config"
)

func getAccessCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "resolve",
			Usage: "Print the visibility flags derived from a role set",
			Flags: []cli.Flag{
				rolesFlag(),
				policyFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newAccessContainer(cmd)
				defer func() { _ = container.Shutdown(ctx) }()

				resolver, err := container.VisibilityResolver()
				if err != nil {
					return err
				}

				return commands.RunResolve(
					resolver,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.ParseRoles(cmd.String("roles")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "chrome",
			Usage: "Print whether page chrome is suppressed for a route and role set",
			Flags: []cli.Flag{
				pathFlag(),
				rolesFlag(),
				policyFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newAccessContainer(cmd)
				defer func() { _ = container.Shutdown(ctx) }()

				resolver, err := container.HeaderSuppressionResolver()
				if err != nil {
					return err
				}

				return commands.RunChrome(
					resolver,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("path"),
					commands.ParseRoles(cmd.String("roles")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "check-route",
			Usage: "Run the route guard for a path against a role set",
			Flags: []cli.Flag{
				pathFlag(),
				rolesFlag(),
				policyFlag(),
				formatFlag(),
				&cli.DurationFlag{
					Name:    "timeout",
					Aliases: []string{"t"},
					Usage:   "Guard timeout override (e.g., 2s); defaults to the policy value",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newAccessContainer(cmd)
				defer func() { _ = container.Shutdown(ctx) }()

				navigator, err := container.Navigator()
				if err != nil {
					return err
				}

				return commands.RunCheckRoute(
					ctx,
					navigator,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("path"),
					commands.ParseRoles(cmd.String("roles")),
					cmd.String("format"),
				)
			},
		},
	}
}

// newAccessContainer builds a container from the environment with the command's policy
// and timeout flags applied on top.
func newAccessContainer(cmd *cli.Command) *app.Container {
	cfg := config.Load()
	if policy := cmd.String("policy"); policy != "" {
		cfg.AccessPolicyFile = policy
	}
	if cmd.IsSet("timeout") {
		cfg.GuardTimeout = cmd.Duration("timeout")
	}
	return app.NewContainer(cfg)
}

func rolesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "roles",
		Aliases: []string{"r"},
		Value:   "",
		Usage:   "Comma-separated role identifiers (e.g., doctor,supervisor)",
	}
}

func pathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "path",
		Aliases:  []string{"p"},
		Required: true,
		Usage:    "Application route (e.g., /pharmacy)",
	}
}

func policyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "policy",
		Value: "",
		Usage: "Access policy YAML file; defaults to ACCESS_POLICY_FILE or the built-in policy",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
