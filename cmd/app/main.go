// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dataproof/cmd/app/commands"
	"github.com/allisson/dataproof/internal/app"
	authService "github.com/allisson/dataproof/internal/auth/service"
	"github.com/allisson/dataproof/internal/config"
	cryptoService "github.com/allisson/dataproof/internal/crypto/service"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Encrypted content-addressed proof gateway",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "create-master-key",
				Usage: "Generate a new master key for envelope encryption",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kms-key-uri",
						Value: "",
						Usage: "KMS keeper URI (e.g., gcpkms://..., awskms://..., base64key://...)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunCreateMasterKey(
						ctx,
						cryptoService.NewKMSService(),
						container.Logger(),
						os.Stdout,
						cmd.String("kms-key-uri"),
					)
				},
			},
			{
				Name:  "rotate-key",
				Usage: "Rotate the active envelope encryption key",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container) error {
						keyProvider, err := container.KeyProvider()
						if err != nil {
							return fmt.Errorf("failed to initialize key provider: %w", err)
						}
						return commands.RunRotateKey(ctx, keyProvider, container.Logger(), os.Stdout)
					})
				},
			},
			{
				Name:  "check-store",
				Usage: "Probe the pinning store credentials",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container) error {
						return commands.RunCheckStore(ctx, container.StoreClient(), container.Logger(), os.Stdout)
					})
				},
			},
			{
				Name:  "hash-admin-key",
				Usage: "Hash an admin key for the ADMIN_API_KEY_HASH setting",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "key",
						Aliases: []string{"k"},
						Value:   "",
						Usage:   "Admin key to hash (omit to generate a new one)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunHashAdminKey(authService.NewAdminKeyService(), os.Stdout, cmd.String("key"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// withContainer builds a container from configuration, runs fn, and shuts
// the container down afterwards.
func withContainer(fn func(*app.Container) error) error {
	container := app.NewContainer(config.Load())
	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			container.Logger().Error("failed to shutdown container", slog.Any("error", err))
		}
	}()
	return fn(container)
}
