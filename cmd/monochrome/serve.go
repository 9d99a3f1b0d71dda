package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"monochrome/internal/auth"
	"monochrome/internal/server"
	"monochrome/internal/service"
	"monochrome/internal/store"
	"monochrome/internal/stylesheet"
	"monochrome/internal/ui"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the palette API and metrics listener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.PrintBanner()

			cfg := loadConfig()
			if cfg.Env.IsDevelopment() {
				ui.LogStatus("info", "Environment: "+ui.Warn("DEVELOPMENT"))
			} else {
				ui.LogStatus("info", "Environment: "+ui.Success("PRODUCTION"))
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			repo, err := store.Open(cfg.StoreDriver, cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer repo.Close()

			users, err := auth.NewUserStore(cfg.UsersFile, cfg.Env.DefaultRateLimitRPM)
			if err != nil {
				return err
			}

			renderer, err := stylesheet.NewRenderer(stylesheet.Scheme{Slug: cfg.SchemeSlug, Name: cfg.SchemeName})
			if err != nil {
				return err
			}

			svc := service.New(repo, renderer, nil)

			ui.LogGroup("Configuration")
			ui.LogGroupItem("Scheme", renderer.Scheme.Name+" ("+renderer.Scheme.Slug+")")
			ui.LogGroupItem("Store", cfg.StoreDriver+" "+cfg.DatabasePath)
			ui.LogGroupItem("Users", strconv.Itoa(users.GetUserCount())+" enabled")
			ui.LogGroupItem("Default limit", strconv.Itoa(cfg.Env.DefaultRateLimitRPM)+" rpm")
			ui.LogGroupItem("Allowed origin", cfg.Env.AllowedOrigin)
			ui.LogGroupEnd()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			metrics := server.NewMetricsServer(cfg.MetricsListen)
			metrics.Start()
			ui.LogStatus("info", "Metrics: http://localhost"+cfg.MetricsListen+"/metrics")

			go func() {
				<-ctx.Done()
				ui.LogGracefulShutdown()
				metrics.Shutdown(context.Background())
			}()

			srv := server.NewServer(cfg, svc, users)
			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}
}
