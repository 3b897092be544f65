package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/teamboard/internal/api"
	"github.com/tgienger/teamboard/internal/config"
	"github.com/tgienger/teamboard/internal/jobs"
	"github.com/tgienger/teamboard/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.Init(cfg.Environment, cfg.LogLevel)

	rt, err := openBackend(ctx, cfg, logger, backendOptions{metrics: true, redis: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	if cfg.RolesFile != "" {
		if err := rt.roles.Watch(ctx, cfg.RolesFile); err != nil {
			logger.Warn("roles file will not hot reload", "error", err)
		}
	}

	scheduler, err := jobs.NewScheduler(rt.db, cfg.Timezone, cfg.NotificationRetentionDays, logger)
	if err != nil {
		return err
	}
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	app := api.NewApp(api.Deps{
		Engine:         rt.engine,
		DB:             rt.db,
		Roles:          rt.roles,
		PollInterval:   cfg.PollInterval,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
		Metrics:        true,
		AccessLog:      true,
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Warn("error shutting down server", "error", err)
		}
	}()

	logger.Info("teamboard listening",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"timezone", cfg.Timezone.String(),
		"poll_interval", cfg.PollInterval.String(),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
