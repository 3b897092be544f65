package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tgienger/teamboard/internal/config"
	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/notify"
	"github.com/tgienger/teamboard/internal/roles"
	"github.com/tgienger/teamboard/internal/tasks"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "teamboard",
		Short:         "Team task board with super tasks and approvals",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is normal outside development
			_ = godotenv.Load()
		},
	}
	cmd.SetVersionTemplate("teamboard {{.Version}}\n")

	cmd.AddCommand(serveCmd(), boardCmd(), usersCmd())
	return cmd
}

// backend is everything a subcommand needs to run engine commands
type backend struct {
	cfg      *config.Config
	db       *db.DB
	roles    *roles.Registry
	engine   *tasks.Engine
	closers  []func() error
	logger   *slog.Logger
	emitters notify.Fanout
}

type backendOptions struct {
	// metrics registers engine counters on the default Prometheus registry
	metrics bool
	// redis adds the pub/sub publisher when REDIS_URL is set
	redis bool
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts backendOptions) (*backend, error) {
	rt := &backend{cfg: cfg, logger: logger}

	rt.roles = roles.New(cfg.AdminRoles, logger)
	if cfg.RolesFile != "" {
		if err := rt.roles.LoadFile(cfg.RolesFile); err != nil {
			return nil, err
		}
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	rt.db = database
	rt.closers = append(rt.closers, database.Close)

	rt.emitters = notify.Fanout{notify.NewStore(database)}
	if opts.redis && cfg.RedisURL != "" {
		client, err := notify.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			// Clients still poll, so pub/sub is optional
			logger.Warn("redis unavailable, publishing disabled", "error", err)
		} else {
			publisher := notify.NewPublisher(client)
			rt.emitters = append(rt.emitters, publisher)
			rt.closers = append(rt.closers, client.Close)
			logger.Info("publishing task events to redis", "instance_id", publisher.InstanceID())
		}
	}

	var metrics *tasks.Metrics
	if opts.metrics {
		metrics = tasks.NewMetrics(prometheus.DefaultRegisterer)
	}

	rt.engine = tasks.NewEngine(database, tasks.Options{
		Roles:    rt.roles,
		Emitter:  rt.emitters,
		Logger:   logger,
		Location: cfg.Timezone,
		Metrics:  metrics,
	})
	return rt, nil
}

// Close releases resources in reverse order of acquisition
func (rt *backend) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn("close failed", "error", err)
		}
	}
}
