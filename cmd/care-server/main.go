package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alzcare/alzcare/internal/config"
	"github.com/alzcare/alzcare/internal/platform/db"
	"github.com/alzcare/alzcare/internal/platform/logging"
	"github.com/alzcare/alzcare/internal/platform/middleware"
	"github.com/alzcare/alzcare/internal/platform/predictor"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "care-server",
		Short:        "Alzheimer care tracking API server",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(indexesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run postgres store migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := openMigrator()
			if err != nil {
				return err
			}
			defer migrator.Close()

			count, err := migrator.Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := openMigrator()
			if err != nil {
				return err
			}
			defer migrator.Close()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func openMigrator() (*db.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required to run migrations")
	}
	return db.NewMigrator(cfg.DatabaseURL)
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the mongo store indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.MongoURI == "" {
				return fmt.Errorf("MONGO_URI is required to create indexes")
			}
			client, database, err := db.ConnectMongo(cmd.Context(), cfg.MongoURI, cfg.MongoDatabase)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			if err := ensureIndexes(cmd.Context(), database); err != nil {
				return fmt.Errorf("create indexes: %w", err)
			}
			fmt.Println("Indexes are up to date.")
			return nil
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := logging.New(cfg)

	ctx := context.Background()
	stores := openStores(ctx, cfg, logger)
	defer stores.Close()

	switch {
	case stores.pool != nil:
		migrator, err := db.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		n, err := migrator.Up(ctx)
		_ = migrator.Close()
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info().Int("applied", n).Msg("postgres store migrated")
	case stores.mongo != nil:
		if err := ensureIndexes(ctx, stores.mongo); err != nil {
			logger.Warn().Err(err).Msg("failed to create mongo indexes")
		}
	}

	metrics := middleware.NewMetrics()
	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	gateway := predictor.New(cfg.PredictionAPIURL, cfg.PredictionTimeout,
		predictor.WithLogger(logger),
		predictor.WithObserver(metrics.ObserveUpstream),
	)

	e := newServer(cfg, logger, serverDeps{
		stores:  stores,
		gateway: gateway,
		limiter: limiter,
		metrics: metrics,
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newLimiter shares rate limit counters through redis when REDIS_URL is set
// and reachable, and keeps them in process otherwise.
func newLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (middleware.Limiter, func()) {
	rlCfg := middleware.RateLimitConfig{Max: cfg.RateLimitMax, Window: cfg.RateLimitWindow, Prefix: "/api/"}
	if cfg.RedisURL == "" {
		return middleware.NewMemoryLimiter(rlCfg), func() {}
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid REDIS_URL, using in-memory rate limiting")
		return middleware.NewMemoryLimiter(rlCfg), func() {}
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, using in-memory rate limiting")
		_ = rdb.Close()
		return middleware.NewMemoryLimiter(rlCfg), func() {}
	}
	logger.Info().Msg("rate limiting through redis")
	return middleware.NewRedisLimiter(rdb, rlCfg), func() { _ = rdb.Close() }
}
