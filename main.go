package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/msomdec/usercrud/internal/config"
	"github.com/msomdec/usercrud/internal/domain"
	"github.com/msomdec/usercrud/internal/handler"
	"github.com/msomdec/usercrud/internal/logging"
	"github.com/msomdec/usercrud/internal/repository/postgres"
	"github.com/msomdec/usercrud/internal/repository/sqlite"
	"github.com/msomdec/usercrud/internal/service"
)

func main() {
	app := &cli.App{
		Name:  "usercrud",
		Usage: "JSON CRUD API for users",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional config file (yaml, toml or json)",
				EnvVars: []string{"USERCRUD_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database schema files and exit",
				Action: migrate,
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// setup loads configuration, installs the default logger and opens the
// database. The returned cleanup closes the database and flushes logs.
func setup(c *cli.Context) (*config.Config, domain.Database, func(), error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, syncLogs, err := logging.New(logging.Options{
		Production: cfg.LogProduction,
		Level:      cfg.LogLevel,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(logger)

	db, err := openDatabase(c.Context, cfg)
	if err != nil {
		syncLogs()
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			slog.Error("close database", "error", err)
		}
		syncLogs()
	}
	return cfg, db, cleanup, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres database: %w", err)
		}
		return db, nil
	default:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		return db, nil
	}
}

func migrate(c *cli.Context) error {
	_, db, cleanup, err := setup(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := db.Migrate(c.Context); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")
	return nil
}

func serve(c *cli.Context) error {
	cfg, db, cleanup, err := setup(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := db.Migrate(c.Context); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "driver", cfg.DatabaseDriver)

	userService := service.NewUserService(db.Users())

	var limiter *service.TokenBucket
	if cfg.RateLimitRPS > 0 {
		limiter = service.NewTokenBucket(cfg.RateLimitRPS, cfg.RateLimitBurst)
		defer limiter.Close()
		slog.Info("rate limiting enabled", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := handler.NewMetrics(reg)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, userService, db, limiter)
	mux.Handle("GET /metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Wrap(mux, metrics),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
