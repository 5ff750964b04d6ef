package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/employees/internal/config"
	"github.com/UnknownOlympus/employees/internal/lib/logger/sl"
	"github.com/UnknownOlympus/employees/internal/metrics"
	"github.com/UnknownOlympus/employees/internal/repository"
	"github.com/UnknownOlympus/employees/internal/server"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("Application failed", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("Application stopped gracefully...")
}

// run wires storage, metrics and the API server and blocks until ctx is done or startup fails.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Create a separate registry for application metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	opts := server.RouterOptions{
		Metrics:           appMetrics,
		Gatherer:          reg,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		LegacyWriteRoutes: cfg.HTTP.LegacyWriteRoutes,
	}

	var employeeRepo repository.EmployeeRepoIface
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.WarnContext(ctx, "Using in-memory storage, records are lost on restart")
		employeeRepo = repository.NewMemoryRepository(appMetrics)
	default:
		dtb, err := repository.NewDatabase(ctx, cfg.Postgres.DSN())
		if err != nil {
			return fmt.Errorf("failed to connect to DB: %w", err)
		}
		defer dtb.Close()

		if cfg.Migrations.Auto {
			if err = repository.Migrate(dtb, cfg.Migrations.Dir); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			logger.InfoContext(ctx, "Migrations applied", slog.String("dir", cfg.Migrations.Dir))
		}

		employeeRepo = repository.NewEmployeeRepository(dtb, appMetrics)
		opts.DB = dtb
	}

	router := server.NewRouter(logger, employeeRepo, opts)
	apiServer := server.New(cfg.HTTP, router, logger)

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		slog.String("env", cfg.Env), slog.String("storage", cfg.Storage.Driver))

	return apiServer.Start(ctx)
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{Key: "", Value: slog.Value{}}
		}
		return a
	}

	switch env {
	case envLocal:
		log = slog.New(
			tint.NewHandler(os.Stdout, &tint.Options{
				Level:      slog.LevelDebug,
				TimeFormat: time.TimeOnly,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
