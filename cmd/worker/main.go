package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/taskflow/internal/config"
	"github.com/rezkam/taskflow/internal/infrastructure/observability"
	"github.com/rezkam/taskflow/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/taskflow/internal/usecase"
	"github.com/rezkam/taskflow/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	obsCfg := observability.Config{Enabled: cfg.Observability.EnableMetrics, ServiceName: cfg.App.Name}

	lp, logger, err := observability.InitLogger(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer shutdownWithTimeout(lp.Shutdown, 5*time.Second, "logger provider")
	slog.SetDefault(logger)

	tp, err := observability.InitTracerProvider(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer shutdownWithTimeout(tp.Shutdown, 5*time.Second, "tracer provider")

	mp, err := observability.InitMeterProvider(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init meter provider: %w", err)
	}
	defer shutdownWithTimeout(mp.Shutdown, 5*time.Second, "meter provider")

	slog.InfoContext(ctx, "starting taskflow worker", "environment", cfg.App.Environment, "queue", cfg.Worker.Queue)

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSeconds) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTimeSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	svc := usecase.NewService(store, nil)

	registry := worker.NewRegistry()
	registerHandlers(registry)

	w := worker.New(svc, registry, worker.Config{
		Queue:            cfg.Worker.Queue,
		PollInterval:     cfg.Worker.PollInterval,
		OperationTimeout: cfg.Worker.OperationTimeout,
	})

	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("worker loop failed: %w", err)
	}

	slog.InfoContext(ctx, "worker stopped")
	return nil
}

// registerHandlers binds job names to their handler implementations.
// v0 ships no built-in handlers; operators wire their own job names in
// before starting the binary, the way the worker registry's own doc
// comment describes ("handlers are registered externally").
func registerHandlers(registry *worker.Registry) {
	_ = registry
}

func shutdownWithTimeout(shutdown func(context.Context) error, timeout time.Duration, name string) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "failed to shutdown "+name, "error", err)
	}
}
