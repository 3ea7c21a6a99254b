// @title Reward Engine API
// @version 1.0
// @description Diamonds, packs, streaks, activities and badges for learning platforms.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
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

	"github.com/osse101/RewardEngine_Go/internal/bootstrap"
	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/database/postgres"
	"github.com/osse101/RewardEngine_Go/internal/eventlog"
	"github.com/osse101/RewardEngine_Go/internal/server"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, store, err := bootstrap.InitializeDatabase(ctx, cfg)
	if err != nil {
		_ = logCloser.Close()
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		dbPool.Close()
		_ = logCloser.Close()
		return err
	}

	// Jobs outlive the signal context so shutdown can drain them in order
	eventLogService := eventlog.NewService(postgres.NewEventLogRepository(dbPool))
	jobs := bootstrap.StartBackgroundJobs(context.WithoutCancel(ctx), cfg, eventLogService)

	shutdown := bootstrap.ShutdownComponents{
		Jobs:               jobs,
		ResilientPublisher: publisher,
		DBPool:             dbPool,
		LogCloser:          logCloser,
	}
	fail := func(err error) error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, shutdown)
		return err
	}

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: eventLogService,
		Jobs:            jobs.Pool,
		Config:          cfg,
	}); err != nil {
		return fail(err)
	}

	catalog, err := bootstrap.LoadPackCatalog(cfg)
	if err != nil {
		return fail(err)
	}

	services := bootstrap.InitializeServices(cfg, store, publisher, catalog, eventLogService)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, dbPool, services)
	shutdown.Server = srv

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			slog.Error("Server failed", "error", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, shutdown)

	return runErr
}
