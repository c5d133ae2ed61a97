// server is the FocusFlow insight service binary: it persists activity
// records, generates productivity insights on demand and on a schedule,
// and streams updates to connected clients.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"focusflow/internal/api"
	"focusflow/internal/cache"
	"focusflow/internal/config"
	"focusflow/internal/insights"
	"focusflow/internal/logging"
	"focusflow/internal/scheduler"
	"focusflow/internal/storage"
	"focusflow/internal/websocket"
)

func main() {
	var addr = flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.ParseLogLevel(cfg.Logging.Level)).WithComponent("server")

	if err := run(cfg, *addr, logger); err != nil {
		logger.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, addrOverride string, logger logging.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open activity store: %w", err)
	}
	defer func() { _ = store.Close() }()
	logger.Info("activity store ready", "driver", cfg.Database.Driver)

	insightCache, err := openCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open insight cache: %w", err)
	}
	defer func() { _ = insightCache.Close() }()

	engine := insights.NewEngine()

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	sched := scheduler.New(store, insightCache, engine, hub, cfg.Insights.RefreshInterval, logger)
	go sched.Run(ctx)

	router := api.NewRouter(cfg, store, insightCache, engine, hub, logger)

	addr := cfg.Server.Addr()
	if addrOverride != "" {
		addr = addrOverride
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func openStore(cfg *config.Config) (storage.ActivityStore, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Database.Path)
	case "postgres":
		return storage.NewPostgresStore(cfg.Database.DSN)
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
}

func openCache(ctx context.Context, cfg *config.Config) (cache.InsightCache, error) {
	if !cfg.Redis.Enabled {
		return cache.NewNoopCache(), nil
	}
	return cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Insights.CacheTTL)
}
