package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/srgjo27/hotel_booking/internal/adapter/cache/redis"
	"github.com/srgjo27/hotel_booking/internal/adapter/handler"
	"github.com/srgjo27/hotel_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/hotel_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
	"github.com/srgjo27/hotel_booking/internal/core/services"
	"github.com/srgjo27/hotel_booking/internal/platform/config"
	"github.com/srgjo27/hotel_booking/internal/platform/database"
	"github.com/srgjo27/hotel_booking/internal/platform/logger"
	"github.com/srgjo27/hotel_booking/internal/platform/telemetry"
)

const (
	shutdownTimeout = 5 * time.Second
	serviceName     = "hotel-booking"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l, err := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, serviceName)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			l.Warn("tracer shutdown failed", "error", err.Error())
		}
	}()

	tx, closeStore, err := openStore(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, closeCache, err := openCache(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer closeCache()

	deps := services.Deps{Tx: tx, L: l, RequestTimeout: cfg.RequestTimeout, TracerProvider: tp}

	router := handler.NewRouter(handler.Config{
		Bookings:       services.NewBookingService(deps),
		Catalog:        services.NewCatalogService(deps, cache),
		Pricing:        services.NewPricingService(deps, cache),
		Promotions:     services.NewPromotionService(deps),
		L:              l,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		TracerProvider: tp,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ErrorLog:     logger.ServerLog(l),
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)

	go func() {
		l.Info("server starting", "addr", cfg.HTTP.Addr, "store", cfg.Store)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server startup failed: %w", err)
		}
	case <-ctx.Done():
	}

	l.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	l.Info("server exiting")

	return nil
}

func openStore(ctx context.Context, cfg config.Config, l *slog.Logger) (ports.TxManager, func(), error) {
	if cfg.Store == config.StoreMemory {
		l.Warn("using the in-memory store, data is lost on restart")
		return memory.New(memory.Config{L: l}), func() {}, nil
	}

	db, err := database.NewPostgresDB(ctx, cfg.DB, l)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to db: %w", err)
	}

	store := postgres.New(postgres.Config{
		DB:          db,
		L:           l,
		MaxAttempts: cfg.Tx.MaxAttempts,
		BaseDelay:   cfg.Tx.BaseDelay,
	})

	if cfg.Migrate {
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		l.Info("schema applied")
	}

	return store, func() { db.Close() }, nil
}

// openCache returns a nil cache when Redis is disabled.
func openCache(ctx context.Context, cfg config.Config, l *slog.Logger) (ports.QuoteCache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}

	addr := net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port)
	l.Info("connecting to redis", "addr", addr)

	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: cfg.Redis.DB})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	return redis.NewQuoteCache(client, cfg.Redis.QuoteTTL), func() { client.Close() }, nil
}
