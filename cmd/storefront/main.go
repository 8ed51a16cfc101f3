package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/pgkim42/book-bean-frontend-sub000/api/routes"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/checkout"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/orders"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/storefront"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/wishlist"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/instance"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/metrics"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	client, err := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithMetrics(metrics.NewBackendMetrics(registry)),
		backend.WithLogger(logg),
	)
	if err != nil {
		logg.Error(ctx, "failed to create bookstore client", err)
		os.Exit(1)
	}

	guests, err := wishlist.NewRedisGuestStore(redisClient, cfg.Redis.GuestTTL)
	if err != nil {
		logg.Error(ctx, "failed to create guest wishlist store", err)
		os.Exit(1)
	}

	sessions, err := storefront.NewRegistry(storefront.RegistryParams{
		Backend:     client,
		Guests:      guests,
		JWT:         cfg.JWT,
		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
		Metrics:     checkoutMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session registry", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(client, checkoutMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(client)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"backend_url": cfg.Backend.BaseURL,
		"instance":    instance.GetID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, redisClient, registry, sessions, checkoutService, ordersService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		logg.Info(runCtx, "starting storefront server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sessions.RunSweeper(gctx, cfg.Session.SweepInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(runCtx, "shutting down storefront server")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logg.Error(runCtx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
