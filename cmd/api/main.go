package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/agrofix/agrofix-backend/api/controllers"
	"github.com/agrofix/agrofix-backend/api/middleware"
	"github.com/agrofix/agrofix-backend/api/routes"
	"github.com/agrofix/agrofix-backend/internal/auth"
	"github.com/agrofix/agrofix-backend/internal/cart"
	"github.com/agrofix/agrofix-backend/internal/orders"
	"github.com/agrofix/agrofix-backend/internal/products"
	"github.com/agrofix/agrofix-backend/internal/seed"
	"github.com/agrofix/agrofix-backend/internal/storage/backend"
	"github.com/agrofix/agrofix-backend/internal/users"
	"github.com/agrofix/agrofix-backend/pkg/auth/session"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/agrofix/agrofix-backend/pkg/metrics"
	"github.com/agrofix/agrofix-backend/pkg/redis"
	"github.com/agrofix/agrofix-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	hasher := security.NewPasswordHasher(cfg.Password)

	if cfg.Seed.SampleData {
		seeder, err := seed.New(store, hasher, cfg.Seed, logg)
		if err != nil {
			return err
		}
		if _, err := seeder.Run(ctx); err != nil {
			return err
		}
	}

	var (
		redisClient *redis.Client
		limiter     middleware.RateLimiter
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		limiter = middleware.NewRedisLimiter(redisClient)
	} else {
		logg.Warn(ctx, "redis not configured; sessions, revocations and idempotency keys are kept in process")
		redisClient = redis.NewLocal()
		limiter = middleware.NewBucketLimiter()
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessions, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return err
	}
	denylist, err := session.NewTokenDenylist(redisClient)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	storefront := metrics.NewStorefrontMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    store,
		Hasher:   hasher,
		Sessions: sessions,
		Denylist: denylist,
		JWT:      cfg.JWT,
		Metrics:  storefront,
	})
	if err != nil {
		return err
	}
	userService, err := users.NewService(store)
	if err != nil {
		return err
	}
	productService, err := products.NewService(store, storefront)
	if err != nil {
		return err
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Orders:   store,
		Products: store,
		Metrics:  storefront,
	})
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(store, storefront)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Dependencies{
		Config: cfg,
		Logger: logg,
		Readiness: map[string]controllers.Pinger{
			"storage": store,
			"redis":   redisClient,
		},
		Idempotency: redisClient,
		RateLimiter: limiter,
		HTTPMetrics: httpMetrics,
		Gatherer:    registry,
		Auth:        authService,
		Users:       userService,
		Products:    productService,
		Orders:      orderService,
		Cart:        cartService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    server.Addr,
		"storage": cfg.Storage.Driver,
		"redis":   cfg.Redis.Enabled(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serveErr
}
