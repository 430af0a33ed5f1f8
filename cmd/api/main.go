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
	"go.uber.org/multierr"

	"github.com/mohib357/mamstar-plan/api/routes"
	"github.com/mohib357/mamstar-plan/internal/auth"
	brand "github.com/mohib357/mamstar-plan/internal/brands"
	category "github.com/mohib357/mamstar-plan/internal/categories"
	customer "github.com/mohib357/mamstar-plan/internal/customers"
	"github.com/mohib357/mamstar-plan/internal/orders"
	product "github.com/mohib357/mamstar-plan/internal/products"
	"github.com/mohib357/mamstar-plan/internal/users"
	"github.com/mohib357/mamstar-plan/pkg/config"
	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/metrics"
	"github.com/mohib357/mamstar-plan/pkg/migrate"
	"github.com/mohib357/mamstar-plan/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "mamstar-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "mamstar-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	// keep these as untyped nil interfaces when redis is off
	var (
		redisClient *redis.Client
		redisDeps   routes.RedisDeps
		statsCache  redis.Cache
	)
	if cfg.FeatureFlags.RedisEnabled {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			_ = dbClient.Close()
			os.Exit(1)
		}
		redisDeps = routes.RedisDeps{
			Pinger:      redisClient,
			RateLimiter: redisClient,
			Idempotency: redisClient,
		}
		statsCache = redisClient
	} else {
		logg.Warn(ctx, "redis disabled, running without login throttling or idempotency")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	catalogMetrics := metrics.NewCatalogMetrics(registry)

	conn := dbClient.DB()
	customerRepo := customer.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  users.NewRepository(conn),
		JWTConfig: cfg.JWT,
		Logger:    logg,
	})
	exitOnErr(ctx, logg, "failed to create auth service", err)

	productService, err := product.NewService(product.NewRepository(conn), dbClient, statsCache, catalogMetrics, logg, cfg.Catalog)
	exitOnErr(ctx, logg, "failed to create product service", err)

	categoryService, err := category.NewService(category.NewRepository(conn), catalogMetrics, logg)
	exitOnErr(ctx, logg, "failed to create category service", err)

	brandService, err := brand.NewService(brand.NewRepository(conn), catalogMetrics, logg)
	exitOnErr(ctx, logg, "failed to create brand service", err)

	customerService, err := customer.NewService(customerRepo, catalogMetrics, logg, cfg.Catalog.DefaultPageSize)
	exitOnErr(ctx, logg, "failed to create customer service", err)

	orderService, err := orders.NewService(orders.NewRepository(conn), customerRepo, dbClient, catalogMetrics, logg, cfg.Catalog)
	exitOnErr(ctx, logg, "failed to create order service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisDeps,
			registry,
			httpMetrics,
			authService,
			productService,
			categoryService,
			brandService,
			customerService,
			orderService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	closeErr := dbClient.Close()
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
	}
	os.Exit(exitCode)
}

func exitOnErr(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
