package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	httpAdapter "github.com/nando/finper/internal/adapter/http"
	"github.com/nando/finper/internal/adapter/http/handler"
	"github.com/nando/finper/internal/adapter/http/middleware"
	postgresRepo "github.com/nando/finper/internal/adapter/repository/postgres"
	redisRepo "github.com/nando/finper/internal/adapter/repository/redis"
	"github.com/nando/finper/internal/infrastructure/config"
	"github.com/nando/finper/internal/infrastructure/logger"
	"github.com/nando/finper/internal/infrastructure/metrics"
	"github.com/nando/finper/internal/infrastructure/postgres"
	"github.com/nando/finper/internal/infrastructure/redis"
	"github.com/nando/finper/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis. The account cache is optional; the service runs
	// without it when REDIS_URL is empty.
	var (
		redisClient  *goredis.Client
		accountCache usecase.Cache
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		accountCache = redisRepo.NewCache(redisClient)
	} else {
		log.Info().Msg("running without account cache")
	}

	// Initialize metrics
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, accountCache).
		WithCacheTTL(cfg.AccountCacheTTL).
		WithDefaultCurrency(cfg.DefaultCurrency)
	movementUC := usecase.NewMovementUseCase(txManager, accountRepo, movementRepo, categoryRepo, idGen, accountCache).
		WithRetrier(retrier).
		WithDefaultCurrency(cfg.DefaultCurrency)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, idGen)
	consistencyUC := usecase.NewConsistencyUseCase(txManager, accountRepo, movementRepo, accountCache)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC, m)
	movementHandler := handler.NewMovementHandler(movementUC, m)
	categoryHandler := handler.NewCategoryHandler(categoryUC)
	balanceHandler := handler.NewBalanceHandler(consistencyUC, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    accountHandler,
		MovementHandler:   movementHandler,
		CategoryHandler:   categoryHandler,
		BalanceHandler:    balanceHandler,
		HealthHandler:     healthHandler,
		LoggingMiddleware: middleware.NewLoggingMiddleware(log),
		MetricsMiddleware: middleware.NewMetricsMiddleware(m),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
