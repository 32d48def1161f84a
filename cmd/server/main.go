package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	amqpAdapter "github.com/iho/billcycle/internal/adapter/amqp"
	httpAdapter "github.com/iho/billcycle/internal/adapter/http"
	"github.com/iho/billcycle/internal/adapter/http/handler"
	"github.com/iho/billcycle/internal/adapter/http/middleware"
	"github.com/iho/billcycle/internal/adapter/notify"
	"github.com/iho/billcycle/internal/adapter/recurrence"
	postgresRepo "github.com/iho/billcycle/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/billcycle/internal/adapter/repository/redis"
	"github.com/iho/billcycle/internal/infrastructure/config"
	"github.com/iho/billcycle/internal/infrastructure/logger"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
	"github.com/iho/billcycle/internal/infrastructure/postgres"
	"github.com/iho/billcycle/internal/infrastructure/redis"
	"github.com/iho/billcycle/internal/usecase"
	"github.com/iho/billcycle/internal/worker"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	cardRepo := postgresRepo.NewCardRepository(pool)
	blueprintRepo := postgresRepo.NewBlueprintRepository(pool)
	postingRepo := postgresRepo.NewPostingRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	syncLock := redisRepo.NewSyncLock(redisClient)
	expander := recurrence.NewExpander()

	// Notifications
	publishers := []notify.Publisher{notify.NewLogPublisher(log.Logger)}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := amqpAdapter.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to rabbitmq")
	}
	notifier := notify.NewNotifier(idGen, log.Logger, m, publishers...)

	// Initialize use cases
	limits := usecase.NewCreditLimitLedger(cardRepo, m)
	cardUC := usecase.NewCardUseCase(cardRepo, idGen)
	blueprintUC := usecase.NewBlueprintUseCase(txManager, blueprintRepo, postingRepo, cardRepo, limits, expander, idGen, loc, m)
	postingUC := usecase.NewPostingUseCase(txManager, postingRepo, cardRepo, limits, idGen, m)
	statementUC := usecase.NewStatementUseCase(cardRepo, blueprintRepo, postingRepo, expander, loc, log.Logger, m)
	installmentUC := usecase.NewInstallmentUseCase(txManager, cardRepo, blueprintRepo, postingRepo, limits, expander, idGen, loc, m)
	syncUC := usecase.NewSyncUseCase(
		txManager, blueprintRepo, postingRepo, cardRepo, limits, expander, notifier, retrier, idGen,
		usecase.SyncConfig{Location: loc, Concurrency: cfg.SyncConcurrency},
		log.Logger, m,
	)

	syncWorker := worker.NewSyncWorker(worker.Config{
		Syncer:       syncUC,
		Lock:         syncLock,
		Notifier:     notifier,
		Logger:       log.Logger,
		Metrics:      m,
		Interval:     cfg.SyncInterval,
		LockTTL:      cfg.SyncLockTTL,
		RunOnStartup: cfg.SyncOnStartup,
	})

	// Initialize handlers
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CardHandler:        handler.NewCardHandler(cardUC),
		BlueprintHandler:   handler.NewBlueprintHandler(blueprintUC),
		PostingHandler:     handler.NewPostingHandler(postingUC, loc),
		StatementHandler:   handler.NewStatementHandler(statementUC, loc),
		InstallmentHandler: handler.NewInstallmentHandler(installmentUC, loc),
		SyncHandler:        handler.NewSyncHandler(syncWorker),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Checker{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return redis.Check(ctx, redisClient)
			},
		}),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           log.Logger,
	})

	server := newHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := syncWorker.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("sync worker: %w", err)
		}
		return nil
	})

	if rateLimiter != nil {
		g.Go(func() error {
			every(gctx, limiterCleanupInterval, rateLimiter.CleanupLimiters)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// every calls fn on each tick until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
