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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gobilling/internal/adapter/http"
	"github.com/iho/gobilling/internal/adapter/http/handler"
	"github.com/iho/gobilling/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobilling/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobilling/internal/adapter/repository/redis"
	"github.com/iho/gobilling/internal/infrastructure/config"
	"github.com/iho/gobilling/internal/infrastructure/eventpublisher"
	"github.com/iho/gobilling/internal/infrastructure/logger"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
	"github.com/iho/gobilling/internal/infrastructure/postgres"
	"github.com/iho/gobilling/internal/infrastructure/redis"
	"github.com/iho/gobilling/internal/usecase"
)

const totalCacheTTL = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	m := metrics.New()

	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close()

	redisClient := openRedis(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	outbox := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: repos.outbox,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      newRouter(cfg, repos, redisClient, m, log),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	publisherDone := make(chan struct{})
	go func() {
		defer close(publisherDone)
		if err := outbox.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.Storage).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	<-publisherDone

	log.Info().Msg("server stopped")
	return nil
}

// repositories is one storage backend behind the use case interfaces.
type repositories struct {
	txManager    usecase.TransactionManager
	accounts     usecase.AccountRepository
	charges      usecase.ChargeRepository
	transactions usecase.TransactionRepository
	invoices     usecase.InvoiceRepository
	cards        usecase.CreditCardRepository
	outbox       usecase.OutboxRepository
	ping         handler.Pinger
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return memoryRepositories(memory.New()), nil
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &repositories{
		txManager:    postgresRepo.NewTxManager(pool),
		accounts:     postgresRepo.NewAccountRepository(pool),
		charges:      postgresRepo.NewChargeRepository(pool),
		transactions: postgresRepo.NewTransactionRepository(pool),
		invoices:     postgresRepo.NewInvoiceRepository(pool),
		cards:        postgresRepo.NewCreditCardRepository(pool),
		outbox:       postgresRepo.NewOutboxRepository(pool),
		ping:         pool,
		close:        pool.Close,
	}, nil
}

func memoryRepositories(store *memory.Store) *repositories {
	return &repositories{
		txManager:    memory.NewTxManager(store),
		accounts:     memory.NewAccountRepository(store),
		charges:      memory.NewChargeRepository(store),
		transactions: memory.NewTransactionRepository(store),
		invoices:     memory.NewInvoiceRepository(store),
		cards:        memory.NewCreditCardRepository(store),
		outbox:       memory.NewOutboxRepository(store),
		ping:         store,
		close:        func() {},
	}
}

// openRedis returns nil when Redis is not configured or not reachable.
// Idempotency keys and the invoice total cache are skipped in that case.
func openRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) *goredis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL, redis.Options{
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.RedisDialTimeout,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, idempotency keys and total cache disabled")
		return nil
	}
	log.Info().Msg("connected to redis")
	return client
}

func newPublisher(cfg *config.Config, log zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return eventpublisher.NewLogPublisher(log), func() {}, nil
	}

	p, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to amqp: %w", err)
	}
	log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to amqp")

	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close amqp publisher")
		}
	}, nil
}

func newRouter(cfg *config.Config, repos *repositories, redisClient *goredis.Client, m *metrics.Metrics, log zerolog.Logger) http.Handler {
	clock := usecase.SystemClock{}
	idGen := postgresRepo.NewULIDGenerator(clock)
	retrier := postgresRepo.NewRetrierWithConfig(log, cfg.InvoiceMaxRetries)

	accountUC := usecase.NewAccountUseCase(repos.txManager, repos.accounts, repos.charges, repos.transactions,
		repos.invoices, repos.outbox, idGen, clock, log, m)
	chargeUC := usecase.NewChargeUseCase(repos.txManager, repos.accounts, repos.charges, repos.outbox, idGen, clock, log, m)
	transactionUC := usecase.NewTransactionUseCase(repos.txManager, repos.accounts, repos.transactions, repos.invoices,
		repos.outbox, idGen, clock, log, m)
	invoiceUC := usecase.NewInvoiceUseCase(repos.txManager, repos.accounts, repos.charges, repos.transactions,
		repos.invoices, repos.outbox, idGen, clock, retrier, log, m)
	cardUC := usecase.NewCreditCardUseCase(repos.txManager, repos.accounts, repos.cards, repos.outbox, idGen, clock, log, m)

	checks := map[string]handler.Pinger{cfg.Storage: repos.ping}

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		ChargeHandler:      handler.NewChargeHandler(chargeUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		InvoiceHandler:     handler.NewInvoiceHandler(invoiceUC),
		CreditCardHandler:  handler.NewCreditCardHandler(cardUC),
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            m,
		Logger:             log,
	}

	if redisClient != nil {
		invoiceUC.WithTotalCache(redisRepo.NewTotalCache(redisClient, totalCacheTTL, m))
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient, m)
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	routerCfg.HealthHandler = handler.NewHealthHandler(checks)

	return httpAdapter.NewRouter(routerCfg)
}
