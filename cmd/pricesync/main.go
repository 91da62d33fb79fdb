package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pricingapp "github.com/erp/pricesync/internal/application/pricing"
	"github.com/erp/pricesync/internal/application/pricesync"
	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/erp/pricesync/internal/infrastructure/auth"
	"github.com/erp/pricesync/internal/infrastructure/cache"
	"github.com/erp/pricesync/internal/infrastructure/config"
	"github.com/erp/pricesync/internal/infrastructure/ecommerce"
	"github.com/erp/pricesync/internal/infrastructure/logger"
	"github.com/erp/pricesync/internal/infrastructure/outbox"
	"github.com/erp/pricesync/internal/infrastructure/persistence"
	"github.com/erp/pricesync/internal/infrastructure/queue"
	"github.com/erp/pricesync/internal/infrastructure/scheduler"
	"github.com/erp/pricesync/internal/interfaces/http/handler"
	"github.com/erp/pricesync/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// rabbitRetryDelay is the base delay before a failed export job is redelivered
const rabbitRetryDelay = time.Second

// stopFunc shuts a background component down
type stopFunc func(ctx context.Context) error

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting price sync service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("sync_backend", cfg.Sync.Backend),
		zap.Bool("sync_enabled", cfg.Sync.Enabled),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("host", cfg.Database.Host), zap.Int("port", cfg.Database.Port))

	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	externalIDRepo := persistence.NewGormExternalIDRepository(db.DB)
	uowFactory := persistence.NewGormUnitOfWorkFactory(db.DB, log)

	// Redis fronts the external id lookups and holds the completed job ledger when enabled
	var externalIDs cache.ExternalIDStore = externalIDRepo
	var processedJobs shared.IdempotencyStore = cache.NewInMemoryIdempotencyStore()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer closeRedis(redisClient, log)
		externalIDs = cache.NewRedisExternalIDCache(redisClient, externalIDRepo, cfg.Sync.ExternalIDCacheTTL, log)
		processedJobs = cache.NewRedisIdempotencyStore(redisClient, cache.DefaultProcessedJobPrefix)
		log.Info("External id cache enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	exporter, err := newExporter(cfg.Export, log)
	if err != nil {
		log.Fatal("Failed to create price exporter", zap.Error(err))
	}
	exportHandler := pricesync.NewExportHandler(exporter, externalIDs, log).
		WithIdempotency(processedJobs, cfg.Sync.ProcessedJobTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Sync.Enabled {
		jobs, stopBackend, err := startSyncBackend(ctx, cfg, db, exportHandler, log)
		if err != nil {
			log.Fatal("Failed to start sync backend", zap.Error(err))
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer stopCancel()
			if err := stopBackend(stopCtx); err != nil {
				log.Error("Failed to stop sync backend", zap.Error(err))
			}
		}()

		listener := pricesync.NewListener(auth.ContextActorGate{}, jobs, pricesync.Settings{
			ChannelType: integration.ChannelType(cfg.Sync.ChannelType),
			Connector:   cfg.Sync.ConnectorType,
		}, log).WithExternalIDReader(externalIDs)
		uowFactory.RegisterHook(listener)
		log.Info("Reverse price sync enabled", zap.String("channel_type", cfg.Sync.ChannelType))
	}

	priceService := pricingapp.NewPriceService(catalogRepo, uowFactory, log)
	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	router.SetupRoutes(engine, router.Handlers{
		Health: handler.NewHealthHandler(db),
		Price:  handler.NewPriceHandler(priceService),
	}, jwtService, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newExporter returns the storefront exporter, or the dry-run exporter when no
// storefront is configured
func newExporter(cfg config.ExportConfig, log *zap.Logger) (integration.PriceExporter, error) {
	if cfg.BaseURL == "" {
		log.Warn("export.base_url is empty, price exports are only logged")
		return ecommerce.NewLoggingExporter(log), nil
	}
	return ecommerce.NewStorefrontExporter(&ecommerce.StorefrontConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	})
}

// startSyncBackend starts the configured export job backend and returns the
// scheduler the commit listener submits to
func startSyncBackend(ctx context.Context, cfg *config.Config, db *persistence.Database, handler integration.ExportJobHandler, log *zap.Logger) (integration.JobScheduler, stopFunc, error) {
	switch cfg.Sync.Backend {
	case config.BackendOutbox:
		repo := outbox.NewGormOutboxRepository(db.DB)
		relay := outbox.NewRelay(repo, handler, outbox.RelayConfig{
			BatchSize:        cfg.Outbox.BatchSize,
			PollInterval:     cfg.Outbox.PollInterval,
			CleanupEnabled:   cfg.Outbox.CleanupEnabled,
			CleanupRetention: cfg.Outbox.CleanupRetention,
			CleanupInterval:  outbox.DefaultRelayConfig().CleanupInterval,
		}, log)
		if err := relay.Start(ctx); err != nil {
			return nil, nil, err
		}
		return outbox.NewScheduler(repo, cfg.Outbox.MaxRetries), relay.Stop, nil

	case config.BackendRabbitMQ:
		broker, err := queue.NewRabbitMQBroker(queue.Config{
			URL:           cfg.RabbitMQ.URL,
			Queues:        []string{cfg.RabbitMQ.Queue},
			PrefetchCount: cfg.RabbitMQ.PrefetchCount,
			MaxRetries:    cfg.RabbitMQ.MaxRetries,
			RetryDelay:    rabbitRetryDelay,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		consumer := queue.NewConsumer(broker, cfg.RabbitMQ.Queue, handler, log)
		if err := consumer.Start(ctx); err != nil {
			_ = broker.Close()
			return nil, nil, err
		}
		stop := func(context.Context) error { return broker.Close() }
		return queue.NewScheduler(broker, cfg.RabbitMQ.Queue, cfg.RabbitMQ.PublishTimeout), stop, nil

	default:
		pool := scheduler.NewScheduler(scheduler.Config{
			Workers:    cfg.Scheduler.Workers,
			QueueSize:  cfg.Scheduler.QueueSize,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, handler, log)
		if err := pool.Start(ctx); err != nil {
			return nil, nil, err
		}
		return pool, pool.Stop, nil
	}
}

func closeRedis(client *redis.Client, log *zap.Logger) {
	if err := client.Close(); err != nil {
		log.Error("Failed to close Redis client", zap.Error(err))
	}
}
