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

	"github.com/gin-gonic/gin"
	_ "github.com/invoicing/backend/docs"
	"github.com/invoicing/backend/internal/application/document"
	"github.com/invoicing/backend/internal/application/invitation"
	"github.com/invoicing/backend/internal/application/payment"
	"github.com/invoicing/backend/internal/infrastructure/auth"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/hashid"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/persistence"
	"github.com/invoicing/backend/internal/infrastructure/queue"
	"github.com/invoicing/backend/internal/infrastructure/storage"
	"github.com/invoicing/backend/internal/infrastructure/telemetry"
	"github.com/invoicing/backend/internal/interfaces/http/handler"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
	"github.com/invoicing/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

//	@title			Invoicing API
//	@version		1.0
//	@description	Payments, documents and email delivery tracking for the invoicing backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Bootstrap logger for the telemetry setup; replaced once the OTLP log core exists
	bootLog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	profiler, err := telemetry.NewProfiler(cfg.Profiling, serviceName, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to start profiler", zap.Error(err))
	}
	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracer.EnableSpanProfiles()
	}
	meters, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	logs, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, logs.Core(serviceName, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting invoicing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", Version),
	)

	connections, err := openConnections(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := connections.Close(); err != nil {
			log.Error("Error closing database connections", zap.Error(err))
		}
	}()
	db, err := connections.Resolve(persistence.DefaultConnection)
	if err != nil {
		log.Fatal("Default connection missing", zap.Error(err))
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(meters.Meter("invoicing"), log)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	ids, err := hashid.New(hashid.Config{Salt: cfg.HashID.Salt, MinLength: cfg.HashID.MinLength})
	if err != nil {
		log.Fatal("Failed to create id encoder", zap.Error(err))
	}

	objects, err := newObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	backend, err := newQueueBackend(cfg)
	if err != nil {
		log.Fatal("Failed to initialize queue", zap.Error(err))
	}
	dispatcher := queue.NewDispatcher(backend, cfg.Queue.MaxRetries, log)

	registry := queue.NewRegistry()
	invitation.Register(registry, persistence.NewInvitationRepositories(connections), log)

	poolConfig := queue.DefaultPoolConfig()
	if cfg.Queue.Workers > 0 {
		poolConfig.Workers = cfg.Queue.Workers
	}
	if cfg.Queue.JobTimeout > 0 {
		poolConfig.JobTimeout = cfg.Queue.JobTimeout
	}
	if cfg.Queue.RetryDelay > 0 {
		poolConfig.RetryDelay = cfg.Queue.RetryDelay
	}
	pool := queue.NewPool(poolConfig, backend, registry, log, queue.WithObserver(businessMetrics))
	if err := pool.Start(ctx); err != nil {
		log.Fatal("Failed to start worker pool", zap.Error(err))
	}

	documents := persistence.NewGormDocumentRepository(db)
	paymentService := payment.NewService(
		persistence.NewGormPaymentRepository(db),
		persistence.NewGormInvoiceRepository(db),
		documents,
		persistence.NewGormPaymentTransactionScope(db),
		ids,
		log,
		payment.WithRecorder(businessMetrics),
	)
	documentService := document.NewService(documents, objects, ids, log,
		document.WithURLExpiry(cfg.Storage.PresignExpiration))
	webhookService := invitation.NewWebhookService(dispatcher, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.Run(limiterCtx)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	tracing := middleware.DefaultTracingConfig()
	tracing.ServiceName = serviceName
	tracing.Enabled = tracer.IsEnabled()

	engine := router.NewEngine(router.Options{
		HTTP:           cfg.HTTP,
		Swagger:        cfg.Swagger,
		Webhook:        cfg.Webhook,
		Tracing:        tracing,
		Profiling:      profiler.IsEnabled(),
		RequestTimeout: cfg.HTTP.WriteTimeout,
		JWTService:     auth.NewJWTService(cfg.JWT),
		RateLimiter:    limiter,
		Meters:         meters,
		Logger:         log,
	}, router.Handlers{
		Payment:  handler.NewPaymentHandler(paymentService),
		Document: handler.NewDocumentHandler(documentService),
		Webhook:  handler.NewWebhookHandler(webhookService),
		System:   handler.NewSystemHandler(connections, Version),
	})

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopLimiter()
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping worker pool", zap.Error(err))
	}
	if err := backend.Close(); err != nil {
		log.Error("Error closing queue", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracer.Shutdown,
		"meter":  meters.Shutdown,
		"logger": logs.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.String("provider", name), zap.Error(err))
		}
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// openConnections opens the primary database and every named partition,
// each with its own query tracing.
func openConnections(cfg *config.Config, log *zap.Logger) (*persistence.Connections, error) {
	gormLevel := logger.MapGormLogLevel(cfg.Log.Level)

	open := func(name string, dbCfg *config.DatabaseConfig) (*persistence.Database, error) {
		gormLog := logger.NewGormLogger(log, gormLevel,
			logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
			logger.WithConnection(name))
		db, err := persistence.OpenDatabase(name, dbCfg, persistence.WithGormLogger(gormLog))
		if err != nil {
			return nil, err
		}
		if err := telemetry.NewDBTracing(cfg.Telemetry, name, log).Register(db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("connection %s tracing: %w", name, err)
		}
		return db, nil
	}

	primary, err := open(persistence.DefaultConnection, &cfg.Database)
	if err != nil {
		return nil, err
	}
	connections := persistence.NewConnections(primary.DB)
	for _, name := range cfg.Database.ConnectionNames() {
		dbCfg := cfg.Database.Connections[name]
		db, err := open(name, &dbCfg)
		if err != nil {
			_ = connections.Close()
			return nil, err
		}
		connections.Register(name, db.DB)
	}
	log.Info("Database connected", zap.Strings("connections", connections.Names()))
	return connections, nil
}

func newObjectStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (document.ObjectStorage, error) {
	if cfg.Bucket == "" {
		log.Warn("No storage bucket configured, using in-memory object storage")
		return storage.NewMemoryStorage(""), nil
	}
	s3, err := storage.NewS3Storage(ctx, cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}

func newQueueBackend(cfg *config.Config) (queue.Backend, error) {
	switch cfg.Queue.Driver {
	case "", "memory":
		return queue.NewMemoryBackend(cfg.Queue.Size), nil
	case "redis":
		backend, err := queue.NewRedisBackend(queue.RedisConfig{
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Queue.KeyPrefix,
			Queue:     cfg.Queue.Name,
		})
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}
