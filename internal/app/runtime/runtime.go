package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-approval-metrics/internal/app/router"
	"loan-approval-metrics/internal/pkg/cleanup"
	"loan-approval-metrics/internal/pkg/config"
	"loan-approval-metrics/internal/pkg/db/mongo"
	"loan-approval-metrics/internal/pkg/db/redis"
	"loan-approval-metrics/internal/pkg/gcs"
	"loan-approval-metrics/internal/pkg/kafka"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/pkg/otel"
	"loan-approval-metrics/internal/pkg/pubsub"
	"loan-approval-metrics/internal/pkg/sftp"
	"loan-approval-metrics/internal/pkg/store/impl/loans"
	"loan-approval-metrics/internal/pkg/store/repository"
	"loan-approval-metrics/internal/pkg/worker"
	"loan-approval-metrics/internal/service/approval"
	"loan-approval-metrics/internal/service/interfaces"
	"loan-approval-metrics/internal/service/metrics"
	"loan-approval-metrics/internal/service/report"

	"go.uber.org/zap"
)

var (
	loadConfig     = config.LoadFromConfig
	setupOtel      = otel.Setup
	connectMongoDB = mongo.ConnectToMongoDB
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redis.RedisClient, error) {
		return redis.ConnectToRedis(ctx, cfg, nil)
	}
	newPubSubPublisher = func(ctx context.Context, projectID string) (interfaces.PubSubPublisherInterface, error) {
		publisher, err := pubsub.NewPubSubPublisher(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	}
	newKafkaProducer = func(cfg config.KafkaConfig) (interfaces.KafkaProducerInterface, error) {
		producer, err := kafka.NewKafkaProducer(cfg)
		if err != nil {
			return nil, err
		}
		return producer, nil
	}
	newGCSClient = func(ctx context.Context, cfg config.GCSConfig) (interfaces.GcsInterface, error) {
		client, err := gcs.NewGCSClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	newSFTPUploader = func(cfg config.SFTPConfig) interfaces.SFTPUploaderInterface {
		return sftp.NewUploader(cfg)
	}
)

// App encapsulates application resources and lifecycle.
type App struct {
	Cfg             *config.AppConfig
	MongoClient     *mongo.MongoClient
	RedisClient     *redis.RedisClient
	PubSubPublisher interfaces.PubSubPublisherInterface
	KafkaProducer   interfaces.KafkaProducerInterface
	GcsClient       interfaces.GcsInterface
	SFTPUploader    interfaces.SFTPUploaderInterface
	WorkerPool      *worker.WorkerPool
	OtelShutdown    otel.ShutdownFunc
	Services        router.Services
	HTTPServer      *http.Server
}

// New loads configuration, connects every backend and builds the services.
// Anything already opened is released when a later step fails.
func New(ctx context.Context) (app *App, err error) {
	cfg, err := loadConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel, cfg.Otel.ServiceName)

	app = &App{Cfg: cfg}
	defer func() {
		if err != nil {
			app.Shutdown(ctx)
			app = nil
		}
	}()

	if app.OtelShutdown, err = setupOtel(ctx, cfg.Otel.ServiceName, cfg.Otel.CollectorURL); err != nil {
		logger.CtxError(ctx, log_messages.OtelSetupFailed, err)
		return app, err
	}

	if app.MongoClient, err = connectMongoDB(ctx, cfg.Mongo); err != nil {
		return app, fmt.Errorf("connect mongo: %w", err)
	}

	if app.RedisClient, err = connectRedisDB(ctx, cfg.Redis); err != nil {
		return app, fmt.Errorf("connect redis: %w", err)
	}

	if cfg.PubSub.ProjectID != "" {
		if app.PubSubPublisher, err = newPubSubPublisher(ctx, cfg.PubSub.ProjectID); err != nil {
			return app, fmt.Errorf("create pubsub publisher: %w", err)
		}
	} else {
		logger.CtxWarn(ctx, "PubSub project not configured, loan decision notifications disabled")
	}

	if cfg.Kafka.Server != "" {
		if app.KafkaProducer, err = newKafkaProducer(cfg.Kafka); err != nil {
			return app, fmt.Errorf("create kafka producer: %w", err)
		}
	} else {
		logger.CtxWarn(ctx, "Kafka server not configured, approval time events disabled")
	}

	if app.GcsClient, err = newGCSClient(ctx, cfg.GCS); err != nil {
		return app, fmt.Errorf("create gcs client: %w", err)
	}

	if cfg.SFTP.Enabled {
		app.SFTPUploader = newSFTPUploader(cfg.SFTP)
	}

	app.WorkerPool = worker.NewWorkerPool(cfg.WorkerPool.Workers, cfg.WorkerPool.QueueSize)
	app.Services = app.buildServices()

	logger.CtxInfo(ctx, "Application initialized",
		zap.Int("port", cfg.Server.Port),
		zap.Int("workers", app.WorkerPool.Size()),
		zap.Bool("sftp_enabled", cfg.SFTP.Enabled),
	)
	return app, nil
}

func (a *App) buildServices() router.Services {
	loanRepo := loans.NewLoansRepository(a.MongoClient)
	cache := repository.NewRedisStoreAdapter(a.RedisClient.Client)

	metricsService := metrics.NewMetricsService(loanRepo, cache, a.KafkaProducer, a.WorkerPool, metrics.Settings{
		CacheTTL:          a.Cfg.Cache.AverageTTL(),
		ParallelThreshold: a.Cfg.WorkerPool.ParallelThreshold,
		Partitions:        a.Cfg.WorkerPool.Partitions,
	})

	return router.Services{
		Approval: approval.NewApprovalService(loanRepo, metricsService, a.PubSubPublisher, a.Cfg.PubSub.NotificationTopic),
		Metrics:  metricsService,
		Report:   report.NewReportService(loanRepo, a.GcsClient, a.SFTPUploader, a.Cfg.Report.DirectoryPath),
		Pool:     a.WorkerPool,
	}
}

// Run serves HTTP and blocks until SIGINT, SIGTERM or ctx is done, then shuts down.
func (a *App) Run(ctx context.Context) error {
	engine := router.SetupRouter(a.Cfg.Otel.ServiceName, a.Services)
	a.HTTPServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var err error
	select {
	case sig := <-quit:
		logger.CtxInfo(ctx, "Shutdown signal received", zap.String("signal", sig.String()))
	case <-ctx.Done():
	case err = <-serveErr:
	}

	a.Shutdown(context.WithoutCancel(ctx))
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return err
}

// Shutdown gracefully closes all resources with bounded timeouts.
func (a *App) Shutdown(ctx context.Context) {
	res := cleanup.Resources{
		Server:          a.HTTPServer,
		PubSubPublisher: a.PubSubPublisher,
		KafkaProducer:   a.KafkaProducer,
		GCSClient:       a.GcsClient,
		SFTPUploader:    a.SFTPUploader,
		MongoClient:     a.MongoClient,
		RedisClient:     a.RedisClient,
		OtelShutdown:    a.OtelShutdown,
	}
	// A nil *WorkerPool must not become a non-nil interface.
	if a.WorkerPool != nil {
		res.WorkerPool = a.WorkerPool
	}
	cleanup.CleanupResources(ctx, res)
	logger.Sync()
}
