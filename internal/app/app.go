package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/eshop-etl/internal/cfg"
	v1Http "github.com/DRSN-tech/eshop-etl/internal/delivery/v1/http"
	"github.com/DRSN-tech/eshop-etl/internal/infrastructure/kafka"
	s3Repo "github.com/DRSN-tech/eshop-etl/internal/repository/minio"
	"github.com/DRSN-tech/eshop-etl/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/eshop-etl/internal/repository/pgdb/converter/generated"
	"github.com/DRSN-tech/eshop-etl/internal/repository/redis"
	"github.com/DRSN-tech/eshop-etl/internal/usecase"
	"github.com/DRSN-tech/eshop-etl/pkg/clients"
	"github.com/DRSN-tech/eshop-etl/pkg/closer"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/DRSN-tech/eshop-etl/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}

	appCloser := closer.NewCloser(5 * time.Second)
	appCloser.Add(func(_ context.Context) error {
		db.Close()
		return nil
	})

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		os.Exit(1)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		os.Exit(1)
	}
	minioCancel()

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	appCloser.Add(func(_ context.Context) error {
		return redisClient.Client.Close()
	})

	outboxConv := pgdbConv.NewOutboxEventConverterImpl()

	exportRepo := s3Repo.NewExportRepo(minioClient, cfg.Minio, logger)
	identityRepo := pgdb.NewIdentityRepo(db.Pool)
	catalogRepo := pgdb.NewCatalogRepo(db.Pool)
	salesRepo := pgdb.NewSalesRepo(db.Pool)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)
	cacheRepo := redis.NewHashCacheRepo(redisClient, cfg.Redis, logger)

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	appCloser.Add(func(_ context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	worker := kafka.NewOutboxWorker(outboxRepo, logger, producer, db.Dsn)
	worker.Start(workerCtx)
	appCloser.Add(func(_ context.Context) error {
		workerCancel()
		worker.Stop()
		return nil
	})

	builder := usecase.NewCatalogBuilder(logger)
	engine := usecase.NewTransactionEngine(logger, cfg.Pipeline)

	pipelineUC := usecase.NewPipelineUC(
		exportRepo,
		identityRepo,
		catalogRepo,
		salesRepo,
		cacheRepo,
		outboxRepo,
		db.Pool,
		builder,
		engine,
		cfg.Pipeline,
		logger,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(pipelineUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	appCloser.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := appCloser.Close(shutdownCtx); err != nil {
		logger.Warnf("shutdown finished with errors: %v", err)
	}

	logger.Infof("Application shutdown complete")
	if appErr != nil {
		os.Exit(1)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
