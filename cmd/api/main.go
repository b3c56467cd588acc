package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/spa-scheduler/internal/db"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/spa-scheduler/internal/lock"
	"github.com/BruksfildServices01/spa-scheduler/internal/logging"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/routes"
)

const shutdownTimeout = 15 * time.Second

func main() {

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.GinMode)

	// ======================================================
	// METRICS
	// ======================================================
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulingMetrics := metrics.NewSchedulingMetrics(reg)

	// ======================================================
	// STORE + AUDIT
	// ======================================================
	var (
		repo        domain.Repository
		auditWriter audit.Writer
	)

	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client := dbpkg.NewMongo(cfg, logger)
		defer func() { _ = client.Disconnect(context.Background()) }()

		database := client.Database(cfg.MongoDatabase)
		mongoRepo := repository.NewAppointmentMongoRepository(database)
		if err := mongoRepo.EnsureIndexes(context.Background()); err != nil {
			logger.Fatal("failed to create mongo indexes", zap.Error(err))
		}
		repo = mongoRepo
		auditWriter = audit.NewMongoWriter(database.Collection("auditlogs"))

	case config.StoreDriverPostgres:
		db := dbpkg.NewDB(cfg, logger)
		repo = repository.NewAppointmentGormRepository(db)
		auditWriter = audit.New(db)

	default:
		logger.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
	}

	dispatcher := audit.NewDispatcher(auditWriter, logger.Named("audit"), schedulingMetrics, cfg.AuditQueueSize)

	// ======================================================
	// LOCKING
	// ======================================================
	var locker lock.Locker = lock.NewLocal()

	redisClient, err := dbpkg.NewRedis(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		locker = lock.NewRedis(redisClient, logger.Named("lock"),
			lock.WithTTL(cfg.LockTTL),
			lock.WithWait(cfg.LockWait),
		)
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Log:      logger.Named("http"),
		Repo:     repo,
		Locker:   locker,
		Audit:    dispatcher,
		Metrics:  schedulingMetrics,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("store", cfg.StoreDriver),
			zap.Bool("distributed_lock", redisClient != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("audit queue not drained", zap.Error(err))
	}
}
