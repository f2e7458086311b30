package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sistema-pagamento-api/api/swagger"
	"github.com/noah-isme/sistema-pagamento-api/internal/handler"
	"github.com/noah-isme/sistema-pagamento-api/internal/middleware"
	"github.com/noah-isme/sistema-pagamento-api/internal/repository"
	"github.com/noah-isme/sistema-pagamento-api/internal/service"
	"github.com/noah-isme/sistema-pagamento-api/pkg/cache"
	"github.com/noah-isme/sistema-pagamento-api/pkg/config"
	"github.com/noah-isme/sistema-pagamento-api/pkg/database"
	"github.com/noah-isme/sistema-pagamento-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sistema-pagamento-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sistema-pagamento-api/pkg/middleware/requestid"
	"github.com/noah-isme/sistema-pagamento-api/pkg/storage"
)

// @title Sistema Pagamento API
// @version 1.0.0
// @description Student payment records with PDF receipts
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	readiness := map[string]handler.ReadinessCheck{"postgres": db.PingContext}

	var redisClient redis.UniversalClient
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, student cache disabled", zap.Error(err))
		} else {
			redisClient = client
			readiness["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}

	receipts, err := storage.NewLocalStorage(cfg.Receipts.StorageDir)
	if err != nil {
		return fmt.Errorf("init receipt storage: %w", err)
	}
	logr.Info("receipt storage ready", zap.String("dir", receipts.Dir()))

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, redisClient != nil)

	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	studentSvc := service.NewStudentService(studentRepo, cacheSvc, nil, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, studentRepo, receipts, metrics, nil, logr)
	exportSvc := service.NewExportService(paymentSvc, logr, nil, nil, nil)

	if cfg.Seed.Enabled && cfg.Env == config.EnvDevelopment {
		seeded, err := service.NewSeedService(studentRepo, paymentRepo, logr).Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
		if seeded.Students > 0 {
			cacheSvc.Invalidate(ctx, service.StudentCachePattern)
		}
	}

	var tokens middleware.TokenValidator
	if cfg.JWT.Enabled {
		tokens = service.NewTokenService(cfg.JWT.Secret)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics, "/metrics", "/health"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	ops := handler.NewMetricsHandler(metrics, readiness)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Students: handler.NewStudentHandler(studentSvc),
		Payments: handler.NewPaymentHandler(paymentSvc, exportSvc),
	}, tokens)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.Bool("auth", cfg.JWT.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
