package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fittrack/backend/api/handler"
	"github.com/fittrack/backend/internal/config"
	"github.com/fittrack/backend/internal/infrastructure/monitor"
	pgInfra "github.com/fittrack/backend/internal/infrastructure/postgres"
	redisInfra "github.com/fittrack/backend/internal/infrastructure/redis"
	"github.com/fittrack/backend/internal/infrastructure/sweeplog"
	"github.com/fittrack/backend/internal/middleware"
	"github.com/fittrack/backend/internal/router"
	"github.com/fittrack/backend/internal/services"
	"github.com/fittrack/backend/internal/services/lifecycle"
	"github.com/fittrack/backend/pkg/httpcontext"
	"github.com/fittrack/backend/pkg/logger"
	"github.com/fittrack/backend/repository/postgres"
	redisRepo "github.com/fittrack/backend/repository/redis"
	activityUC "github.com/fittrack/backend/usecase/activity"
	authUC "github.com/fittrack/backend/usecase/auth"
	metricsUC "github.com/fittrack/backend/usecase/metrics"
	profileUC "github.com/fittrack/backend/usecase/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	journal, err := sweeplog.Open(cfg.SweepLog.Path, "sweeps")
	if err != nil {
		zapLogger.Fatal("failed to open sweep journal", zap.Error(err))
	}
	manager.Register("sweep_journal", func(ctx context.Context) error {
		return journal.Close()
	})

	mon := monitor.New(pool, redisClient, journal, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	metricsRepo := postgres.NewMetricsRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	reconciler := services.NewStatusReconciler(activityRepo, journal, zapLogger, services.ReconcilerConfig{
		Schedule:   cfg.Reconciler.Schedule,
		RunOnStart: cfg.Reconciler.RunOnStart,
		Timeout:    cfg.Reconciler.Timeout,
	})
	reconciler.Start()
	manager.Register("status_reconciler", func(ctx context.Context) error {
		reconciler.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(userRepo, sessionRepo, authUC.Config{
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		TokenTTL:   cfg.JWT.TokenTTL,
		SessionTTL: cfg.Session.TTL,
	}, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	activityUseCase := activityUC.New(activityRepo, zapLogger)
	metricsUseCase := metricsUC.New(metricsRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:  apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Activity: apiHandler.NewActivityHandler(activityUseCase, ctxAdapter, zapLogger),
		Metrics:  apiHandler.NewMetricsHandler(metricsUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
