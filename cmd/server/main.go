package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/emagraphy/backend/api/handler"
	"github.com/emagraphy/backend/internal/config"
	"github.com/emagraphy/backend/internal/infrastructure/gateway"
	"github.com/emagraphy/backend/internal/infrastructure/monitor"
	pgInfra "github.com/emagraphy/backend/internal/infrastructure/postgres"
	redisInfra "github.com/emagraphy/backend/internal/infrastructure/redis"
	"github.com/emagraphy/backend/internal/middleware"
	"github.com/emagraphy/backend/internal/router"
	"github.com/emagraphy/backend/internal/services"
	"github.com/emagraphy/backend/internal/services/lifecycle"
	"github.com/emagraphy/backend/pkg/httpcontext"
	"github.com/emagraphy/backend/pkg/logger"
	"github.com/emagraphy/backend/pkg/token"
	"github.com/emagraphy/backend/repository/postgres"
	redisRepo "github.com/emagraphy/backend/repository/redis"
	authUC "github.com/emagraphy/backend/usecase/auth"
	bookingUC "github.com/emagraphy/backend/usecase/booking"
	classUC "github.com/emagraphy/backend/usecase/class"
	paymentUC "github.com/emagraphy/backend/usecase/payment"
	userUC "github.com/emagraphy/backend/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coordinator := lifecycle.NewCoordinator(cfg.Context.ShutdownTimeout, zapLogger)
	coordinator.NotifySignals(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	coordinator.OnShutdown("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	coordinator.OnShutdown("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	coordinator.OnShutdown("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	classRepo := postgres.NewClassRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	classCache := redisRepo.NewClassCache(redisClient, cfg.Redis.CacheTTL)

	tokenService := token.New(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.SessionTTL)
	gatewayClient := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout, zapLogger)

	authUseCase := authUC.New(tokenService, zapLogger)
	userUseCase := userUC.New(userRepo, zapLogger)
	classUseCase := classUC.New(classRepo, classCache, zapLogger)
	bookingUseCase := bookingUC.New(bookingRepo, classRepo, zapLogger)
	paymentUseCase := paymentUC.New(paymentRepo, bookingRepo, classRepo, bookingUseCase, gatewayClient, zapLogger)

	sweeper := services.NewPaymentSweeper(paymentUseCase, mon, zapLogger, services.SweeperConfig{
		Interval: cfg.Payments.SweepInterval,
		MaxAge:   cfg.Payments.PendingMaxAge,
	})
	sweeper.Start()
	coordinator.OnShutdown("payment_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		User:    apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Class:   apiHandler.NewClassHandler(classUseCase, ctxAdapter, zapLogger),
		Booking: apiHandler.NewBookingHandler(bookingUseCase, ctxAdapter, zapLogger),
		Payment: apiHandler.NewPaymentHandler(paymentUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	guard := middleware.NewGuard(tokenService, userRepo, ctxAdapter, zapLogger)
	r := router.New(handlers, guard)

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

	coordinator.OnShutdown("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := coordinator.Close(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
