package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/magic-villa-api/internal/config"
	"github.com/iliyamo/magic-villa-api/internal/database"
	"github.com/iliyamo/magic-villa-api/internal/handler"
	"github.com/iliyamo/magic-villa-api/internal/logger"
	"github.com/iliyamo/magic-villa-api/internal/metrics"
	"github.com/iliyamo/magic-villa-api/internal/middleware"
	"github.com/iliyamo/magic-villa-api/internal/queue"
	"github.com/iliyamo/magic-villa-api/internal/repository"
	"github.com/iliyamo/magic-villa-api/internal/router"
	"github.com/iliyamo/magic-villa-api/internal/service"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		ServiceName: "magic-villa-api",
	}); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zlog := logger.GetLogger()
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(
		database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName),
		database.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		},
	)
	if err != nil {
		zlog.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db, zlog); err != nil {
			zlog.Fatal("migrate database", zap.Error(err))
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		zlog.Warn("redis unavailable, cache and rate limiter disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher
	if cfg.QueueEnabled {
		events = queue.NewPublisher(cfg.RabbitURL)
	}
	if cfg.QueueConsumerEnabled {
		consumer := &queue.Consumer{URL: cfg.RabbitURL, Dir: "logs", Log: zlog.Named("villa-consumer")}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zlog.Error("villa consumer stopped", zap.Error(err))
			}
		}()
	}

	m := metrics.New("magicvilla")
	svc := service.NewVillaService(repository.NewVillaRepo(db), events)
	villaHandler := handler.NewVillaHandler(svc, m)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID)
	e.Use(logger.Middleware())
	e.Use(m.Middleware())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	var writeMW []echo.MiddlewareFunc
	if cfg.AuthEnabled {
		writeMW = append(writeMW, middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("admin"))
	}
	router.RegisterRoutes(e, m.Handler())
	router.RegisterVilla(e, villaHandler, writeMW...)

	go func() {
		addr := ":" + cfg.Port
		zlog.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.Bool("auth", cfg.AuthEnabled))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
