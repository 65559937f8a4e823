package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_tracker/internal/app/di"
	"stock_tracker/internal/app/router"
	accountadapters "stock_tracker/internal/feature/account/adapters"
	accounthandler "stock_tracker/internal/feature/account/transport/handler"
	accountusecase "stock_tracker/internal/feature/account/usecase"
	commentadapters "stock_tracker/internal/feature/comment/adapters"
	commenthandler "stock_tracker/internal/feature/comment/transport/handler"
	commentusecase "stock_tracker/internal/feature/comment/usecase"
	portfolioadapters "stock_tracker/internal/feature/portfolio/adapters"
	portfoliohandler "stock_tracker/internal/feature/portfolio/transport/handler"
	portfoliousecase "stock_tracker/internal/feature/portfolio/usecase"
	stockhandler "stock_tracker/internal/feature/stock/transport/handler"
	stockusecase "stock_tracker/internal/feature/stock/usecase"
	"stock_tracker/internal/platform/config"
	infradb "stock_tracker/internal/platform/db"
	healthhandler "stock_tracker/internal/platform/http/handler"
	jwtmw "stock_tracker/internal/platform/jwt"
	"stock_tracker/internal/platform/logger"
	infraredis "stock_tracker/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := infradb.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// JWT_SECRETチェック
	if cfg.JWT.Secret == "" {
		slog.Warn("JWT_SECRET is not set. Authenticated routes will respond 500.")
	}

	// Repository
	userRepo := accountadapters.NewUserRepository(db)
	stockRepo, stockCache := di.NewStockRepository(rdb, db, cfg.Redis)
	commentRepo := commentadapters.NewCommentRepository(db)
	portfolioRepo := portfolioadapters.NewPortfolioRepository(db)

	// Usecase
	accountUC := accountusecase.NewAccountUsecase(userRepo, jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.Expiration))
	stockUC := stockusecase.NewStockUsecase(stockRepo)
	commentUC := commentusecase.NewCommentUsecase(commentRepo, userRepo, stockCache)
	portfolioUC := portfoliousecase.NewPortfolioUsecase(portfolioRepo, stockRepo, userRepo, di.NewProfileProvider(cfg.FMP))

	checks := map[string]healthhandler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// ルータ生成
	r := router.NewRouter(
		router.Options{JWTSecret: cfg.JWT.Secret, AllowedOrigins: cfg.Server.AllowedOrigins},
		router.Handlers{
			Account:   accounthandler.NewAccountHandler(accountUC),
			Stock:     stockhandler.NewStockHandler(stockUC),
			Comment:   commenthandler.NewCommentHandler(commentUC),
			Portfolio: portfoliohandler.NewPortfolioHandler(portfolioUC),
			Health:    healthhandler.NewHealth(checks),
		},
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
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

	slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
