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

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/fresh-market/config"
	"github.com/d60-Lab/fresh-market/internal/api"
	"github.com/d60-Lab/fresh-market/internal/api/handler"
	"github.com/d60-Lab/fresh-market/internal/repository"
	"github.com/d60-Lab/fresh-market/internal/service"
	"github.com/d60-Lab/fresh-market/pkg/database"
	"github.com/d60-Lab/fresh-market/pkg/logger"
	"github.com/d60-Lab/fresh-market/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// @title fresh-market API
// @version 1.0
// @description 生鲜肉类/海鲜多角色商城订单服务
func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	if cfg.Otel.Enable {
		shutdown := must(tracing.Init(ctx, "fresh-market", cfg.Otel.Endpoint))
		defer func() { _ = shutdown(ctx) }()
	}

	db := must(database.InitDB(cfg))
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	cartStore := repository.NewCartStore(rdb)

	orderSvc := service.NewOrderService(orderRepo, productRepo, userRepo, cartStore)
	shopSvc := service.NewShopOrderService(orderRepo, productRepo, userRepo)

	r := api.NewRouter(cfg, handler.New(orderSvc, shopSvc))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
