package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/srrfarms/storefront/internal/analytics"
	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/checkout"
	"github.com/srrfarms/storefront/internal/config"
	"github.com/srrfarms/storefront/internal/customer"
	"github.com/srrfarms/storefront/internal/httpx"
	"github.com/srrfarms/storefront/internal/inventory"
	"github.com/srrfarms/storefront/internal/notify"
	"github.com/srrfarms/storefront/internal/order"
	"github.com/srrfarms/storefront/internal/pkg/cache"
	"github.com/srrfarms/storefront/internal/pkg/telemetry"
	"github.com/srrfarms/storefront/internal/postgres"
	sagasqlite "github.com/srrfarms/storefront/internal/saga/sagalog/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment")
	}

	cfg := config.Load()
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName)
	if err != nil {
		slog.Error("tracer setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("tracer shutdown failed", "error", err)
		}
	}()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		slog.Error("postgres migrate failed", "error", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName)
	defer redisCache.Close()

	sagaLog, err := sagasqlite.Open(cfg.SagaLogPath)
	if err != nil {
		slog.Error("saga log open failed", "error", err)
		os.Exit(1)
	}
	defer sagaLog.Close()

	catalogStore := catalog.NewPGStore(pool)
	customerStore := customer.NewPGStore(pool)
	orderStore := order.NewPGStore(pool)

	checkoutSvc := &checkout.Service{
		Catalog:   catalogStore,
		Customers: customerStore,
		Orders:    orderStore,
		Log:       sagaLog,
		Cache:     redisCache,
	}
	analyticsSvc := &analytics.Service{
		Catalog:   catalogStore,
		Customers: customerStore,
		Orders:    orderStore,
	}
	inventorySvc := &inventory.Service{Catalog: catalogStore}
	notifySvc := &notify.Service{
		Sender:     notify.NewSMTPSender(cfg.SMTP),
		AdminEmail: cfg.Admin.Email,
	}

	handler := httpx.NewHandler(
		catalogStore, customerStore, orderStore,
		checkoutSvc, analyticsSvc, inventorySvc, notifySvc,
	)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpx.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("storefront api listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}
