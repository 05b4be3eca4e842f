package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pratamawijaya/teashop/internal/auth"
	"github.com/pratamawijaya/teashop/internal/catalog"
	"github.com/pratamawijaya/teashop/internal/config"
	"github.com/pratamawijaya/teashop/internal/httpx"
	"github.com/pratamawijaya/teashop/internal/inventory"
	"github.com/pratamawijaya/teashop/internal/orders"
	"github.com/pratamawijaya/teashop/internal/postgres"
	"github.com/pratamawijaya/teashop/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.PostgresDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Repos & services
	resolver := &auth.RedisResolver{RDB: rdb}
	catalogRepo := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	adjuster := &inventory.Adjuster{DB: db}
	productCache := &redisx.ProductCache{RDB: rdb}
	statusCache := &redisx.OrderStatusCache{RDB: rdb}

	checkout := &orders.Checkout{Store: orderRepo, Cache: statusCache, Log: logger}

	// Router
	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Products: catalogRepo, Cache: productCache}).Register(router)
	(&httpx.OrdersHandler{Checkout: checkout, Orders: orderRepo, Resolver: resolver}).Register(router)
	(&httpx.AdminHandler{
		Products:  catalogRepo,
		Inventory: adjuster,
		Orders:    orderRepo,
		Cache:     productCache,
		Resolver:  resolver,
	}).Register(router)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("%s listening at %s", cfg.ServiceName, cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Printf("shutdown signal: %s", s)
	case err := <-errCh:
		logger.Printf("fatal: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Printf("shutdown complete")
}
