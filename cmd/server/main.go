package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lhardev/storefront/internal/catalog"
	"github.com/lhardev/storefront/internal/config"
	"github.com/lhardev/storefront/internal/httpx"
	"github.com/lhardev/storefront/internal/ledger"
	ledgersqlite "github.com/lhardev/storefront/internal/ledger/sqlite"
	"github.com/lhardev/storefront/internal/orders"
	"github.com/lhardev/storefront/internal/pkg/cache"
	"github.com/lhardev/storefront/internal/pkg/telemetry"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	cat, err := catalog.LoadFile(cfg.ProductsFile, catalog.DefaultSteps())
	if err != nil {
		slog.Error("load catalog", "error", err)
		os.Exit(1)
	}

	store, err := orders.OpenPebble(cfg.DataDir)
	if err != nil {
		slog.Error("open order store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var rec ledger.Recorder
	if cfg.LedgerPath != "" {
		repo, err := ledgersqlite.Open(cfg.LedgerPath)
		if err != nil {
			slog.Error("open ledger", "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		rec = repo
	}

	var c cache.Cache
	if cfg.RedisAddr != "" {
		c = cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName)
	} else {
		c = cache.NewMemoryCache(cfg.ServiceName)
	}

	svc := orders.NewService(store, rec, c)
	handler := httpx.NewHandler(cat, svc, httpx.SiteConfig{
		SiteName:      cfg.SiteName,
		UPIID:         cfg.UPIID,
		AdvanceAmount: cfg.AdvanceAmount,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: httpx.NewRouter(handler)}

	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
	_ = shutdownTracer(shutdownCtx)
}
