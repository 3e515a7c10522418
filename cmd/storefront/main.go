package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
	"github.com/GOSUGING/levelup-storefront-go/internal/clients"
	"github.com/GOSUGING/levelup-storefront-go/internal/config"
	"github.com/GOSUGING/levelup-storefront-go/internal/httpapi"
	"github.com/GOSUGING/levelup-storefront-go/internal/identity"
	"github.com/GOSUGING/levelup-storefront-go/internal/localstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("listen_addr", cfg.ListenAddr),
		zap.String("cart_url", cfg.CartURL),
		zap.String("data_dir", cfg.DataDir),
		zap.Duration("upstream_timeout", cfg.UpstreamTimeout),
	)

	slots, err := localstore.Open(cfg.DataDir)
	if err != nil {
		logger.Fatal("failed to open local store", zap.Error(err))
	}
	defer slots.Close()

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	cartGW := clients.NewCartClient(clients.NewClient("cart-service", cfg.CartURL, httpClient))
	authGW := clients.NewAuthClient(clients.NewClient("auth-service", cfg.AuthURL, httpClient))
	catalogGW := clients.NewCatalogClient(clients.NewClient("product-service", cfg.CatalogURL, httpClient))
	couponsGW := clients.NewCouponsClient(clients.NewClient("coupon-service", cfg.CouponsURL, httpClient))
	paymentGW := clients.NewPaymentClient(clients.NewClient("payment-service", cfg.PaymentURL, httpClient))
	billingGW := clients.NewBillingClient(clients.NewClient("billing-service", cfg.BillingURL, httpClient))

	session := identity.NewSession(slots, authGW, logger.Named("session"))
	snapshots := cart.NewSnapshotStore(slots, logger.Named("snapshot"))
	manager := cart.NewManager(session.UserID, cartGW, snapshots, logger.Named("cart"))

	// A restored session means the remote cart is authoritative from the
	// start; failure keeps the persisted snapshot.
	if _, ok := session.UserID(); ok {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
		if err := manager.Refresh(ctx); err != nil {
			logger.Warn("initial cart refresh failed", zap.Error(err))
		}
		cancel()
	}

	handler := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		Manager:          manager,
		Session:          session,
		Auth:             authGW,
		Users:            authGW,
		Catalog:          catalogGW,
		Coupons:          couponsGW,
		Payment:          paymentGW,
		Billing:          billingGW,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
