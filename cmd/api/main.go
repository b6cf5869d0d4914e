package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/kasoahq/checkout-backend/api/routes"
	"github.com/kasoahq/checkout-backend/internal/address"
	"github.com/kasoahq/checkout-backend/internal/cart"
	checkoutsvc "github.com/kasoahq/checkout-backend/internal/checkout"
	"github.com/kasoahq/checkout-backend/internal/coupon"
	"github.com/kasoahq/checkout-backend/internal/delivery"
	"github.com/kasoahq/checkout-backend/internal/payment"
	"github.com/kasoahq/checkout-backend/internal/wallet"
	"github.com/kasoahq/checkout-backend/pkg/config"
	"github.com/kasoahq/checkout-backend/pkg/db"
	"github.com/kasoahq/checkout-backend/pkg/logger"
	"github.com/kasoahq/checkout-backend/pkg/metrics"
	"github.com/kasoahq/checkout-backend/pkg/migrate"
	"github.com/kasoahq/checkout-backend/pkg/ordersapi"
	"github.com/kasoahq/checkout-backend/pkg/paystack"
	"github.com/kasoahq/checkout-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	paystackClient, err := paystack.NewClient(context.Background(), cfg.Paystack, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}

	ordersClient, err := ordersapi.NewClient(context.Background(), cfg.OrdersAPI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders api client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	addressService, err := address.NewService(address.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	deliveryService, err := delivery.NewService(delivery.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	couponService, err := coupon.NewService(coupon.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	walletService, err := wallet.NewService(wallet.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	paymentGate, err := payment.NewGate(walletService, paystackClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gate", err)
		os.Exit(1)
	}

	sessionStore, err := checkoutsvc.NewStore(redisClient, cfg.Checkout.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.Deps{
		Store:      sessionStore,
		Addresses:  addressService,
		Carts:      cartService,
		Deliveries: deliveryService,
		Coupons:    couponService,
		Gate:       paymentGate,
		Wallet:     walletService,
		Orders:     ordersClient,
		Locks:      redisClient,
		Config:     cfg.Checkout,
		Metrics:    checkoutMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			MetricsRegistry: registry,
			HTTPMetrics:     httpMetrics,
			Checkout:        checkoutService,
			Addresses:       addressService,
			Carts:           cartService,
			Delivery:        deliveryService,
			Wallet:          walletService,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrs := make(chan error, 1)
	go func() {
		serverErrs <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			_ = server.Close()
		}
	}
}
