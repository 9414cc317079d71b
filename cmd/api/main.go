package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/adaezeobi/wasoko-backend/api/routes"
	"github.com/adaezeobi/wasoko-backend/internal/fees"
	"github.com/adaezeobi/wasoko-backend/internal/gateways"
	"github.com/adaezeobi/wasoko-backend/internal/orders"
	"github.com/adaezeobi/wasoko-backend/internal/payments"
	"github.com/adaezeobi/wasoko-backend/internal/payouts"
	"github.com/adaezeobi/wasoko-backend/internal/products"
	"github.com/adaezeobi/wasoko-backend/internal/sellers"
	"github.com/adaezeobi/wasoko-backend/internal/users"
	"github.com/adaezeobi/wasoko-backend/internal/webhooks"
	"github.com/adaezeobi/wasoko-backend/pkg/config"
	"github.com/adaezeobi/wasoko-backend/pkg/db"
	"github.com/adaezeobi/wasoko-backend/pkg/env"
	"github.com/adaezeobi/wasoko-backend/pkg/flutterwave"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/metrics"
	"github.com/adaezeobi/wasoko-backend/pkg/migrate"
	"github.com/adaezeobi/wasoko-backend/pkg/paystack"
	"github.com/adaezeobi/wasoko-backend/pkg/redis"
)

// webhookReplayTTL bounds how long a delivered event id suppresses replays.
const webhookReplayTTL = 24 * time.Hour

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	paystackClient, err := paystack.NewClient(cfg.Paystack, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}
	flutterwaveClient, err := flutterwave.NewClient(cfg.Flutterwave, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create flutterwave client", err)
		os.Exit(1)
	}

	gatewayRegistry, err := gateways.NewRegistry(paystackClient, flutterwaveClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build gateway registry", err)
		os.Exit(1)
	}
	verifier, err := gateways.NewVerifier(gatewayRegistry, logg, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build gateway verifier", err)
		os.Exit(1)
	}

	calculator := fees.NewCalculator(cfg.Marketplace.CommissionRate)

	paymentsRepo := payments.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	payoutsRepo := payouts.NewRepository(dbClient.DB())
	sellersRepo := sellers.NewRepository(dbClient.DB())

	paymentsService, err := payments.NewService(
		paymentsRepo, verifier, productsRepo, usersRepo,
		dbClient, redisClient, calculator, cfg.Marketplace, logg, paymentMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, payoutsRepo, dbClient, calculator, logg, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	payoutsService, err := payouts.NewService(payoutsRepo, verifier, sellersRepo, logg, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payouts service", err)
		os.Exit(1)
	}

	sellersService, err := sellers.NewService(sellersRepo, verifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sellers service", err)
		os.Exit(1)
	}

	webhooksService, err := webhooks.NewService(paymentsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhooks service", err)
		os.Exit(1)
	}
	paystackGuard, err := webhooks.NewIdempotencyGuard(redisClient, webhookReplayTTL, "paystack_webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack webhook guard", err)
		os.Exit(1)
	}
	flutterwaveGuard, err := webhooks.NewIdempotencyGuard(redisClient, webhookReplayTTL, "flutterwave_webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create flutterwave webhook guard", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Registry: registry,
			Payments: paymentsService,
			Orders:   ordersService,
			Payouts:  payoutsService,
			Sellers:  sellersService,

			Webhooks:         webhooksService,
			PaystackGuard:    paystackGuard,
			FlutterwaveGuard: flutterwaveGuard,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
