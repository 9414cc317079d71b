package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adaezeobi/wasoko-backend/api/controllers"
	"github.com/adaezeobi/wasoko-backend/api/middleware"
	"github.com/adaezeobi/wasoko-backend/internal/orders"
	"github.com/adaezeobi/wasoko-backend/internal/payments"
	"github.com/adaezeobi/wasoko-backend/internal/payouts"
	"github.com/adaezeobi/wasoko-backend/internal/sellers"
	"github.com/adaezeobi/wasoko-backend/internal/webhooks"
	pkgAuth "github.com/adaezeobi/wasoko-backend/pkg/auth"
	"github.com/adaezeobi/wasoko-backend/pkg/config"
	"github.com/adaezeobi/wasoko-backend/pkg/db"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/redis"
)

type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Registry prometheus.Gatherer

	Payments payments.Service
	Orders   orders.Service
	Payouts  payouts.Service
	Sellers  sellers.Service

	Webhooks         *webhooks.Service
	PaystackGuard    *webhooks.IdempotencyGuard
	FlutterwaveGuard *webhooks.IdempotencyGuard
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadyDeps(deps.DB, deps.Redis)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Browser return leg of hosted checkout. Unauthenticated: the
		// gateway redirects the buyer here without our bearer token.
		r.Get("/payments/verify", controllers.PaymentCallback(deps.Payments, cfg.Marketplace, logg))

		// Gateway-to-server deliveries, authenticated by signature.
		if deps.Webhooks != nil {
			r.Route("/webhooks", func(r chi.Router) {
				r.Post("/paystack", controllers.PaystackWebhook(deps.Webhooks, cfg.Paystack, deps.PaystackGuard, logg))
				r.Post("/flutterwave", controllers.FlutterwaveWebhook(deps.Webhooks, cfg.Flutterwave, deps.FlutterwaveGuard, logg))
			})
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Post("/payments/initialize", controllers.Checkout(deps.Payments, logg))
			r.Post("/payments/verify", controllers.VerifyPayment(deps.Payments, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListPurchases(deps.Orders, logg))
				r.Get("/sales", controllers.ListSales(deps.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
				r.Post("/{orderId}/confirm-delivery", controllers.ConfirmDelivery(deps.Orders, logg))
			})

			r.Get("/banks", controllers.ListBanks(deps.Sellers, logg))
			r.Post("/banks/resolve", controllers.ResolveBankAccount(deps.Sellers, logg))
			r.Route("/sellers/me/bank-account", func(r chi.Router) {
				r.Get("/", controllers.BankAccount(deps.Sellers, logg))
				r.Post("/", controllers.RegisterBankAccount(deps.Sellers, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(pkgAuth.RoleAdmin, logg))

			r.Route("/payouts", func(r chi.Router) {
				r.Get("/", controllers.AdminListPendingPayouts(deps.Payouts, logg))
				r.Post("/{payoutId}/approve", controllers.AdminApprovePayout(deps.Payouts, logg))
				r.Post("/{payoutId}/process", controllers.AdminProcessPayout(deps.Payouts, logg))
				r.Post("/{payoutId}/cancel", controllers.AdminCancelPayout(deps.Payouts, logg))
				r.Post("/{payoutId}/fail", controllers.AdminFailPayout(deps.Payouts, logg))
			})
			r.Get("/revenue", controllers.AdminRevenueSummary(deps.Payouts, logg))
		})
	})

	return r
}
