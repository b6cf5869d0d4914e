package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kasoahq/checkout-backend/api/controllers"
	"github.com/kasoahq/checkout-backend/api/middleware"
	"github.com/kasoahq/checkout-backend/internal/address"
	"github.com/kasoahq/checkout-backend/internal/cart"
	checkoutsvc "github.com/kasoahq/checkout-backend/internal/checkout"
	"github.com/kasoahq/checkout-backend/internal/delivery"
	"github.com/kasoahq/checkout-backend/internal/wallet"
	"github.com/kasoahq/checkout-backend/pkg/config"
	"github.com/kasoahq/checkout-backend/pkg/db"
	"github.com/kasoahq/checkout-backend/pkg/logger"
	"github.com/kasoahq/checkout-backend/pkg/metrics"
	pkgredis "github.com/kasoahq/checkout-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           pkgredis.Pinger
	MetricsRegistry *prometheus.Registry
	HTTPMetrics     *metrics.HTTPMetrics

	Checkout  checkoutsvc.Service
	Addresses address.Service
	Carts     cart.Service
	Delivery  delivery.Service
	Wallet    wallet.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/session", controllers.GetCheckout(deps.Checkout, logg))
			r.Put("/address", controllers.SetCheckoutAddress(deps.Checkout, logg))
			r.Put("/delivery", controllers.SetCheckoutDelivery(deps.Checkout, logg))
			r.Post("/coupon", controllers.ApplyCheckoutCoupon(deps.Checkout, logg))
			r.Delete("/coupon", controllers.RemoveCheckoutCoupon(deps.Checkout, logg))
			r.Put("/payment-method", controllers.SetCheckoutPaymentMethod(deps.Checkout, logg))
			r.Post("/submit", controllers.SubmitCheckout(deps.Checkout, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.ListAddresses(deps.Addresses, logg))
			r.Post("/", controllers.CreateAddress(deps.Addresses, logg))
			r.Put("/{addressID}", controllers.UpdateAddress(deps.Addresses, logg))
			r.Delete("/{addressID}", controllers.DeleteAddress(deps.Addresses, logg))
			r.Post("/{addressID}/default", controllers.SetDefaultAddress(deps.Addresses, logg))
		})

		r.Get("/cart", controllers.GetCart(deps.Carts, logg))
		r.Get("/pickup-centers", controllers.ListPickupCenters(deps.Delivery, logg))
		r.Get("/wallet/balance", controllers.GetWalletBalance(deps.Wallet, logg))
	})

	return r
}
