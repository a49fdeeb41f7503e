package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omerfarooqdev/shipdesk-backend/api/controllers"
	"github.com/omerfarooqdev/shipdesk-backend/api/middleware"
	"github.com/omerfarooqdev/shipdesk-backend/internal/customers"
	"github.com/omerfarooqdev/shipdesk-backend/internal/lifecycle"
	"github.com/omerfarooqdev/shipdesk-backend/internal/orders"
	"github.com/omerfarooqdev/shipdesk-backend/internal/reconcile"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/config"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	promRegistry *prometheus.Registry,
	ordersService orders.Service,
	dispatchEngine lifecycle.Engine,
	reconcileService reconcile.Service,
	customersService customers.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// keep typed-nil pointers out of the interface values handed to
	// middleware and health checks
	var (
		idemStore redis.IdempotencyStore
		redisP    redis.Pinger
	)
	if redisClient != nil {
		idemStore = redisClient
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Post("/", controllers.OrdersImport(ordersService, logg))
			r.Delete("/", controllers.OrdersDelete(ordersService, logg))
		})

		r.Post("/ship-order", controllers.ShipOrder(dispatchEngine, logg))
		r.Post("/process-return", controllers.ProcessReturn(dispatchEngine, logg))
		r.Post("/courier-webhook", controllers.CourierWebhook(reconcileService, logg))

		r.Get("/customer-history", controllers.CustomerHistory(customersService, logg))
	})

	return r
}
