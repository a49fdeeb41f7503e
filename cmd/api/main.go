package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/omerfarooqdev/shipdesk-backend/api/routes"
	"github.com/omerfarooqdev/shipdesk-backend/internal/customers"
	"github.com/omerfarooqdev/shipdesk-backend/internal/inventory"
	"github.com/omerfarooqdev/shipdesk-backend/internal/lifecycle"
	"github.com/omerfarooqdev/shipdesk-backend/internal/orders"
	"github.com/omerfarooqdev/shipdesk-backend/internal/reconcile"
	"github.com/omerfarooqdev/shipdesk-backend/internal/tenants"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/config"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/courier"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/metrics"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/migrate"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/redis"
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

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dispatchMetrics := metrics.NewDispatchMetrics(promRegistry)
	reconcileMetrics := metrics.NewReconcileMetrics(promRegistry)

	pool := db.NewPool(cfg.DB.TenantConnectTimeout, nil)
	registry, err := tenants.NewRegistry(tenants.NewRepository(dbClient.DB()), pool, dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create tenant registry", err)
		os.Exit(1)
	}

	orderRepos := orders.RepositoryFactory(orders.NewRepository)
	stockFactory := lifecycle.StockFactory(func(tx *gorm.DB, tenantID string) (inventory.Service, error) {
		return inventory.NewService(inventory.NewRepository(tx, tenantID))
	})

	ordersService, err := orders.NewService(registry, orderRepos, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	dispatcher := courier.NewClient(cfg.Courier, logg, dispatchMetrics)

	engine, err := lifecycle.NewEngine(lifecycle.Params{
		Registry:               registry,
		Dispatcher:             dispatcher,
		OrderRepos:             orderRepos,
		Stock:                  stockFactory,
		ReturnValueDiscountPct: cfg.Inventory.ReturnValueDiscountPct,
		Logger:                 logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle engine", err)
		os.Exit(1)
	}

	reconcileService, err := reconcile.NewService(registry, orderRepos, engine, reconcileMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(registry, orderRepos)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			promRegistry,
			ordersService,
			engine,
			reconcileService,
			customersService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
