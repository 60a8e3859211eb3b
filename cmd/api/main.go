package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/franchisely/franchise-backend/api/routes"
	"github.com/franchisely/franchise-backend/internal/bank"
	"github.com/franchisely/franchise-backend/internal/headoffices"
	"github.com/franchisely/franchise-backend/internal/invites"
	"github.com/franchisely/franchise-backend/internal/ledger"
	"github.com/franchisely/franchise-backend/internal/orders"
	"github.com/franchisely/franchise-backend/internal/products"
	"github.com/franchisely/franchise-backend/internal/stores"
	"github.com/franchisely/franchise-backend/internal/topups"
	"github.com/franchisely/franchise-backend/internal/wallets"
	"github.com/franchisely/franchise-backend/pkg/config"
	"github.com/franchisely/franchise-backend/pkg/db"
	"github.com/franchisely/franchise-backend/pkg/logger"
	"github.com/franchisely/franchise-backend/pkg/metrics"
	"github.com/franchisely/franchise-backend/pkg/migrate"
	"github.com/franchisely/franchise-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	metricsReg := prometheus.NewRegistry()
	collectors := metrics.NewSettlementMetrics(metricsReg)

	headOfficeRepo := headoffices.NewRepository(dbClient.DB())
	inviteRepo := invites.NewRepository(dbClient.DB())
	storeRepo := stores.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	walletRepo := wallets.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	topupRepo := topups.NewRepository(dbClient.DB())
	bankRepo := bank.NewRepository(dbClient.DB())

	headOfficeService, err := headoffices.NewService(headOfficeRepo)
	requireResource(ctx, logg, "head office service", err)

	inviteService, err := invites.NewService(inviteRepo, headOfficeRepo)
	requireResource(ctx, logg, "invite service", err)

	storeService, err := stores.NewService(storeRepo, dbClient, inviteService)
	requireResource(ctx, logg, "store service", err)

	productService, err := products.NewService(productRepo)
	requireResource(ctx, logg, "product service", err)

	walletService, err := wallets.NewService(walletRepo)
	requireResource(ctx, logg, "wallet service", err)

	ledgerService, err := ledger.NewService(ledgerRepo, walletService)
	requireResource(ctx, logg, "ledger service", err)

	orderService, err := orders.NewService(orderRepo, dbClient, storeRepo, productService, walletService, ledgerService, collectors)
	requireResource(ctx, logg, "order service", err)

	topupService, err := topups.NewService(topupRepo, dbClient, storeRepo, headOfficeRepo, walletService, ledgerService, collectors)
	requireResource(ctx, logg, "topup service", err)

	bankService, err := bank.NewService(bankRepo, dbClient, topupRepo, topupService, collectors)
	requireResource(ctx, logg, "bank service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			metricsReg,
			storeService,
			headOfficeService,
			inviteService,
			productService,
			orderService,
			walletService,
			ledgerService,
			topupService,
			bankService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(runCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
