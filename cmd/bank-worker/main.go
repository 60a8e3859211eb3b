package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/franchisely/franchise-backend/internal/bank"
	"github.com/franchisely/franchise-backend/internal/consumers/bankfeed"
	"github.com/franchisely/franchise-backend/internal/headoffices"
	"github.com/franchisely/franchise-backend/internal/ledger"
	"github.com/franchisely/franchise-backend/internal/stores"
	"github.com/franchisely/franchise-backend/internal/topups"
	"github.com/franchisely/franchise-backend/internal/wallets"
	"github.com/franchisely/franchise-backend/pkg/config"
	"github.com/franchisely/franchise-backend/pkg/db"
	"github.com/franchisely/franchise-backend/pkg/logger"
	"github.com/franchisely/franchise-backend/pkg/metrics"
	"github.com/franchisely/franchise-backend/pkg/pubsub"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "bank-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "bank-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	collectors := metrics.NewSettlementMetrics(prometheus.NewRegistry())

	headOfficeRepo := headoffices.NewRepository(dbClient.DB())
	storeRepo := stores.NewRepository(dbClient.DB())
	walletRepo := wallets.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())
	topupRepo := topups.NewRepository(dbClient.DB())
	bankRepo := bank.NewRepository(dbClient.DB())

	walletService, err := wallets.NewService(walletRepo)
	requireResource(ctx, logg, "wallet service", err)

	ledgerService, err := ledger.NewService(ledgerRepo, walletService)
	requireResource(ctx, logg, "ledger service", err)

	topupService, err := topups.NewService(topupRepo, dbClient, storeRepo, headOfficeRepo, walletService, ledgerService, collectors)
	requireResource(ctx, logg, "topup service", err)

	bankService, err := bank.NewService(bankRepo, dbClient, topupRepo, topupService, collectors)
	requireResource(ctx, logg, "bank service", err)

	feedConsumer, err := bankfeed.NewConsumer(bankService, pubsubClient.BankFeedSubscription(), logg)
	requireResource(ctx, logg, "bank feed consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{"env": cfg.App.Env})
	logg.Info(runCtx, "bank worker ready")

	if err := feedConsumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "bank worker not working", err)
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
