package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/franchisely/franchise-backend/api/controllers"
	ordercontrollers "github.com/franchisely/franchise-backend/api/controllers/orders"
	"github.com/franchisely/franchise-backend/api/middleware"
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
	"github.com/franchisely/franchise-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsReg *prometheus.Registry,
	storeService stores.Service,
	headOfficeService headoffices.Service,
	inviteService invites.Service,
	productService products.Service,
	orderService orders.Service,
	walletService wallets.Service,
	ledgerService ledger.Service,
	topupService topups.Service,
	bankService bank.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// A typed-nil client must not reach the middlewares as a non-nil interface.
	var redisP db.Pinger
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idemStore = redisClient
	}

	joinPolicy := middleware.NewAuthRateLimitPolicy(
		"join",
		cfg.AuthRateLimit.JoinWindow,
		cfg.AuthRateLimit.JoinIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(joinPolicy, redisClient, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/stores/join", controllers.StoreJoin(storeService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.StoreAuth(storeService, logg))
			r.Use(middleware.StoreContext(logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/stores/me", controllers.StoreProfile(storeService, logg))
			r.Get("/catalog", controllers.CatalogList(productService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", ordercontrollers.Place(orderService, logg))
				r.Get("/", ordercontrollers.List(orderService, logg))
				r.Get("/{orderId}", ordercontrollers.Detail(orderService, logg))
			})

			r.Get("/wallet", controllers.WalletBalance(walletService, logg))
			r.Get("/wallet/ledger", controllers.LedgerHistory(ledgerService, logg))

			r.Route("/topups", func(r chi.Router) {
				r.Post("/", controllers.TopupCreate(topupService, logg))
				r.Get("/", controllers.TopupList(topupService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.Admin, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/head-offices", func(r chi.Router) {
			r.Post("/", controllers.AdminHeadOfficeCreate(headOfficeService, logg))
			r.Get("/", controllers.AdminHeadOfficeList(headOfficeService, logg))
			r.Get("/{headOfficeId}", controllers.AdminHeadOfficeGet(headOfficeService, logg))
			r.Patch("/{headOfficeId}", controllers.AdminHeadOfficeUpdate(headOfficeService, logg))
			r.Post("/{headOfficeId}/invites", controllers.AdminInviteIssue(inviteService, logg))
			r.Post("/{headOfficeId}/products", controllers.AdminProductCreate(productService, logg))
			r.Get("/{headOfficeId}/products", controllers.AdminProductList(productService, logg))
			r.Get("/{headOfficeId}/stores", controllers.AdminStoreList(storeService, logg))
		})

		r.Patch("/products/{productId}", controllers.AdminProductUpdate(productService, logg))

		r.Route("/stores/{storeId}", func(r chi.Router) {
			r.Patch("/status", controllers.AdminStoreSetStatus(storeService, logg))
			r.Get("/reconcile", controllers.AdminStoreReconcile(ledgerService, logg))
		})

		r.Route("/topups/{topupId}", func(r chi.Router) {
			r.Get("/", controllers.AdminTopupGet(topupService, logg))
			r.Post("/approve", controllers.AdminTopupApprove(topupService, logg))
		})

		r.Post("/bank-transactions", controllers.AdminBankIngest(bankService, logg))
	})

	return r
}
