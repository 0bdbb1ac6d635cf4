package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tillpoint/pos-terminal/api/controllers"
	"github.com/tillpoint/pos-terminal/api/middleware"
	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/internal/catalog"
	checkoutsvc "github.com/tillpoint/pos-terminal/internal/checkout"
	"github.com/tillpoint/pos-terminal/internal/lockdown"
	"github.com/tillpoint/pos-terminal/internal/receipts"
	"github.com/tillpoint/pos-terminal/internal/scanner"
	"github.com/tillpoint/pos-terminal/pkg/config"
	"github.com/tillpoint/pos-terminal/pkg/db"
	"github.com/tillpoint/pos-terminal/pkg/enums"
	"github.com/tillpoint/pos-terminal/pkg/logger"
	"github.com/tillpoint/pos-terminal/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	catalogSvc *catalog.Service,
	cartStore *cart.Store,
	scannerSvc *scanner.Service,
	orchestrator *checkoutsvc.Orchestrator,
	receiptSvc *receipts.Service,
	guard *lockdown.Guard,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(nil),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		// Lock management stays reachable while locked; everything that
		// sells does not.
		r.Route("/lock", func(r chi.Router) {
			r.Get("/", controllers.LockStatus(guard))
			r.Post("/", controllers.Lock(guard, logg))
		})
		r.Post("/unlock", controllers.Unlock(guard, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Lockdown(guard, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductsList(catalogSvc, logg))
				r.Post("/refresh", controllers.ProductsRefresh(catalogSvc, logg))
				r.Get("/lookup", controllers.ProductLookup(catalogSvc, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartStore, logg))
				r.Delete("/", controllers.CartClear(cartStore, logg))
				r.Post("/items", controllers.CartAddItem(cartStore, catalogSvc, logg))
				r.Patch("/items/{productId}", controllers.CartAdjustQuantity(cartStore, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(cartStore, logg))
			})

			r.Post("/scanner/events", controllers.ScannerEvents(scannerSvc, logg))

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.Checkout(orchestrator, logg))
				r.Get("/status", controllers.CheckoutStatus(orchestrator))
			})

			r.Route("/receipts", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
				r.Get("/", controllers.ReceiptsList(receiptSvc, logg))
				r.Get("/{receiptId}", controllers.ReceiptDetail(receiptSvc, logg))
				r.Post("/{receiptId}/print", controllers.ReceiptReprint(receiptSvc, logg))
			})
		})
	})

	return r
}
