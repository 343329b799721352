package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/squareeyes/backend/api/controllers"
	"github.com/squareeyes/backend/api/middleware"
	cartsvc "github.com/squareeyes/backend/internal/cart"
	catalogsvc "github.com/squareeyes/backend/internal/catalog"
	checkoutsvc "github.com/squareeyes/backend/internal/checkout"
	prefssvc "github.com/squareeyes/backend/internal/prefs"
	"github.com/squareeyes/backend/pkg/config"
	"github.com/squareeyes/backend/pkg/kv"
	"github.com/squareeyes/backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store kv.Store,
	registry *prometheus.Registry,
	catalogClient *catalogsvc.Client,
	cartService *cartsvc.Service,
	checkoutService *checkoutsvc.Service,
	prefsService *prefssvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store, catalogClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(catalogClient, logg))
			r.Get("/products/{productId}", controllers.CatalogProductDetail(catalogClient, logg))
			r.Get("/movies", controllers.CatalogSection(catalogClient, catalogsvc.KindMovie, logg))
			r.Get("/movies/genres", controllers.CatalogSectionGenres(catalogClient, catalogsvc.KindMovie, logg))
			r.Get("/series", controllers.CatalogSection(catalogClient, catalogsvc.KindSeries, logg))
			r.Get("/series/genres", controllers.CatalogSectionGenres(catalogClient, catalogsvc.KindSeries, logg))
			r.Post("/cache/clear", controllers.CatalogCacheClear(catalogClient, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.Checkout(checkoutService, logg))
			r.Get("/totals", controllers.CheckoutTotals(checkoutService, logg))
		})

		r.Get("/orders/last", controllers.LastOrder(checkoutService, logg))

		r.Route("/prefs", func(r chi.Router) {
			r.Put("/selected-category/{kind}", controllers.PrefsSetSelectedCategory(prefsService, logg))
			r.Get("/selected-category/{kind}", controllers.PrefsConsumeSelectedCategory(prefsService, logg))
			r.Get("/theme", controllers.PrefsGetTheme(prefsService, logg))
			r.Put("/theme", controllers.PrefsSetTheme(prefsService, logg))
		})
	})

	return r
}
