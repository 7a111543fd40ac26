package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salescope/salescope-backend/api/controllers"
	"github.com/salescope/salescope-backend/api/middleware"
	"github.com/salescope/salescope-backend/api/responses"
	productsvc "github.com/salescope/salescope-backend/internal/products"
	salesvc "github.com/salescope/salescope-backend/internal/sales"
	"github.com/salescope/salescope-backend/pkg/config"
	"github.com/salescope/salescope-backend/pkg/db"
	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
	"github.com/salescope/salescope-backend/pkg/logger"
	"github.com/salescope/salescope-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	productService productsvc.Service,
	salesService salesvc.Service,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.BodyLimit(cfg.API.MaxRequestBytes),
	)

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "method not allowed"))
	})
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Post("/", controllers.ImportProducts(productService, logg))
	})

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", controllers.ListSales(salesService, logg))
		r.Post("/", controllers.CreateSale(salesService, logg))
		r.Get("/metrics", controllers.SalesMetrics(salesService, logg))
		r.Route("/{sale_id:[0-9]+}", func(r chi.Router) {
			r.Get("/", controllers.GetSale(salesService, logg))
			r.Put("/", controllers.UpdateSale(salesService, logg))
		})
	})

	return r
}
