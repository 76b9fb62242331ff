package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/invenx-app/invenx-backend/api/controllers"
	"github.com/invenx-app/invenx-backend/api/middleware"
	"github.com/invenx-app/invenx-backend/internal/connectivity"
	"github.com/invenx-app/invenx-backend/internal/ledger"
	"github.com/invenx-app/invenx-backend/internal/syncqueue"
	"github.com/invenx-app/invenx-backend/pkg/config"
	"github.com/invenx-app/invenx-backend/pkg/db"
	"github.com/invenx-app/invenx-backend/pkg/logger"
)

// RouterParams carry every dependency the HTTP surface needs.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Ledger       ledger.Service
	Monitor      *connectivity.Monitor
	Queue        syncqueue.Queue
	PromGatherer prometheus.Gatherer
}

// NewRouter assembles the API routes behind the shared middleware chain.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB))
	})
	r.Get("/ping", controllers.Ping())

	if params.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.PromGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(params.Ledger, logg))
			r.Post("/", controllers.CreateProduct(params.Ledger, logg))
			r.Get("/barcode/{barcode}", controllers.GetProductByBarcode(params.Ledger, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(params.Ledger, logg))
				r.Put("/", controllers.UpdateProduct(params.Ledger, logg))
				r.Delete("/", controllers.DeleteProduct(params.Ledger, logg))
				r.Post("/increment", controllers.IncrementProductValue(params.Ledger, logg))
				r.Post("/decrement", controllers.DecrementProductValue(params.Ledger, logg))
			})
		})

		r.Get("/history", controllers.ListHistory(params.Ledger, logg))

		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", controllers.SyncStatus(params.Monitor))
			r.Get("/pending", controllers.ListPendingSync(params.Queue, logg))
		})

		r.Put("/connectivity", controllers.SetConnectivity(params.Monitor, logg))
	})

	return r
}
