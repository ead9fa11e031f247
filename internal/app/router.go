package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gestor-pos/gestor-pos/internal/auth"
	"github.com/gestor-pos/gestor-pos/internal/catalog/clients"
	"github.com/gestor-pos/gestor-pos/internal/catalog/products"
	"github.com/gestor-pos/gestor-pos/internal/observability"
	"github.com/gestor-pos/gestor-pos/internal/receivables"
	"github.com/gestor-pos/gestor-pos/internal/sales/cart"
	"github.com/gestor-pos/gestor-pos/internal/sales/checkout"
	"github.com/gestor-pos/gestor-pos/internal/shared"
	"github.com/gestor-pos/gestor-pos/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler        *auth.Handler
	ClientsHandler     *clients.Handler
	ProductsHandler    *products.Handler
	CartHandler        *cart.Handler
	CheckoutHandler    *checkout.Handler
	ReceivablesHandler *receivables.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/clients", params.ClientsHandler.MountRoutes)
	r.Route("/products", params.ProductsHandler.MountRoutes)
	r.Route("/sales", func(r chi.Router) {
		r.Route("/cart", params.CartHandler.MountRoutes)
		params.CheckoutHandler.MountRoutes(r)
	})
	r.Route("/receivables", params.ReceivablesHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
