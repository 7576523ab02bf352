package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"iq-home/estimate/internal/app/config"
	"iq-home/estimate/internal/app/http/handlers"
	"iq-home/estimate/internal/app/http/middleware"
)

// NewRouter wires the HTTP surface. gatherer may be nil to expose the default
// prometheus registry.
func NewRouter(cfg config.Config, h *handlers.Handlers, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowOrigin,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Internal-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.InternalAuth(cfg.InternalToken))

		r.Get("/templates", h.ListTemplates)
		r.Post("/estimates/derive", h.DeriveEstimate)
		r.Post("/estimates/export", h.ExportEstimate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Patch("/", h.UpdateHeader)
				r.Delete("/", h.DeleteSession)
				r.Post("/items", h.AddItem)
				r.Patch("/items/{index}", h.UpdateItem)
				r.Put("/discount", h.SetDiscount)
				r.Post("/taxes", h.AddTax)
				r.Patch("/taxes/{index}", h.UpdateTax)
				r.Get("/export", h.ExportSession)
			})
		})
	})

	return r
}
