/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/analyze           Credit analysis
  /api/companies/*       Company registry
  /api/aggregates        Registry statistics
  /api/regions           Region distribution
  /api/pension/*         Pension workplace lookup
  /api/scenarios/*       Demo scenarios
  /api/samples           Demo listing
  /api/reset             Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.SearchCompanies)
			r.Post("/", h.CreateCompany)
			r.Get("/{id}", h.GetCompany)
			r.Get("/{id}/analysis", h.AnalyzeCompany)
			r.Get("/{id}/assessment", h.GetAssessment)
		})

		r.Get("/aggregates", h.GetAggregates)
		r.Get("/regions", h.GetRegionDistribution)

		r.Route("/pension", func(r chi.Router) {
			r.Post("/status", h.PensionStatus)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		r.Get("/samples", h.ListSamples)
		r.Post("/reset", h.ResetDatabase)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
