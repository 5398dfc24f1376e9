package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/savia/posaudit/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(runRepo *repository.RunRepo, baseURL string) http.Handler {
	h := &Handlers{
		runRepo: runRepo,
		baseURL: baseURL,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Validation.
		r.Post("/batches/validate", h.ValidateBatch)

		// Run history.
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}", h.GetRun)
		r.Get("/runs/{id}/report", h.GetRunReport)

		// Dashboard.
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}
