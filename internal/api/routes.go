package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"casa-italia/internal/db"
)

// NewRouter creates and configures the Chi router
func NewRouter(database *db.DB, sc PropertyScraper) http.Handler {
	r := chi.NewRouter()

	r.Use(Logger)
	r.Use(CORS)

	h := NewHandlers(database, sc)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/properties", h.ListProperties)
		r.Get("/properties/{id}", h.GetProperty)
		r.Post("/scrape", h.Scrape)
	})

	return r
}
