package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"casa-italia/internal/db"
	"casa-italia/internal/models"
	"casa-italia/internal/scraper"
)

// PropertyScraper is the scrape operation the API needs. Satisfied by
// scraper.Service.
type PropertyScraper interface {
	ScrapeProperty(ctx context.Context, url string) (*models.ScrapeResult, error)
}

// Handlers contains HTTP handlers and their dependencies
type Handlers struct {
	db      *db.DB
	scraper PropertyScraper
}

// NewHandlers creates a new Handlers instance
func NewHandlers(database *db.DB, sc PropertyScraper) *Handlers {
	return &Handlers{db: database, scraper: sc}
}

// ListProperties handles GET /api/properties
func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := db.PropertyFilter{}

	if v := q.Get("price_min"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMin = &val
		}
	}
	if v := q.Get("price_max"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMax = &val
		}
	}
	if v := q.Get("bedrooms_min"); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			filter.BedroomsMin = &val
		}
	}
	if v := q.Get("location"); v != "" {
		filter.Location = v
	}
	if v := q.Get("rented"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			filter.Rented = &val
		}
	}
	if v := q.Get("limit"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 && val <= 500 {
			filter.Limit = val
		}
	}
	if v := q.Get("offset"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			filter.Offset = val
		}
	}

	properties, err := h.db.ListProperties(filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"properties": properties,
		"count":      len(properties),
	})
}

// GetProperty handles GET /api/properties/{id}
func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	property, err := h.db.GetProperty(id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, property)
}

type scrapeRequest struct {
	URL string `json:"url"`
}

// Scrape handles POST /api/scrape. The scrape runs synchronously; the job ID
// tags the attempt in logs and responses.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		http.Error(w, "request body must carry a url", http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	result, err := h.scraper.ScrapeProperty(r.Context(), req.URL)

	status := http.StatusOK
	if err != nil {
		var mismatch *scraper.DomainMismatchError
		if errors.As(err, &mismatch) {
			status = http.StatusUnprocessableEntity
		} else {
			status = http.StatusBadGateway
		}
	}

	if result.Success && h.db != nil {
		if err := h.db.UpsertProperty(result.Property); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, status, map[string]interface{}{
		"jobId":  jobID,
		"result": result,
	})
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.db.GetPropertyCount()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"properties": count,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
