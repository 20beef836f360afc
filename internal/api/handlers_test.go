package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"casa-italia/internal/db"
	"casa-italia/internal/models"
	"casa-italia/internal/scraper"
)

type stubScraper struct {
	result *models.ScrapeResult
	err    error
}

func (s *stubScraper) ScrapeProperty(ctx context.Context, url string) (*models.ScrapeResult, error) {
	return s.result, s.err
}

func newTestRouter(t *testing.T, sc PropertyScraper) (http.Handler, *db.DB) {
	t.Helper()
	database, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewRouter(database, sc), database
}

func seedProperty(t *testing.T, database *db.DB, url string) {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Property{
		OriginalURL: url,
		Title:       "Apartamento T2",
		Price:       180000,
		Location:    "Lisboa",
		Bedrooms:    2,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := database.UpsertProperty(p); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestListPropertiesEndpoint(t *testing.T) {
	router, database := newTestRouter(t, &stubScraper{})
	seedProperty(t, database, "https://www.idealista.pt/imovel/1/")

	req := httptest.NewRequest(http.MethodGet, "/api/properties?location=Lis", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count      int                       `json:"count"`
		Properties []models.PropertyListItem `json:"properties"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Properties) != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Properties[0].Title != "Apartamento T2" {
		t.Errorf("title = %q", resp.Properties[0].Title)
	}
}

func TestGetPropertyEndpoint(t *testing.T) {
	router, database := newTestRouter(t, &stubScraper{})
	seedProperty(t, database, "https://www.idealista.pt/imovel/2/")

	req := httptest.NewRequest(http.MethodGet, "/api/properties/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var p models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.OriginalURL != "https://www.idealista.pt/imovel/2/" {
		t.Errorf("OriginalURL = %q", p.OriginalURL)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/properties/999", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/properties/abc", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestScrapeEndpointSuccessPersists(t *testing.T) {
	now := time.Now().UTC()
	sc := &stubScraper{
		result: &models.ScrapeResult{
			Success:   true,
			URL:       "https://www.idealista.it/imovel/5/",
			ScrapedAt: now,
			HTMLSize:  1234,
			Property: &models.Property{
				OriginalURL: "https://www.idealista.it/imovel/5/",
				Title:       "Casa nova",
				IsAvailable: true,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		},
	}
	router, database := newTestRouter(t, sc)

	body := strings.NewReader(`{"url": "https://www.idealista.it/imovel/5/"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		JobID  string               `json:"jobId"`
		Result *models.ScrapeResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" {
		t.Error("jobId missing")
	}
	if resp.Result == nil || !resp.Result.Success {
		t.Errorf("result = %+v", resp.Result)
	}

	saved, err := database.GetPropertyByURL("https://www.idealista.it/imovel/5/")
	if err != nil {
		t.Fatalf("scraped property not persisted: %v", err)
	}
	if saved.Title != "Casa nova" {
		t.Errorf("Title = %q", saved.Title)
	}
}

func TestScrapeEndpointDomainMismatch(t *testing.T) {
	mismatchURL := "https://www.zillow.com/homedetails/1"
	sc := &stubScraper{
		result: &models.ScrapeResult{
			URL:       mismatchURL,
			ScrapedAt: time.Now().UTC(),
			Error:     "unsupported domain",
		},
		err: &scraper.DomainMismatchError{URL: mismatchURL},
	}
	router, _ := newTestRouter(t, sc)

	body := strings.NewReader(`{"url": "` + mismatchURL + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestScrapeEndpointBadRequest(t *testing.T) {
	router, _ := newTestRouter(t, &stubScraper{})

	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &stubScraper{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("resp = %v", resp)
	}
}
