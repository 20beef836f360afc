package models

import "time"

// Property is the normalized record one extraction produces. Fields the page
// did not yield keep their sentinel zero values; a missing field never fails
// the whole record.
type Property struct {
	ID          int64    `db:"id" json:"id"`
	OriginalURL string   `db:"original_url" json:"originalUrl"`
	Title       string   `db:"title" json:"title"`
	Description string   `db:"description" json:"description"`
	Price       float64  `db:"price" json:"price"`
	Location    string   `db:"location" json:"location"`
	Bedrooms    int      `db:"bedrooms" json:"bedrooms"`
	Bathrooms   int      `db:"bathrooms" json:"bathrooms"`
	Area        int      `db:"area" json:"area"` // square meters
	Features    []string `db:"-" json:"features"`
	Images      []string `db:"-" json:"images"`
	// Latitude and Longitude are both set or both nil.
	Latitude    *float64  `db:"latitude" json:"latitude"`
	Longitude   *float64  `db:"longitude" json:"longitude"`
	RealEstate  string    `db:"real_estate" json:"realEstate"`
	IsRented    bool      `db:"is_rented" json:"isRented"`
	IsAvailable bool      `db:"is_available" json:"isAvailable"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ScrapeResult is the envelope returned for one scrape attempt.
type ScrapeResult struct {
	Success   bool      `json:"success"`
	URL       string    `json:"url"`
	ScrapedAt time.Time `json:"scrapedAt"`
	HTMLSize  int       `json:"htmlSize,omitempty"`
	Property  *Property `json:"property,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// PropertyListItem is a lightweight projection for list endpoints.
type PropertyListItem struct {
	ID          int64   `db:"id" json:"id"`
	OriginalURL string  `db:"original_url" json:"originalUrl"`
	Title       string  `db:"title" json:"title"`
	Price       float64 `db:"price" json:"price"`
	Location    string  `db:"location" json:"location"`
	Bedrooms    int     `db:"bedrooms" json:"bedrooms"`
	Bathrooms   int     `db:"bathrooms" json:"bathrooms"`
	Area        int     `db:"area" json:"area"`
	IsRented    bool    `db:"is_rented" json:"isRented"`
}
