package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casa-italia/internal/models"
)

// ErrNotFound is returned when a lookup matches no property.
var ErrNotFound = errors.New("property not found")

// PropertyFilter contains all filter parameters for property queries
type PropertyFilter struct {
	PriceMin    *float64
	PriceMax    *float64
	BedroomsMin *int
	Location    string
	Rented      *bool
	// Pagination
	Limit  int
	Offset int
}

// ListProperties returns properties matching the given filters
func (db *DB) ListProperties(f PropertyFilter) ([]models.PropertyListItem, error) {
	query := `
		SELECT id, original_url, title, price, location,
			bedrooms, bathrooms, area, is_rented
		FROM properties
		WHERE is_available = 1
	`

	args := make([]interface{}, 0)

	if f.PriceMin != nil {
		query += " AND price >= ?"
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		query += " AND price <= ?"
		args = append(args, *f.PriceMax)
	}
	if f.BedroomsMin != nil {
		query += " AND bedrooms >= ?"
		args = append(args, *f.BedroomsMin)
	}
	if f.Location != "" {
		query += " AND location LIKE ?"
		args = append(args, "%"+f.Location+"%")
	}
	if f.Rented != nil {
		query += " AND is_rented = ?"
		args = append(args, boolToInt(*f.Rented))
	}

	query += " ORDER BY updated_at DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT %d", limit)
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", f.Offset)
	}

	properties := []models.PropertyListItem{}
	if err := db.Select(&properties, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	return properties, nil
}

type propertyRow struct {
	ID          int64     `db:"id"`
	OriginalURL string    `db:"original_url"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Location    string    `db:"location"`
	Bedrooms    int       `db:"bedrooms"`
	Bathrooms   int       `db:"bathrooms"`
	Area        int       `db:"area"`
	Features    string    `db:"features"`
	Images      string    `db:"images"`
	Latitude    *float64  `db:"latitude"`
	Longitude   *float64  `db:"longitude"`
	RealEstate  string    `db:"real_estate"`
	IsRented    bool      `db:"is_rented"`
	IsAvailable bool      `db:"is_available"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *propertyRow) toModel() *models.Property {
	var features, images []string
	json.Unmarshal([]byte(r.Features), &features)
	json.Unmarshal([]byte(r.Images), &images)

	return &models.Property{
		ID:          r.ID,
		OriginalURL: r.OriginalURL,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Location:    r.Location,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Area:        r.Area,
		Features:    features,
		Images:      images,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		RealEstate:  r.RealEstate,
		IsRented:    r.IsRented,
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const propertyColumns = `
	id, original_url, title, description, price, location,
	bedrooms, bathrooms, area,
	COALESCE(features, '[]') as features,
	COALESCE(images, '[]') as images,
	latitude, longitude, real_estate,
	is_rented, is_available, created_at, updated_at
`

// GetProperty returns a single property by ID with full details
func (db *DB) GetProperty(id int64) (*models.Property, error) {
	var row propertyRow
	err := db.Get(&row, "SELECT "+propertyColumns+" FROM properties WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return row.toModel(), nil
}

// GetPropertyByURL returns a single property by its original listing URL
func (db *DB) GetPropertyByURL(originalURL string) (*models.Property, error) {
	var row propertyRow
	err := db.Get(&row, "SELECT "+propertyColumns+" FROM properties WHERE original_url = ?", originalURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return row.toModel(), nil
}

// UpsertProperty inserts or updates a property based on original_url.
// A rescrape refreshes every extracted field but keeps created_at.
func (db *DB) UpsertProperty(p *models.Property) error {
	features, err := json.Marshal(emptyIfNil(p.Features))
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	images, err := json.Marshal(emptyIfNil(p.Images))
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO properties (
			original_url, title, description, price, location,
			bedrooms, bathrooms, area, features, images,
			latitude, longitude, real_estate,
			is_rented, is_available, created_at, updated_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?
		)
		ON CONFLICT(original_url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			price = excluded.price,
			location = excluded.location,
			bedrooms = excluded.bedrooms,
			bathrooms = excluded.bathrooms,
			area = excluded.area,
			features = excluded.features,
			images = excluded.images,
			latitude = COALESCE(excluded.latitude, properties.latitude),
			longitude = COALESCE(excluded.longitude, properties.longitude),
			real_estate = excluded.real_estate,
			is_rented = excluded.is_rented,
			is_available = excluded.is_available,
			updated_at = excluded.updated_at
	`

	_, err = db.Exec(query,
		p.OriginalURL, p.Title, p.Description, p.Price, p.Location,
		p.Bedrooms, p.Bathrooms, p.Area, string(features), string(images),
		p.Latitude, p.Longitude, p.RealEstate,
		boolToInt(p.IsRented), boolToInt(p.IsAvailable),
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// MarkUnavailable flags a listing that no longer resolves.
func (db *DB) MarkUnavailable(originalURL string) error {
	_, err := db.Exec(
		"UPDATE properties SET is_available = 0, updated_at = ? WHERE original_url = ?",
		time.Now().UTC(), originalURL,
	)
	return err
}

// GetPropertyCount returns total number of properties
func (db *DB) GetPropertyCount() (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM properties")
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
