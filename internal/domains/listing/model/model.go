package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Listing is a property advertisement. Price is stored as numeric and
// carried as a decimal so money never rounds through float64.
type Listing struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	TitleAr     string          `json:"title_ar,omitempty"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	PriceTypeID *uuid.UUID      `json:"price_type_id,omitempty"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	Status      string          `json:"status"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	AreaSqm     float64         `json:"area_sqm"`
	Featured    bool            `json:"featured"`
	Views       int64           `json:"views"`
	Favorites   int64           `json:"favorites"`
	FeatureIDs  []uuid.UUID     `json:"feature_ids,omitempty"`
	UtilityIDs  []uuid.UUID     `json:"utility_ids,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Filter narrows listing queries. Zero values mean "no constraint".
type Filter struct {
	Status     string
	LocationID string
	PriceType  string
	PriceMin   string
	PriceMax   string
	Bedrooms   string
	Featured   string
	Search     string
	Sort       string
	Page       int
	Limit      int
}

// Map flattens the filter for canonical cache key derivation. Empty
// values are dropped by the canonicalizer.
func (f Filter) Map() map[string]string {
	return map[string]string{
		"status":    f.Status,
		"location":  f.LocationID,
		"ptype":     f.PriceType,
		"price_min": f.PriceMin,
		"price_max": f.PriceMax,
		"bedrooms":  f.Bedrooms,
		"featured":  f.Featured,
		"q":         f.Search,
		"sort":      f.Sort,
	}
}

type ListResult struct {
	Listings []*Listing `json:"listings"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}
