package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind selects which vocabulary a term belongs to. Features, utilities
// and price types share one shape; locations add a parent.
type Kind string

const (
	KindFeature   Kind = "feature"
	KindUtility   Kind = "utility"
	KindPriceType Kind = "price_type"
)

// Term is a bilingual vocabulary entry.
type Term struct {
	ID        uuid.UUID `json:"id"`
	NameEn    string    `json:"name_en"`
	NameAr    string    `json:"name_ar"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location is a term in the place hierarchy: city, district, area.
type Location struct {
	ID        uuid.UUID  `json:"id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	NameEn    string     `json:"name_en"`
	NameAr    string     `json:"name_ar"`
	Slug      string     `json:"slug"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Match is a location lookup hit with its relevance score.
type Match struct {
	Location *Location `json:"location"`
	Score    float64   `json:"score"`
}
