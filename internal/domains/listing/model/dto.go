package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateListingRequest struct {
	Title       string      `json:"title"`
	TitleAr     string      `json:"title_ar"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	PriceTypeID string      `json:"price_type_id"`
	LocationID  string      `json:"location_id"`
	Bedrooms    int         `json:"bedrooms"`
	Bathrooms   int         `json:"bathrooms"`
	AreaSqm     float64     `json:"area_sqm"`
	Featured    bool        `json:"featured"`
	FeatureIDs  []string    `json:"feature_ids"`
	UtilityIDs  []string    `json:"utility_ids"`
}

func (r CreateListingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 255)),
		validation.Field(&r.Description, validation.Length(0, 10000)),
		validation.Field(&r.Price, validation.Required, is.Float),
		validation.Field(&r.PriceTypeID, validation.When(r.PriceTypeID != "", is.UUIDv4)),
		validation.Field(&r.LocationID, validation.When(r.LocationID != "", is.UUIDv4)),
		validation.Field(&r.Bedrooms, validation.Min(0), validation.Max(50)),
		validation.Field(&r.Bathrooms, validation.Min(0), validation.Max(50)),
		validation.Field(&r.AreaSqm, validation.Min(0.0)),
	)
}

type UpdateListingRequest struct {
	Title       *string  `json:"title"`
	TitleAr     *string  `json:"title_ar"`
	Description *string  `json:"description"`
	Price       *string  `json:"price"`
	PriceTypeID *string  `json:"price_type_id"`
	LocationID  *string  `json:"location_id"`
	Status      *string  `json:"status"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	AreaSqm     *float64 `json:"area_sqm"`
	Featured    *bool    `json:"featured"`
	FeatureIDs  []string `json:"feature_ids"`
	UtilityIDs  []string `json:"utility_ids"`
}

func (r UpdateListingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.When(r.Title != nil, validation.Length(3, 255))),
		validation.Field(&r.Price, validation.When(r.Price != nil, is.Float)),
		validation.Field(&r.Status, validation.When(r.Status != nil,
			validation.In(StatusDraft, StatusPublished, StatusArchived))),
	)
}
