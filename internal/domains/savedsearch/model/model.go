package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// SavedSearch is a named listing filter a user can re-run. Filters are
// stored in canonical form so identical searches compare equal.
type SavedSearch struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Name      string            `json:"name"`
	Filters   map[string]string `json:"filters"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type SaveSearchRequest struct {
	Name    string            `json:"name"`
	Filters map[string]string `json:"filters"`
}

func (r SaveSearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Filters, validation.Required),
	)
}
