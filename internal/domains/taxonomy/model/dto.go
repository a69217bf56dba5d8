package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type TermRequest struct {
	NameEn string `json:"name_en"`
	NameAr string `json:"name_ar"`
}

func (r TermRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NameEn, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.NameAr, validation.Length(0, 120)),
	)
}

type LocationRequest struct {
	NameEn   string `json:"name_en"`
	NameAr   string `json:"name_ar"`
	ParentID string `json:"parent_id"`
}

func (r LocationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NameEn, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.NameAr, validation.Length(0, 120)),
		validation.Field(&r.ParentID, validation.When(r.ParentID != "", is.UUIDv4)),
	)
}
