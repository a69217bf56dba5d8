package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Base64UploadRequest carries an image as a base64 payload, for admin
// clients that cannot send multipart.
type Base64UploadRequest struct {
	ListingID string `json:"listing_id"`
	Filename  string `json:"filename"`
	Data      string `json:"data"`
}

func (r Base64UploadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ListingID, validation.Required, is.UUIDv4),
		validation.Field(&r.Filename, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Data, validation.Required),
	)
}

// DeleteMediaRequest names the stored object to remove.
type DeleteMediaRequest struct {
	Path string `json:"path"`
}

func (r DeleteMediaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required, validation.Length(1, 512)),
	)
}

// MediaInfoRequest looks up a stored object.
type MediaInfoRequest struct {
	Path string `form:"path" json:"path"`
}

func (r MediaInfoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required, validation.Length(1, 512)),
	)
}
