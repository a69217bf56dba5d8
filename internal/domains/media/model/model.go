package model

import (
	"time"

	"github.com/google/uuid"
)

// Collections group media by kind; each collection runs against one
// storage backend.
const (
	CollectionImages = "images"
	CollectionVideos = "videos"
)

// MediaItem is one stored object: a tier variant of an uploaded image,
// or a raw video. Owned by its listing and deleted with it.
type MediaItem struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	Collection  string    `json:"collection"`
	Tier        string    `json:"tier,omitempty"` // empty for videos
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	Bytes       int64     `json:"bytes"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Format      string    `json:"format,omitempty"`
	Quality     int       `json:"quality,omitempty"`
	Progressive bool      `json:"progressive,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadResult is the outcome of one accepted upload: every variant
// that was produced, keyed by tier for images.
type UploadResult struct {
	ListingID uuid.UUID    `json:"listing_id"`
	Items     []*MediaItem `json:"items"`
}

// BatchError attributes a failure to one file of a batch upload.
type BatchError struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// BatchResult reports partial success: a batch never fails wholesale,
// each file either lands in Uploaded or in Errors.
type BatchResult struct {
	Uploaded []*UploadResult `json:"uploaded"`
	Errors   []BatchError    `json:"errors"`
}
