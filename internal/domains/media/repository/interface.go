package repository

import (
	"context"

	"github.com/google/uuid"

	"realty-backend/internal/domains/media/model"
)

// MediaRepository persists media records. RegisterSet is the second
// phase of the upload commit: either every item of an upload lands in
// the database or none does.
type MediaRepository interface {
	RegisterSet(ctx context.Context, items []*model.MediaItem) error
	GetByListing(ctx context.Context, listingID uuid.UUID) ([]*model.MediaItem, error)
	GetByPath(ctx context.Context, path string) (*model.MediaItem, error)
	DeleteByPath(ctx context.Context, path string) error
	DeleteByListing(ctx context.Context, listingID uuid.UUID) ([]string, error)
}
