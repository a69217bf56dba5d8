package repository

import (
	"context"

	"github.com/google/uuid"

	"realty-backend/internal/domains/listing/model"
)

type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*model.Listing, error)
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Listing, int, error)
	Search(ctx context.Context, query string, limit int) ([]*model.Listing, error)
	IncrementViews(ctx context.Context, id uuid.UUID, delta int64) error
	IncrementFavorites(ctx context.Context, id uuid.UUID, delta int64) error
	SetRelations(ctx context.Context, id uuid.UUID, featureIDs, utilityIDs []uuid.UUID) error
}
