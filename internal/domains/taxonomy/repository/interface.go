package repository

import (
	"context"

	"github.com/google/uuid"

	"realty-backend/internal/domains/taxonomy/model"
)

type TermRepository interface {
	Create(ctx context.Context, kind model.Kind, t *model.Term) error
	GetByID(ctx context.Context, kind model.Kind, id uuid.UUID) (*model.Term, error)
	List(ctx context.Context, kind model.Kind) ([]*model.Term, error)
	Update(ctx context.Context, kind model.Kind, t *model.Term) error
	Delete(ctx context.Context, kind model.Kind, id uuid.UUID) error
}

type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	List(ctx context.Context) ([]*model.Location, error)
	Update(ctx context.Context, l *model.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
}
