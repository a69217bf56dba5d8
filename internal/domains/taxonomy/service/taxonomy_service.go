package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realty-backend/internal/config"
	"realty-backend/internal/domains/taxonomy/model"
	"realty-backend/internal/domains/taxonomy/repository"
	"realty-backend/internal/shared/utils"
	"realty-backend/pkg/cache"
	"realty-backend/pkg/logger"
)

type TaxonomyService interface {
	CreateTerm(ctx context.Context, kind model.Kind, req model.TermRequest) (*model.Term, error)
	ListTerms(ctx context.Context, kind model.Kind) ([]*model.Term, error)
	UpdateTerm(ctx context.Context, kind model.Kind, id uuid.UUID, req model.TermRequest) (*model.Term, error)
	DeleteTerm(ctx context.Context, kind model.Kind, id uuid.UUID) error

	CreateLocation(ctx context.Context, req model.LocationRequest) (*model.Location, error)
	ListLocations(ctx context.Context) ([]*model.Location, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, req model.LocationRequest) (*model.Location, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	MatchLocations(ctx context.Context, query string, limit int) ([]*model.Match, error)
}

type taxonomyService struct {
	terms     repository.TermRepository
	locations repository.LocationRepository
	cache     cache.Cache
	ttl       time.Duration
}

func NewTaxonomyService(terms repository.TermRepository, locations repository.LocationRepository, c cache.Cache, cacheCfg config.CacheConfig) TaxonomyService {
	return &taxonomyService{
		terms:     terms,
		locations: locations,
		cache:     c,
		ttl:       time.Duration(cacheCfg.TaxonomyTTLMinutes) * time.Minute,
	}
}

func (s *taxonomyService) CreateTerm(ctx context.Context, kind model.Kind, req model.TermRequest) (*model.Term, error) {
	t := &model.Term{
		NameEn: req.NameEn,
		NameAr: req.NameAr,
		Slug:   utils.GenerateSlug(req.NameEn),
	}

	if err := s.terms.Create(ctx, kind, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, kind)
	return t, nil
}

// ListTerms is the hot read: vocabularies change rarely and are read
// on every listing form, so they sit in cache for an hour.
func (s *taxonomyService) ListTerms(ctx context.Context, kind model.Kind) ([]*model.Term, error) {
	key := utils.CacheKey("taxonomy:terms", map[string]string{"kind": string(kind)})

	var cached []*model.Term
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	terms, err := s.terms.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, terms, s.ttl, "taxonomy:"+string(kind)); err != nil {
		logger.Error("taxonomy cache set failed", err)
	}
	return terms, nil
}

func (s *taxonomyService) UpdateTerm(ctx context.Context, kind model.Kind, id uuid.UUID, req model.TermRequest) (*model.Term, error) {
	t, err := s.terms.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	t.NameEn = req.NameEn
	t.NameAr = req.NameAr
	t.Slug = utils.GenerateSlug(req.NameEn)

	if err := s.terms.Update(ctx, kind, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, kind)
	return t, nil
}

func (s *taxonomyService) DeleteTerm(ctx context.Context, kind model.Kind, id uuid.UUID) error {
	if err := s.terms.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.invalidate(ctx, kind)
	return nil
}

func (s *taxonomyService) CreateLocation(ctx context.Context, req model.LocationRequest) (*model.Location, error) {
	l := &model.Location{
		NameEn:   req.NameEn,
		NameAr:   req.NameAr,
		Slug:     utils.GenerateSlug(req.NameEn),
		ParentID: parseOptionalUUID(req.ParentID),
	}

	if err := s.locations.Create(ctx, l); err != nil {
		return nil, err
	}
	s.invalidateLocations(ctx)
	return l, nil
}

func (s *taxonomyService) ListLocations(ctx context.Context) ([]*model.Location, error) {
	key := utils.CacheKey("taxonomy:locations", nil)

	var cached []*model.Location
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, locations, s.ttl, "taxonomy:locations"); err != nil {
		logger.Error("locations cache set failed", err)
	}
	return locations, nil
}

func (s *taxonomyService) UpdateLocation(ctx context.Context, id uuid.UUID, req model.LocationRequest) (*model.Location, error) {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	l.NameEn = req.NameEn
	l.NameAr = req.NameAr
	l.Slug = utils.GenerateSlug(req.NameEn)
	l.ParentID = parseOptionalUUID(req.ParentID)

	if err := s.locations.Update(ctx, l); err != nil {
		return nil, err
	}
	s.invalidateLocations(ctx)
	return l, nil
}

func (s *taxonomyService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	if err := s.locations.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateLocations(ctx)
	return nil
}

// MatchLocations loads the (cached) full list and scores it in memory.
// The whole table is a few hundred rows, so scanning beats a per-query
// SQL round trip.
func (s *taxonomyService) MatchLocations(ctx context.Context, query string, limit int) ([]*model.Match, error) {
	locations, err := s.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return matchLocations(locations, query, limit), nil
}

func (s *taxonomyService) invalidate(ctx context.Context, kind model.Kind) {
	if err := s.cache.InvalidateTags(ctx, "taxonomy:"+string(kind)); err != nil {
		logger.Error("taxonomy cache invalidation failed", err)
	}
}

func (s *taxonomyService) invalidateLocations(ctx context.Context) {
	if err := s.cache.InvalidateTags(ctx, "taxonomy:locations"); err != nil {
		logger.Error("locations cache invalidation failed", err)
	}
}

func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
