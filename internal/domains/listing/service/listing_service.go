package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"realty-backend/internal/config"
	"realty-backend/internal/domains/listing/model"
	"realty-backend/internal/domains/listing/repository"
	mediaservice "realty-backend/internal/domains/media/service"
	"realty-backend/internal/shared/utils"
	"realty-backend/pkg/cache"
	"realty-backend/pkg/logger"
)

type ListingService interface {
	Create(ctx context.Context, userID uuid.UUID, req model.CreateListingRequest) (*model.Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*model.Listing, error)
	Update(ctx context.Context, id, userID uuid.UUID, isAdmin bool, req model.UpdateListingRequest) (*model.Listing, error)
	Delete(ctx context.Context, id, userID uuid.UUID, isAdmin bool) error
	List(ctx context.Context, f model.Filter) (*model.ListResult, error)
	Search(ctx context.Context, query string, limit int) ([]*model.Listing, error)
	RecordView(ctx context.Context, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, id uuid.UUID, favorited bool) error
}

type listingService struct {
	repo  repository.ListingRepository
	media mediaservice.MediaService
	cache cache.Cache

	listTTL   time.Duration
	detailTTL time.Duration
}

func NewListingService(repo repository.ListingRepository, media mediaservice.MediaService, c cache.Cache, cacheCfg config.CacheConfig) ListingService {
	return &listingService{
		repo:      repo,
		media:     media,
		cache:     c,
		listTTL:   time.Duration(cacheCfg.SearchTTLMinutes) * time.Minute,
		detailTTL: time.Duration(cacheCfg.ListingTTLMinutes) * time.Minute,
	}
}

func (s *listingService) Create(ctx context.Context, userID uuid.UUID, req model.CreateListingRequest) (*model.Listing, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	l := &model.Listing{
		UserID:      userID,
		Title:       req.Title,
		TitleAr:     req.TitleAr,
		Slug:        utils.GenerateSlug(req.Title),
		Description: req.Description,
		Price:       price,
		PriceTypeID: parseOptionalUUID(req.PriceTypeID),
		LocationID:  parseOptionalUUID(req.LocationID),
		Status:      model.StatusDraft,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqm:     req.AreaSqm,
		Featured:    req.Featured,
	}
	if l.Slug == "" {
		l.Slug = "listing"
	}

	// On a slug collision, retry once with a short random suffix.
	if err := s.repo.Create(ctx, l); err != nil {
		if !errors.Is(err, model.ErrDuplicateSlug) {
			return nil, err
		}
		l.Slug = fmt.Sprintf("%s-%s", l.Slug, uuid.NewString()[:8])
		if err := s.repo.Create(ctx, l); err != nil {
			return nil, err
		}
	}

	if err := s.setRelations(ctx, l, req.FeatureIDs, req.UtilityIDs); err != nil {
		return nil, err
	}

	s.invalidate(ctx, l.ID)
	return l, nil
}

func (s *listingService) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	key := utils.CacheKey("listing:id", map[string]string{"id": id.String()})

	var cached model.Listing
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheDetail(ctx, key, l)
	return l, nil
}

func (s *listingService) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	key := utils.CacheKey("listing:slug", map[string]string{"slug": slug})

	var cached model.Listing
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	l, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.cacheDetail(ctx, key, l)
	return l, nil
}

func (s *listingService) Update(ctx context.Context, id, userID uuid.UUID, isAdmin bool, req model.UpdateListingRequest) (*model.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && l.UserID != userID {
		return nil, model.ErrNotOwner
	}

	applyUpdate(l, req)

	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price: %w", err)
		}
		l.Price = price
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	if req.FeatureIDs != nil || req.UtilityIDs != nil {
		if err := s.setRelations(ctx, l, req.FeatureIDs, req.UtilityIDs); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx, l.ID)
	return l, nil
}

// Delete removes the listing, then cascades to its media: storage
// objects and media records go with it.
func (s *listingService) Delete(ctx context.Context, id, userID uuid.UUID, isAdmin bool) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && l.UserID != userID {
		return model.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.media.DeleteListingMedia(ctx, id); err != nil {
		logger.Error("listing media cascade failed", err)
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *listingService) List(ctx context.Context, f model.Filter) (*model.ListResult, error) {
	f = normalizeFilter(f)

	filters := f.Map()
	filters["page"] = fmt.Sprintf("%d", f.Page)
	filters["limit"] = fmt.Sprintf("%d", f.Limit)
	key := utils.CacheKey("listings:list", filters)

	var cached model.ListResult
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	listings, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	result := &model.ListResult{
		Listings: listings,
		Total:    total,
		Page:     f.Page,
		Limit:    f.Limit,
	}

	if err := s.cache.Set(ctx, key, result, s.listTTL, "listings"); err != nil {
		logger.Error("listing list cache set failed", err)
	}
	return result, nil
}

func (s *listingService) Search(ctx context.Context, query string, limit int) ([]*model.Listing, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.repo.Search(ctx, query, limit)
}

// RecordView bumps the hot counter in Redis; the database row is only
// touched every flush interval worth of views to keep writes cheap.
func (s *listingService) RecordView(ctx context.Context, id uuid.UUID) error {
	count, err := s.cache.Increment(ctx, "views:"+id.String())
	if err != nil {
		// Redis down: fall through to a direct write.
		return s.repo.IncrementViews(ctx, id, 1)
	}

	const flushEvery = 10
	if count%flushEvery == 0 {
		return s.repo.IncrementViews(ctx, id, flushEvery)
	}
	return nil
}

func (s *listingService) ToggleFavorite(ctx context.Context, id uuid.UUID, favorited bool) error {
	delta := int64(1)
	if !favorited {
		delta = -1
	}
	if err := s.repo.IncrementFavorites(ctx, id, delta); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *listingService) setRelations(ctx context.Context, l *model.Listing, featureIDs, utilityIDs []string) error {
	features, err := parseUUIDs(featureIDs)
	if err != nil {
		return fmt.Errorf("invalid feature id: %w", err)
	}
	utilities, err := parseUUIDs(utilityIDs)
	if err != nil {
		return fmt.Errorf("invalid utility id: %w", err)
	}

	if err := s.repo.SetRelations(ctx, l.ID, features, utilities); err != nil {
		return err
	}
	l.FeatureIDs = features
	l.UtilityIDs = utilities
	return nil
}

func (s *listingService) cacheDetail(ctx context.Context, key string, l *model.Listing) {
	if err := s.cache.Set(ctx, key, l, s.detailTTL, "listing:"+l.ID.String(), "listings"); err != nil {
		logger.Error("listing detail cache set failed", err)
	}
}

// invalidate drops every cached entry tagged with this listing plus all
// list pages. Only affected keys go, nothing else in the cache moves.
func (s *listingService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateTags(ctx, "listing:"+id.String(), "listings"); err != nil {
		logger.Error("listing cache invalidation failed", err)
	}
}

func applyUpdate(l *model.Listing, req model.UpdateListingRequest) {
	if req.Title != nil {
		l.Title = *req.Title
		l.Slug = utils.GenerateSlug(*req.Title)
	}
	if req.TitleAr != nil {
		l.TitleAr = *req.TitleAr
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.PriceTypeID != nil {
		l.PriceTypeID = parseOptionalUUID(*req.PriceTypeID)
	}
	if req.LocationID != nil {
		l.LocationID = parseOptionalUUID(*req.LocationID)
	}
	if req.Status != nil {
		l.Status = *req.Status
	}
	if req.Bedrooms != nil {
		l.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		l.Bathrooms = *req.Bathrooms
	}
	if req.AreaSqm != nil {
		l.AreaSqm = *req.AreaSqm
	}
	if req.Featured != nil {
		l.Featured = *req.Featured
	}
}

func normalizeFilter(f model.Filter) model.Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
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

func parseUUIDs(ss []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
