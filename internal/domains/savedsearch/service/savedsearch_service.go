package service

import (
	"context"

	"github.com/google/uuid"

	"realty-backend/internal/domains/savedsearch/model"
	"realty-backend/internal/domains/savedsearch/repository"
)

type SavedSearchService interface {
	Save(ctx context.Context, userID uuid.UUID, req model.SaveSearchRequest) (*model.SavedSearch, error)
	List(ctx context.Context, userID uuid.UUID) ([]*model.SavedSearch, error)
	Update(ctx context.Context, id, userID uuid.UUID, req model.SaveSearchRequest) (*model.SavedSearch, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type savedSearchService struct {
	repo repository.SavedSearchRepository
}

func NewSavedSearchService(repo repository.SavedSearchRepository) SavedSearchService {
	return &savedSearchService{repo: repo}
}

// Save canonicalizes the filter map before storing so that two saved
// searches with the same constraints in different order compare equal.
func (s *savedSearchService) Save(ctx context.Context, userID uuid.UUID, req model.SaveSearchRequest) (*model.SavedSearch, error) {
	search := &model.SavedSearch{
		UserID:  userID,
		Name:    req.Name,
		Filters: canonicalize(req.Filters),
	}

	if err := s.repo.Create(ctx, search); err != nil {
		return nil, err
	}
	return search, nil
}

func (s *savedSearchService) List(ctx context.Context, userID uuid.UUID) ([]*model.SavedSearch, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *savedSearchService) Update(ctx context.Context, id, userID uuid.UUID, req model.SaveSearchRequest) (*model.SavedSearch, error) {
	search, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	search.Name = req.Name
	search.Filters = canonicalize(req.Filters)

	if err := s.repo.Update(ctx, search); err != nil {
		return nil, err
	}
	return search, nil
}

func (s *savedSearchService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *savedSearchService) owned(ctx context.Context, id, userID uuid.UUID) (*model.SavedSearch, error) {
	search, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if search.UserID != userID {
		return nil, model.ErrNotOwner
	}
	return search, nil
}

// canonicalize drops empty values so stored filters never carry dead
// constraints.
func canonicalize(filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters))
	for k, v := range filters {
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
