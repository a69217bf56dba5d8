package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"realty-backend/internal/domains/media/model"
	"realty-backend/internal/domains/media/repository"
	"realty-backend/internal/infrastructure/storage"
	"realty-backend/internal/shared/utils"
	"realty-backend/pkg/cache"
	"realty-backend/pkg/logger"
)

type MediaService interface {
	UploadImage(ctx context.Context, listingID uuid.UUID, up storage.Upload) (*model.UploadResult, error)
	UploadImages(ctx context.Context, listingID uuid.UUID, ups []storage.Upload) *model.BatchResult
	UploadBase64Image(ctx context.Context, listingID uuid.UUID, filename, data string) (*model.UploadResult, error)
	UploadVideo(ctx context.Context, listingID uuid.UUID, up storage.Upload) (*model.UploadResult, error)
	UploadVideos(ctx context.Context, listingID uuid.UUID, ups []storage.Upload) *model.BatchResult
	Delete(ctx context.Context, objectPath string) error
	Info(ctx context.Context, objectPath string) (*storage.FileInfo, error)
	GetListingMedia(ctx context.Context, listingID uuid.UUID) ([]*model.MediaItem, error)
	DeleteListingMedia(ctx context.Context, listingID uuid.UUID) error
}

type mediaService struct {
	repo      repository.MediaRepository
	store     storage.ObjectStorage
	validator *storage.Validator
	generator *storage.VariantGenerator
	cache     cache.Cache
}

func NewMediaService(
	repo repository.MediaRepository,
	store storage.ObjectStorage,
	validator *storage.Validator,
	generator *storage.VariantGenerator,
	c cache.Cache,
) MediaService {
	return &mediaService{
		repo:      repo,
		store:     store,
		validator: validator,
		generator: generator,
		cache:     c,
	}
}

// UploadImage runs the full pipeline: validate, generate one variant
// per tier, then commit in two phases. Phase one writes every variant
// to storage; phase two registers the whole set in the database. Any
// failure deletes everything written so far, so either all variants of
// an upload exist or none do.
func (s *mediaService) UploadImage(ctx context.Context, listingID uuid.UUID, up storage.Upload) (*model.UploadResult, error) {
	w, h, _, inspectErr := storage.InspectImage(up.Data)
	if inspectErr == nil {
		up.Width, up.Height = w, h
	}

	if errs := s.validator.ValidateImage(up); storage.HasFatal(errs) {
		return nil, &model.ValidationFailedError{Violations: errs}
	} else if len(errs) > 0 {
		logger.Warn("upload accepted with warnings", map[string]interface{}{
			"listing_id": listingID.String(),
			"name":       up.Name,
			"warnings":   len(errs),
		})
	}

	if inspectErr != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecodeFailed, inspectErr)
	}

	variants, err := s.generator.Generate(up.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecodeFailed, err)
	}

	dir := fmt.Sprintf("properties/%s/%s", listingID, model.CollectionImages)
	slug := slugFromFilename(up.Name)

	// Phase one: storage writes.
	items := make([]*model.MediaItem, 0, len(variants))
	written := make([]string, 0, len(variants))

	for i, v := range variants {
		objectPath := storage.VariantPath(dir, slug, v.Tier, v.Format)

		res, err := s.store.Write(ctx, objectPath, v.Data, "image/"+v.Format)
		if err != nil {
			s.cleanup(ctx, written)
			logger.Error("variant write failed, upload rolled back", err)
			return nil, &model.StorageFailedError{Op: "write", Err: err}
		}
		written = append(written, objectPath)

		items = append(items, &model.MediaItem{
			ListingID:   listingID,
			Collection:  model.CollectionImages,
			Tier:        v.Tier,
			Path:        res.Path,
			URL:         res.URL,
			Bytes:       res.Size,
			Width:       v.Width,
			Height:      v.Height,
			Format:      v.Format,
			Quality:     v.Quality,
			Progressive: v.Progressive,
			SortOrder:   i,
		})
	}

	// Phase two: register the set.
	if err := s.repo.RegisterSet(ctx, items); err != nil {
		s.cleanup(ctx, written)
		logger.Error("media registration failed, upload rolled back", err)
		return nil, &model.StorageFailedError{Op: "register", Err: err}
	}

	s.invalidateListing(ctx, listingID)

	return &model.UploadResult{ListingID: listingID, Items: items}, nil
}

// UploadImages processes each file independently and reports partial
// success; one bad file never sinks the batch.
func (s *mediaService) UploadImages(ctx context.Context, listingID uuid.UUID, ups []storage.Upload) *model.BatchResult {
	result := &model.BatchResult{}

	for i, up := range ups {
		uploaded, err := s.UploadImage(ctx, listingID, up)
		if err != nil {
			result.Errors = append(result.Errors, model.BatchError{
				Index:   i,
				Name:    up.Name,
				Message: clientMessage(err),
			})
			continue
		}
		result.Uploaded = append(result.Uploaded, uploaded)
	}

	return result
}

func (s *mediaService) UploadBase64Image(ctx context.Context, listingID uuid.UUID, filename, data string) (*model.UploadResult, error) {
	// Tolerate data URL prefixes like "data:image/jpeg;base64,".
	if idx := strings.Index(data, ","); idx != -1 && strings.Contains(data[:idx], "base64") {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload", model.ErrDecodeFailed)
	}

	up := storage.Upload{
		Name: filename,
		Ext:  extFromFilename(filename),
		MIME: http.DetectContentType(raw),
		Size: int64(len(raw)),
		Data: raw,
	}

	return s.UploadImage(ctx, listingID, up)
}

// UploadVideo stores the file as-is: videos get no variant fan-out.
func (s *mediaService) UploadVideo(ctx context.Context, listingID uuid.UUID, up storage.Upload) (*model.UploadResult, error) {
	if errs := s.validator.ValidateVideo(up); storage.HasFatal(errs) {
		return nil, &model.ValidationFailedError{Violations: errs}
	}

	objectPath := fmt.Sprintf("properties/%s/%s/%s",
		listingID, model.CollectionVideos, storage.UniqueName(up.Name))

	res, err := s.store.Write(ctx, objectPath, up.Data, up.MIME)
	if err != nil {
		logger.Error("video write failed", err)
		return nil, &model.StorageFailedError{Op: "write", Err: err}
	}

	item := &model.MediaItem{
		ListingID:  listingID,
		Collection: model.CollectionVideos,
		Path:       res.Path,
		URL:        res.URL,
		Bytes:      res.Size,
		Format:     up.Ext,
	}

	if err := s.repo.RegisterSet(ctx, []*model.MediaItem{item}); err != nil {
		s.cleanup(ctx, []string{objectPath})
		return nil, &model.StorageFailedError{Op: "register", Err: err}
	}

	s.invalidateListing(ctx, listingID)

	return &model.UploadResult{ListingID: listingID, Items: []*model.MediaItem{item}}, nil
}

func (s *mediaService) UploadVideos(ctx context.Context, listingID uuid.UUID, ups []storage.Upload) *model.BatchResult {
	result := &model.BatchResult{}

	for i, up := range ups {
		uploaded, err := s.UploadVideo(ctx, listingID, up)
		if err != nil {
			result.Errors = append(result.Errors, model.BatchError{
				Index:   i,
				Name:    up.Name,
				Message: clientMessage(err),
			})
			continue
		}
		result.Uploaded = append(result.Uploaded, uploaded)
	}

	return result
}

func (s *mediaService) Delete(ctx context.Context, objectPath string) error {
	item, err := s.repo.GetByPath(ctx, objectPath)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, objectPath); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Error("storage delete failed", err)
		return &model.StorageFailedError{Op: "delete", Err: err}
	}

	if err := s.repo.DeleteByPath(ctx, objectPath); err != nil {
		return err
	}

	s.invalidateListing(ctx, item.ListingID)
	return nil
}

func (s *mediaService) Info(ctx context.Context, objectPath string) (*storage.FileInfo, error) {
	return s.store.Info(ctx, objectPath)
}

func (s *mediaService) GetListingMedia(ctx context.Context, listingID uuid.UUID) ([]*model.MediaItem, error) {
	return s.repo.GetByListing(ctx, listingID)
}

// DeleteListingMedia cascades from listing deletion: drops the records
// and then the objects. A backend miss is logged, not fatal.
func (s *mediaService) DeleteListingMedia(ctx context.Context, listingID uuid.UUID) error {
	paths, err := s.repo.DeleteByListing(ctx, listingID)
	if err != nil {
		return err
	}

	for _, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Error("cascade delete: object removal failed", err)
		}
	}

	s.invalidateListing(ctx, listingID)
	return nil
}

// cleanup deletes objects written during a failed commit. It runs on a
// detached context: when the commit failed because the client went
// away, the deletes must still go through or the variants leak.
func (s *mediaService) cleanup(ctx context.Context, paths []string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Error("cleanup: failed to delete partial variant", err)
		}
	}
}

func (s *mediaService) invalidateListing(ctx context.Context, listingID uuid.UUID) {
	if err := s.cache.InvalidateTags(ctx, "listing:"+listingID.String(), "listings"); err != nil {
		logger.Error("cache invalidation failed", err)
	}
}

// clientMessage sanitizes an error for the response envelope: full
// detail goes to the log, internal paths and keys never reach clients.
func clientMessage(err error) string {
	var vErr *model.ValidationFailedError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	if errors.Is(err, model.ErrDecodeFailed) {
		return "file is not a valid image"
	}

	var sErr *model.StorageFailedError
	if errors.As(err, &sErr) {
		return "storage operation failed"
	}
	return "upload failed"
}

func slugFromFilename(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	return utils.GenerateSlug(base)
}

func extFromFilename(name string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
}
