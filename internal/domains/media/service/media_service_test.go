package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"realty-backend/internal/config"
	"realty-backend/internal/domains/media/model"
	"realty-backend/internal/infrastructure/storage"
)

// fakeStorage keeps objects in memory and can fail the Nth write.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	writes    int
	failWrite int    // fail the Nth write (1-based), 0 = never
	onFail    func() // runs when the injected failure fires
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Write(ctx context.Context, path string, data []byte, contentType string) (*storage.WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.failWrite > 0 && f.writes == f.failWrite {
		if f.onFail != nil {
			f.onFail()
		}
		return nil, errors.New("backend unavailable")
	}

	f.objects[path] = data
	return &storage.WriteResult{Path: path, URL: "https://cdn.test/" + path, Size: int64(len(data))}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.objects[path]; !ok {
		return storage.ErrNotFound
	}
	delete(f.objects, path)
	return nil
}

func (f *fakeStorage) Exists(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[path]
	return ok, nil
}

func (f *fakeStorage) Info(ctx context.Context, path string) (*storage.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.FileInfo{Path: path, Size: int64(len(data))}, nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeRepo is an in-memory MediaRepository.
type fakeRepo struct {
	mu           sync.Mutex
	items        map[string]*model.MediaItem
	failRegister bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*model.MediaItem{}}
}

func (f *fakeRepo) RegisterSet(ctx context.Context, items []*model.MediaItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRegister {
		return errors.New("database down")
	}
	for _, item := range items {
		item.ID = uuid.New()
		f.items[item.Path] = item
	}
	return nil
}

func (f *fakeRepo) GetByListing(ctx context.Context, listingID uuid.UUID) ([]*model.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.MediaItem
	for _, item := range f.items {
		if item.ListingID == listingID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByPath(ctx context.Context, path string) (*model.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[path]
	if !ok {
		return nil, model.ErrMediaNotFound
	}
	return item, nil
}

func (f *fakeRepo) DeleteByPath(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[path]; !ok {
		return model.ErrMediaNotFound
	}
	delete(f.items, path)
	return nil
}

func (f *fakeRepo) DeleteByListing(ctx context.Context, listingID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var paths []string
	for p, item := range f.items {
		if item.ListingID == listingID {
			paths = append(paths, p)
			delete(f.items, p)
		}
	}
	return paths, nil
}

// fakeCache records invalidated tags.
type fakeCache struct {
	mu   sync.Mutex
	tags []string
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	return nil
}
func (f *fakeCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (f *fakeCache) InvalidateTags(ctx context.Context, tags ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, tags...)
	return nil
}
func (f *fakeCache) Increment(ctx context.Context, key string) (int64, error) { return 0, nil }
func (f *fakeCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) Ping(ctx context.Context) error { return nil }

func testMediaConfig() config.MediaConfig {
	return config.MediaConfig{
		MaxImageBytes:     5 * 1024 * 1024,
		MaxVideoBytes:     500 * 1024 * 1024,
		MaxWidth:          8000,
		MaxHeight:         6000,
		AllowedImageExts:  []string{"jpg", "jpeg", "png"},
		AllowedImageMIMEs: []string{"image/jpeg", "image/png"},
		AllowedVideoExts:  []string{"mp4"},
		AllowedVideoMIMEs: []string{"video/mp4"},
		PreserveBytes:     2 * 1024 * 1024,
		InterlaceBytes:    4 * 1024 * 1024,
		QualityBoost:      3,
		QualityCap:        98,
		Tiers:             config.DefaultTiers(),
	}
}

func newTestService(t *testing.T) (MediaService, *fakeStorage, *fakeRepo, *fakeCache) {
	t.Helper()

	cfg := testMediaConfig()
	store := newFakeStorage()
	repo := newFakeRepo()
	c := &fakeCache{}

	svc := NewMediaService(repo, store, storage.NewValidator(cfg), storage.NewVariantGenerator(cfg), c)
	return svc, store, repo, c
}

func jpegUpload(t *testing.T, name string, w, h int) storage.Upload {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))

	return storage.Upload{
		Name: name,
		Ext:  "jpg",
		MIME: "image/jpeg",
		Size: int64(buf.Len()),
		Data: buf.Bytes(),
	}
}

func TestUploadImageCreatesAllVariants(t *testing.T) {
	svc, store, repo, c := newTestService(t)
	listingID := uuid.New()

	result, err := svc.UploadImage(context.Background(), listingID, jpegUpload(t, "villa.jpg", 800, 600))
	require.NoError(t, err)
	require.Len(t, result.Items, 5, "one variant per configured tier")
	require.Equal(t, 5, store.count())

	tiers := map[string]bool{}
	for _, item := range result.Items {
		require.NotEqual(t, uuid.Nil, item.ID, "registered in the repository")
		require.Contains(t, item.Path, "properties/"+listingID.String()+"/images/")
		require.Contains(t, item.Path, "villa_"+item.Tier)
		tiers[item.Tier] = true
	}
	require.Len(t, tiers, 5)

	registered, err := repo.GetByListing(context.Background(), listingID)
	require.NoError(t, err)
	require.Len(t, registered, 5)

	require.Contains(t, c.tags, "listing:"+listingID.String())
	require.Contains(t, c.tags, "listings")
}

func TestUploadImageRollsBackOnStorageFailure(t *testing.T) {
	svc, store, repo, _ := newTestService(t)
	store.failWrite = 3 // third variant write fails

	_, err := svc.UploadImage(context.Background(), uuid.New(), jpegUpload(t, "a.jpg", 800, 600))
	require.Error(t, err)

	var sErr *model.StorageFailedError
	require.ErrorAs(t, err, &sErr)

	require.Equal(t, 0, store.count(), "partial variants must be cleaned up")
	require.Empty(t, repo.items, "nothing registered")
}

func TestUploadImageRollsBackOnRegistrationFailure(t *testing.T) {
	svc, store, repo, _ := newTestService(t)
	repo.failRegister = true

	_, err := svc.UploadImage(context.Background(), uuid.New(), jpegUpload(t, "a.jpg", 800, 600))
	require.Error(t, err)
	require.Equal(t, 0, store.count(), "storage writes rolled back when registration fails")
}

func TestUploadImageRejectsBeforeAnyWrite(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	up := jpegUpload(t, "scan.bmp", 100, 100)
	up.Ext = "bmp"

	_, err := svc.UploadImage(context.Background(), uuid.New(), up)

	var vErr *model.ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Violations, 1)
	require.Equal(t, storage.CodeUnsupportedExtension, vErr.Violations[0].Code)
	require.Equal(t, 0, store.count(), "validation aborts before storage writes")
}

func TestUploadImageDecodeFailure(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	up := storage.Upload{Name: "fake.jpg", Ext: "jpg", MIME: "image/jpeg", Size: 12, Data: []byte("not an image")}
	_, err := svc.UploadImage(context.Background(), uuid.New(), up)
	require.ErrorIs(t, err, model.ErrDecodeFailed)
}

func TestUploadImagesPartialSuccess(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	bad := jpegUpload(t, "scan.bmp", 50, 50)
	bad.Ext = "bmp"

	result := svc.UploadImages(context.Background(), uuid.New(), []storage.Upload{
		jpegUpload(t, "ok.jpg", 400, 300),
		bad,
	})

	require.Len(t, result.Uploaded, 1)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 1, result.Errors[0].Index)
	require.Equal(t, "scan.bmp", result.Errors[0].Name)
	require.Equal(t, 5, store.count(), "good file still fully processed")
}

func TestUploadBase64Image(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	up := jpegUpload(t, "b64.jpg", 200, 150)
	encoded := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(up.Data)

	result, err := svc.UploadBase64Image(context.Background(), uuid.New(), "b64.jpg", encoded)
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
}

func TestUploadVideoStoredAsIs(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	listingID := uuid.New()

	up := storage.Upload{Name: "tour.mp4", Ext: "mp4", MIME: "video/mp4", Size: 4, Data: []byte("vvvv")}
	result, err := svc.UploadVideo(context.Background(), listingID, up)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, model.CollectionVideos, result.Items[0].Collection)
	require.Equal(t, 1, store.count())
}

func TestDeleteMedia(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	listingID := uuid.New()

	result, err := svc.UploadImage(context.Background(), listingID, jpegUpload(t, "x.jpg", 300, 200))
	require.NoError(t, err)

	target := result.Items[0].Path
	require.NoError(t, svc.Delete(context.Background(), target))

	exists, err := store.Exists(context.Background(), target)
	require.NoError(t, err)
	require.False(t, exists)

	require.ErrorIs(t, svc.Delete(context.Background(), target), model.ErrMediaNotFound)
}

func TestDeleteListingMediaCascades(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	listingID := uuid.New()

	_, err := svc.UploadImage(context.Background(), listingID, jpegUpload(t, "a.jpg", 300, 200))
	require.NoError(t, err)
	_, err = svc.UploadVideo(context.Background(), listingID,
		storage.Upload{Name: "t.mp4", Ext: "mp4", MIME: "video/mp4", Size: 1, Data: []byte{0}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteListingMedia(context.Background(), listingID))
	require.Equal(t, 0, store.count())
}

func TestUploadImageMarksProgressiveForLargeSources(t *testing.T) {
	cfg := testMediaConfig()
	cfg.InterlaceBytes = 10 // any real jpeg is bigger than this
	svc := NewMediaService(newFakeRepo(), newFakeStorage(),
		storage.NewValidator(cfg), storage.NewVariantGenerator(cfg), &fakeCache{})

	result, err := svc.UploadImage(context.Background(), uuid.New(), jpegUpload(t, "villa.jpg", 400, 300))
	require.NoError(t, err)
	for _, item := range result.Items {
		require.True(t, item.Progressive, "tier %s carries the progressive flag", item.Tier)
	}

	// Under the default threshold the same source stays baseline.
	svcDefault, _, _, _ := newTestService(t)
	result, err = svcDefault.UploadImage(context.Background(), uuid.New(), jpegUpload(t, "villa.jpg", 400, 300))
	require.NoError(t, err)
	for _, item := range result.Items {
		require.False(t, item.Progressive)
	}
}

func TestRollbackCleanupSurvivesRequestCancellation(t *testing.T) {
	svc, store, repo, _ := newTestService(t)
	listingID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The third write fails and takes the request context with it,
	// as when the client disconnects mid-upload.
	store.failWrite = 3
	store.onFail = cancel

	_, err := svc.UploadImage(ctx, listingID, jpegUpload(t, "villa.jpg", 800, 600))

	var sErr *model.StorageFailedError
	require.ErrorAs(t, err, &sErr)
	require.Equal(t, 0, store.count(), "rollback deletes written variants despite the dead request context")

	items, err := repo.GetByListing(context.Background(), listingID)
	require.NoError(t, err)
	require.Empty(t, items)
}
