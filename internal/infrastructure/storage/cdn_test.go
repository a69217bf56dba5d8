package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"realty-backend/internal/config"
)

func newTestCDNStorage(url string) *CDNStorage {
	return &CDNStorage{
		endpoint:   url,
		zone:       "realty-zone",
		accessKey:  "test-key",
		cdnBaseURL: "https://cdn.example.com",
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCDNStorageWrite(t *testing.T) {
	var gotMethod, gotPath, gotKey, gotType string
	var gotBody int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("AccessKey")
		gotType = r.Header.Get("Content-Type")
		gotBody = r.ContentLength
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := newTestCDNStorage(srv.URL)

	res, err := s.Write(context.Background(), "properties/1/images/a.jpg", []byte("bytes"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/realty-zone/properties/1/images/a.jpg", gotPath)
	require.Equal(t, "test-key", gotKey)
	require.Equal(t, "image/jpeg", gotType)
	require.Equal(t, int64(5), gotBody)
	require.Equal(t, "https://cdn.example.com/properties/1/images/a.jpg", res.URL)
}

func TestCDNStorageWriteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := newTestCDNStorage(srv.URL)

	// A 500 from the store is a returned error, never a panic.
	res, err := s.Write(context.Background(), "a.jpg", []byte("x"), "image/jpeg")
	require.Error(t, err)
	require.Nil(t, res)
	require.Contains(t, err.Error(), "unexpected status 500")
}

func TestCDNStorageDelete(t *testing.T) {
	status := http.StatusNoContent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	s := newTestCDNStorage(srv.URL)

	require.NoError(t, s.Delete(context.Background(), "a.jpg"))

	status = http.StatusNotFound
	require.ErrorIs(t, s.Delete(context.Background(), "gone.jpg"), ErrNotFound)
}

func TestCDNStorageInfoAndExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/realty-zone/missing.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", "123")
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestCDNStorage(srv.URL)
	ctx := context.Background()

	info, err := s.Info(ctx, "a.jpg")
	require.NoError(t, err)
	require.Equal(t, int64(123), info.Size)
	require.Equal(t, "image/jpeg", info.ContentType)
	require.False(t, info.LastModified.IsZero())

	exists, err := s.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.Exists(ctx, "missing.jpg")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCDNStorageRegionFallback(t *testing.T) {
	cfg := config.StorageConfig{
		Zone:       "z",
		AccessKey:  "k",
		CDNBaseURL: "https://cdn.example.com",
		Region:     "mars", // not in the table
		RegionEndpoints: map[string]string{
			"de": "storage.example.com",
			"uk": "uk.storage.example.com",
		},
		DefaultRegion: "de",
	}

	s := NewCDNStorage(cfg)
	require.Equal(t, "https://storage.example.com", s.endpoint)

	cfg.Region = "uk"
	s = NewCDNStorage(cfg)
	require.Equal(t, "https://uk.storage.example.com", s.endpoint)
}
