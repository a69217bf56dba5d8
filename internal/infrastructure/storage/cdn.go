package storage

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"realty-backend/internal/config"
	"realty-backend/pkg/logger"
)

// CDNStorage talks to a CDN-backed object store over plain HTTP:
// PUT/DELETE/HEAD against https://<region-host>/<zone>/<path> with a
// static AccessKey header. No retries at this layer; network failures
// come back as errors and the caller fails fast.
type CDNStorage struct {
	endpoint   string // scheme://region-host
	zone       string
	accessKey  string
	cdnBaseURL string
	client     *http.Client
}

func NewCDNStorage(cfg config.StorageConfig) *CDNStorage {
	host, ok := cfg.RegionEndpoints[cfg.Region]
	if !ok {
		host = cfg.RegionEndpoints[cfg.DefaultRegion]
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			// Off unless explicitly enabled in config.
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	return &CDNStorage{
		endpoint:   "https://" + host,
		zone:       cfg.Zone,
		accessKey:  cfg.AccessKey,
		cdnBaseURL: strings.TrimSuffix(cfg.CDNBaseURL, "/"),
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *CDNStorage) objectURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.zone, path)
}

func (s *CDNStorage) Write(ctx context.Context, path string, data []byte, contentType string) (*WriteResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(path), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build storage request: %w", err)
	}
	req.Header.Set("AccessKey", s.accessKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("cdn storage put failed", err)
		return nil, fmt.Errorf("storage put %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logger.Warn("cdn storage put rejected", map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("storage put %s: unexpected status %d", path, resp.StatusCode)
	}

	return &WriteResult{
		Path: path,
		URL:  s.cdnBaseURL + "/" + path,
		Size: int64(len(data)),
	}, nil
}

func (s *CDNStorage) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(path), nil)
	if err != nil {
		return fmt.Errorf("build storage request: %w", err)
	}
	req.Header.Set("AccessKey", s.accessKey)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("cdn storage delete failed", err)
		return fmt.Errorf("storage delete %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("storage delete %s: unexpected status %d", path, resp.StatusCode)
	}
}

func (s *CDNStorage) Exists(ctx context.Context, path string) (bool, error) {
	info, err := s.Info(ctx, path)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

func (s *CDNStorage) Info(ctx context.Context, path string) (*FileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.objectURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("build storage request: %w", err)
	}
	req.Header.Set("AccessKey", s.accessKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage head %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("storage head %s: unexpected status %d", path, resp.StatusCode)
	}

	info := &FileInfo{
		Path:        path,
		Size:        resp.ContentLength,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if lm, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		info.LastModified = lm
	}
	return info, nil
}
