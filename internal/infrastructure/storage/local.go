package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"realty-backend/internal/config"
)

// LocalStorage writes under a disk directory served through a public
// base URL. Parent directories are created as needed.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(cfg config.StorageConfig) *LocalStorage {
	return &LocalStorage{
		root:    cfg.LocalRoot,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}
}

func (s *LocalStorage) Write(ctx context.Context, path string, data []byte, contentType string) (*WriteResult, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("create directory for %s: %w", path, err)
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return &WriteResult{
		Path: path,
		URL:  s.baseURL + "/" + path,
		Size: int64(len(data)),
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	full := filepath.Join(s.root, filepath.FromSlash(path))

	err := os.Remove(full)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))

	_, err := os.Stat(full)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *LocalStorage) Info(ctx context.Context, path string) (*FileInfo, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))

	fi, err := os.Stat(full)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Path:         path,
		Size:         fi.Size(),
		LastModified: fi.ModTime(),
	}, nil
}
