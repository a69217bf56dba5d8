package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Info and Delete when the object does not
// exist on the backend.
var ErrNotFound = errors.New("object not found")

// WriteResult describes a successfully stored object.
type WriteResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// FileInfo describes a stored object without fetching its body.
type FileInfo struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStorage is the storage writer contract. A deployment uses
// exactly one active backend per logical collection. Backends never
// panic past this boundary; failures come back as wrapped errors and
// are logged with context at the call site.
type ObjectStorage interface {
	Write(ctx context.Context, path string, data []byte, contentType string) (*WriteResult, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Info(ctx context.Context, path string) (*FileInfo, error)
}
