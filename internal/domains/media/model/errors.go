package model

import (
	"errors"
	"fmt"
	"strings"

	"realty-backend/internal/infrastructure/storage"
)

var (
	ErrMediaNotFound = errors.New("media not found")
	ErrDecodeFailed  = errors.New("cannot decode image")
)

// ValidationFailedError carries the full accumulated violation list so
// the handler can return every problem at once.
type ValidationFailedError struct {
	Violations []storage.ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Error())
	}
	return fmt.Sprintf("upload validation failed: %s", strings.Join(msgs, "; "))
}

// StorageFailedError wraps a backend failure. The underlying error is
// logged with full context; the message exposed to clients stays
// generic and never leaks paths or keys.
type StorageFailedError struct {
	Op  string
	Err error
}

func (e *StorageFailedError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageFailedError) Unwrap() error {
	return e.Err
}
