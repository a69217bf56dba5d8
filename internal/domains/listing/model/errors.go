package model

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrDuplicateSlug   = errors.New("a listing with this slug already exists")
	ErrNotOwner        = errors.New("listing belongs to another user")
)
