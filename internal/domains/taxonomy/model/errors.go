package model

import "errors"

var (
	ErrTermNotFound     = errors.New("term not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrDuplicateTerm    = errors.New("a term with this name already exists")
	ErrUnknownKind      = errors.New("unknown taxonomy kind")
)
