package domain

import "errors"

var (
	ErrInvalidSighting  = errors.New("invalid sighting fields")
	ErrSightingNotFound = errors.New("sighting not found")
	ErrStorageFailure   = errors.New("sighting storage failure")
)
