package domain

import "errors"

var (
	ErrBadgeNotFound  = errors.New("badge not found")
	ErrStorageFailure = errors.New("achievement storage failure")
)
