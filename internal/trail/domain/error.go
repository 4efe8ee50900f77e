package domain

import "errors"

var (
	ErrTrailNotFound  = errors.New("trail not found")
	ErrInvalidTrail   = errors.New("invalid trail fields")
	ErrStorageFailure = errors.New("trail storage failure")
)
