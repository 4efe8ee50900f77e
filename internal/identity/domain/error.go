package domain

import "errors"

var (
	ErrDuplicateIdentity  = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidIdentity    = errors.New("invalid identity fields")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
	ErrStorageFailure     = errors.New("identity storage failure")
)
