package domain

import "errors"

var (
	ErrUnknownPlan          = errors.New("unknown plan")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidTransition    = errors.New("invalid subscription transition")
	ErrStorageFailure       = errors.New("subscription storage failure")
	ErrInconsistentState    = errors.New("subscription state inconsistent with user tier")
)
