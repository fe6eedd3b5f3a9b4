package domain

import "errors"

var (
	ErrNotFound        = errors.New("subscription_not_found")
	ErrInvalidKey      = errors.New("invalid_subscription_key")
	ErrInvalidSnapshot = errors.New("invalid_snapshot")
	ErrUpstream        = errors.New("billing_api_unavailable")
	ErrCacheMiss       = errors.New("snapshot_cache_miss")
)
