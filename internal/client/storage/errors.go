package storage

import "errors"

// Common client storage errors
var (
	// ErrTokenNotFound indicates that no session token is stored
	ErrTokenNotFound = errors.New("session token not found")

	// ErrStateNotFound indicates that no persisted auth store snapshot exists
	ErrStateNotFound = errors.New("persisted auth state not found")

	// ErrProductNotFound indicates that product is not present in local cache
	ErrProductNotFound = errors.New("product not found in local cache")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
