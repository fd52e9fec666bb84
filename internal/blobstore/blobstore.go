// Package blobstore issues time-limited credentials for direct object access.
// The API never proxies file bytes: clients PUT and GET against the returned URLs.
package blobstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidKey = errors.New("blobstore: invalid object key")
	ErrInvalidTTL = errors.New("blobstore: ttl must be positive")
)

// Store is the subset of object-store behaviour the portal relies on.
// The store, not the caller, enforces that a PUT matches the declared
// content type and length.
type Store interface {
	PresignPut(ctx context.Context, key, contentType string, contentLength int64, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func validate(key string, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	return nil
}
