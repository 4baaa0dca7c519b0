// Package cache memoises calculation results by input fingerprint.
package cache

import (
	"context"
	"errors"

	"calcforge/internal/domain"
)

var (
	// ErrMiss is returned when no live entry exists for a key.
	ErrMiss = errors.New("cache miss")

	// ErrInvalidInput is returned for an empty key or nil results.
	ErrInvalidInput = errors.New("invalid input")
)

// Store caches Results. Implementations must return copies so callers
// cannot mutate cached values.
type Store interface {
	// Get returns cached results. Returns ErrMiss if absent or expired.
	Get(ctx context.Context, key string) (*domain.Results, error)

	// Set stores results under key, replacing any previous entry.
	Set(ctx context.Context, key string, res *domain.Results) error

	// Close releases underlying resources.
	Close() error
}
