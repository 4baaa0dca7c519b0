package cache

import (
	"context"
	"sync"
	"time"

	"calcforge/internal/domain"
)

// DefaultMaxEntries bounds the in-memory store.
const DefaultMaxEntries = 1024

type memoryEntry struct {
	res       *domain.Results
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of Store with TTL expiry.
type MemoryStore struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore creates an in-memory store. ttl <= 0 means entries never expire.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the cached results.
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.expired(e) {
		return nil, ErrMiss
	}
	return e.res.Clone(), nil
}

// Set stores a copy of res. When full, expired entries are dropped first,
// then the entry closest to expiry.
func (s *MemoryStore) Set(_ context.Context, key string, res *domain.Results) error {
	if key == "" || res == nil {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists && len(s.data) >= s.maxEntries {
		s.evict()
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}
	s.data[key] = memoryEntry{res: res.Clone(), expiresAt: expiresAt}
	return nil
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

// evict must be called with mu held.
func (s *MemoryStore) evict() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range s.data {
		if s.expired(e) {
			delete(s.data, k)
			continue
		}
		if !found || e.expiresAt.Before(oldestAt) || (e.expiresAt.Equal(oldestAt) && k < oldestKey) {
			oldestKey, oldestAt, found = k, e.expiresAt, true
		}
	}
	if len(s.data) >= s.maxEntries && found {
		delete(s.data, oldestKey)
	}
}

// Verify interface compliance at compile time.
var _ Store = (*MemoryStore)(nil)
