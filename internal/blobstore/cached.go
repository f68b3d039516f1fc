package blobstore

import (
	"bytes"
	"context"

	"github.com/bluele/gcache"
)

// CachedStore wraps a Store with an LRU cache of fetched blobs. CIDs are
// immutable, so a cached entry never goes stale; it is only dropped on Unpin
// or eviction.
type CachedStore struct {
	Store
	cache gcache.Cache
}

// NewCachedStore caches up to size blobs in front of store.
func NewCachedStore(store Store, size int) *CachedStore {
	return &CachedStore{
		Store: store,
		cache: gcache.New(size).LRU().Build(),
	}
}

// Pin implements [Store]. The pinned bytes are cached under their CID.
func (s *CachedStore) Pin(ctx context.Context, data []byte) (string, error) {
	c, err := s.Store.Pin(ctx, data)
	if err != nil {
		return "", err
	}
	_ = s.cache.Set(c, bytes.Clone(data))
	return c, nil
}

// Fetch implements [Store].
func (s *CachedStore) Fetch(ctx context.Context, c string) ([]byte, error) {
	if cached, err := s.cache.Get(c); err == nil {
		return bytes.Clone(cached.([]byte)), nil
	}

	data, err := s.Store.Fetch(ctx, c)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(c, bytes.Clone(data))
	return data, nil
}

// Unpin implements [Store].
func (s *CachedStore) Unpin(ctx context.Context, c string) error {
	s.cache.Remove(c)
	return s.Store.Unpin(ctx, c)
}
