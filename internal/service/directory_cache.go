package service

import (
    "context"
    "encoding/json"
    "time"

    "github.com/okanse/tablemates/internal/cache"
    "github.com/okanse/tablemates/internal/model"
)

// venueLister reads the full venue table from the local store.
type venueLister interface {
    ListAll(ctx context.Context) ([]model.Venue, error)
}

// DirectoryCache caches the full local-store venue listing under a
// single fixed key. Venue upserts never invalidate it (a deliberate
// staleness window bounded by the TTL); membership transitions do,
// through Invalidate, so listings after a join or leave are internally
// consistent in time.
type DirectoryCache struct {
    cache  *cache.Cache
    venues venueLister
    ttl    time.Duration
    key    string
}

// NewDirectoryCache constructs a DirectoryCache.
func NewDirectoryCache(c *cache.Cache, venues venueLister, ttl time.Duration, prefix string) *DirectoryCache {
    return &DirectoryCache{cache: c, venues: venues, ttl: ttl, key: prefix + ":venues:all"}
}

// AllVenues returns every mirrored venue, from cache when fresh.
func (s *DirectoryCache) AllVenues(ctx context.Context) ([]model.Venue, error) {
    raw, err := s.cache.Fetch(ctx, s.key, s.ttl, func(ctx context.Context) ([]byte, error) {
        venues, err := s.venues.ListAll(ctx)
        if err != nil {
            return nil, err
        }
        return json.Marshal(venues)
    })
    if err != nil {
        return nil, err
    }
    var venues []model.Venue
    if err := json.Unmarshal(raw, &venues); err != nil {
        return nil, err
    }
    return venues, nil
}

// Invalidate drops the cached listing so the next read scans the
// store again.
func (s *DirectoryCache) Invalidate(ctx context.Context) error {
    return s.cache.Invalidate(ctx, s.key)
}
