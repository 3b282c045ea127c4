// Package service contains the aggregation-and-membership core: the
// layered caches over the directory provider and the local store, the
// dinner group state machine, and the per-user venue listing built on
// top of them.
package service

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/okanse/tablemates/internal/cache"
    "github.com/okanse/tablemates/internal/model"
)

// searchClient is the slice of the directory client VenueCache needs.
type searchClient interface {
    SearchNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]model.Venue, error)
}

// venueWriter persists venues fetched from the provider.
type venueWriter interface {
    Upsert(ctx context.Context, v *model.Venue) error
}

// VenueCache caches provider search results under a composite
// (lat, lng, radius) key. A cache miss calls the provider and then
// writes every returned venue through to the local store before the
// result is cached; a hit bypasses both. Single-flight population in
// the underlying cache guarantees at most one provider call per key
// per TTL window, however many callers race on the miss.
type VenueCache struct {
    cache  *cache.Cache
    client searchClient
    venues venueWriter
    ttl    time.Duration
    prefix string
}

// NewVenueCache constructs a VenueCache.
func NewVenueCache(c *cache.Cache, client searchClient, venues venueWriter, ttl time.Duration, prefix string) *VenueCache {
    return &VenueCache{cache: c, client: client, venues: venues, ttl: ttl, prefix: prefix}
}

// GetVenues returns the venues near the given point, from cache when
// fresh. On a miss every fetched venue is upserted concurrently; a
// failed upsert does not block the others, but the collected failures
// surface as one error once all attempts finish. The provider result
// is not cached when persistence failed, so the next call retries.
func (s *VenueCache) GetVenues(ctx context.Context, lat, lng, radiusMeters float64) ([]model.Venue, error) {
    key := fmt.Sprintf("%s:search:%v:%v:%v", s.prefix, lat, lng, radiusMeters)
    raw, err := s.cache.Fetch(ctx, key, s.ttl, func(ctx context.Context) ([]byte, error) {
        venues, err := s.client.SearchNearby(ctx, lat, lng, radiusMeters)
        if err != nil {
            return nil, err
        }
        if err := s.persistAll(ctx, venues); err != nil {
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

// persistAll upserts the batch concurrently and joins any failures
// into a single error after every venue has been attempted.
func (s *VenueCache) persistAll(ctx context.Context, venues []model.Venue) error {
    var (
        wg   sync.WaitGroup
        mu   sync.Mutex
        errs []error
    )
    for i := range venues {
        wg.Add(1)
        go func(v *model.Venue) {
            defer wg.Done()
            if err := s.venues.Upsert(ctx, v); err != nil {
                mu.Lock()
                errs = append(errs, fmt.Errorf("upsert %s: %w", v.PlaceID, err))
                mu.Unlock()
            }
        }(&venues[i])
    }
    wg.Wait()
    return errors.Join(errs...)
}
