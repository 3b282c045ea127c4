package cache

import (
    "context"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisStore backs the cache with Redis so several instances of the
// service share one cached copy of the provider results.
type RedisStore struct {
    rdb *redis.Client
}

// NewRedisStore returns a RedisStore over the given client. The client
// must be non-nil; callers that got nil from config.NewRedisClient
// should fall back to NewMemoryStore instead.
func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
    val, err := s.rdb.Get(ctx, key).Bytes()
    if err != nil {
        if errors.Is(err, redis.Nil) {
            return nil, false, nil
        }
        return nil, false, err
    }
    return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
    return s.rdb.SetEx(ctx, key, val, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
    return s.rdb.Del(ctx, key).Err()
}
