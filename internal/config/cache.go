package config

import "time"

// CacheConfig defines settings for the venue caches. VenueTTL bounds
// how long a provider search result is reused for a given (lat, lng,
// radius) key; DirectoryTTL bounds how long the full local venue
// listing is reused. Both default to 24 hours to match the provider's
// terms on result retention. Prefix namespaces the keys in Redis so
// several environments can share one instance. DetailConcurrency caps
// the per-batch fan-out of detail lookups against the provider.
type CacheConfig struct {
    VenueTTL          time.Duration
    DirectoryTTL      time.Duration
    Prefix            string
    DetailConcurrency int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        VenueTTL:          envDur("VENUE_CACHE_TTL", 24*time.Hour),
        DirectoryTTL:      envDur("DIRECTORY_CACHE_TTL", 24*time.Hour),
        Prefix:            getenv("CACHE_PREFIX", "tablemates"),
        DetailConcurrency: envInt("DETAIL_CONCURRENCY", 8),
    }
    if cfg.DetailConcurrency < 1 {
        cfg.DetailConcurrency = 1
    }
    return cfg
}
