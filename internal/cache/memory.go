package cache

import (
    "context"
    "sync"
    "time"
)

// MemoryStore is an in-process Store used when Redis is unreachable
// and by tests. Expired entries are dropped lazily on read; the
// process lifetime is short enough that a sweeper is not worth it.
type MemoryStore struct {
    mu      sync.Mutex
    entries map[string]memoryEntry
    now     func() time.Time
}

type memoryEntry struct {
    val     []byte
    expires time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
    return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    e, ok := s.entries[key]
    if !ok {
        return nil, false, nil
    }
    if s.now().After(e.expires) {
        delete(s.entries, key)
        return nil, false, nil
    }
    return e.val, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.entries[key] = memoryEntry{val: val, expires: s.now().Add(ttl)}
    return nil
}

func (s *MemoryStore) Del(_ context.Context, key string) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    delete(s.entries, key)
    return nil
}
