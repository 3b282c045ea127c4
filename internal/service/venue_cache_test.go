package service

import (
    "context"
    "errors"
    "sync"
    "sync/atomic"
    "testing"
    "time"

    "github.com/okanse/tablemates/internal/cache"
    "github.com/okanse/tablemates/internal/model"
)

type fakeSearchClient struct {
    calls  int32
    venues []model.Venue
    err    error
}

func (f *fakeSearchClient) SearchNearby(context.Context, float64, float64, float64) ([]model.Venue, error) {
    atomic.AddInt32(&f.calls, 1)
    return f.venues, f.err
}

type fakeVenueWriter struct {
    mu       sync.Mutex
    upserted []string
    failFor  string
}

func (f *fakeVenueWriter) Upsert(_ context.Context, v *model.Venue) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    if v.PlaceID == f.failFor {
        return errors.New("store down")
    }
    f.upserted = append(f.upserted, v.PlaceID)
    return nil
}

func sampleVenues() []model.Venue {
    return []model.Venue{
        {PlaceID: "p1", Name: "Broadway Diner", Latitude: 38.95, Longitude: -92.33},
        {PlaceID: "p2", Name: "Flat Branch", Latitude: 38.94, Longitude: -92.33},
        {PlaceID: "p3", Name: "Shakespeare's", Latitude: 38.94, Longitude: -92.32},
    }
}

// TestGetVenuesSingleFlight checks that concurrent misses for one key
// collapse into a single provider search and a single upsert batch.
func TestGetVenuesSingleFlight(t *testing.T) {
    client := &fakeSearchClient{venues: sampleVenues()}
    writer := &fakeVenueWriter{}
    vc := NewVenueCache(cache.New(cache.NewMemoryStore()), client, writer, time.Hour, "t")
    ctx := context.Background()

    const workers = 8
    var wg sync.WaitGroup
    errs := make([]error, workers)
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = vc.GetVenues(ctx, 38.95, -92.33, 8047)
        }(i)
    }
    wg.Wait()
    for i, err := range errs {
        if err != nil {
            t.Fatalf("worker %d: %v", i, err)
        }
    }
    if n := atomic.LoadInt32(&client.calls); n != 1 {
        t.Fatalf("expected 1 provider search, got %d", n)
    }
    if len(writer.upserted) != 3 {
        t.Fatalf("expected 3 upserts, got %d", len(writer.upserted))
    }
}

// TestGetVenuesCacheHitSkipsProviderAndStore checks that a fresh key
// bypasses both the provider call and persistence.
func TestGetVenuesCacheHitSkipsProviderAndStore(t *testing.T) {
    client := &fakeSearchClient{venues: sampleVenues()}
    writer := &fakeVenueWriter{}
    vc := NewVenueCache(cache.New(cache.NewMemoryStore()), client, writer, time.Hour, "t")
    ctx := context.Background()

    if _, err := vc.GetVenues(ctx, 38.95, -92.33, 8047); err != nil {
        t.Fatal(err)
    }
    venues, err := vc.GetVenues(ctx, 38.95, -92.33, 8047)
    if err != nil {
        t.Fatal(err)
    }
    if len(venues) != 3 {
        t.Fatalf("expected 3 venues from cache, got %d", len(venues))
    }
    if n := atomic.LoadInt32(&client.calls); n != 1 {
        t.Fatalf("cache hit must not call provider, got %d calls", n)
    }
    if len(writer.upserted) != 3 {
        t.Fatalf("cache hit must not re-upsert, got %d upserts", len(writer.upserted))
    }
}

// TestGetVenuesDistinctKeys checks that different query keys do not
// share a cache entry.
func TestGetVenuesDistinctKeys(t *testing.T) {
    client := &fakeSearchClient{venues: sampleVenues()}
    vc := NewVenueCache(cache.New(cache.NewMemoryStore()), client, &fakeVenueWriter{}, time.Hour, "t")
    ctx := context.Background()

    if _, err := vc.GetVenues(ctx, 38.95, -92.33, 8047); err != nil {
        t.Fatal(err)
    }
    if _, err := vc.GetVenues(ctx, 38.95, -92.33, 1609); err != nil {
        t.Fatal(err)
    }
    if n := atomic.LoadInt32(&client.calls); n != 2 {
        t.Fatalf("expected 2 provider searches for 2 keys, got %d", n)
    }
}

// TestGetVenuesUpsertFailureAggregates checks that one failing upsert
// does not stop the rest of the batch, and that the overall call
// still reports the failure.
func TestGetVenuesUpsertFailureAggregates(t *testing.T) {
    client := &fakeSearchClient{venues: sampleVenues()}
    writer := &fakeVenueWriter{failFor: "p2"}
    vc := NewVenueCache(cache.New(cache.NewMemoryStore()), client, writer, time.Hour, "t")
    ctx := context.Background()

    if _, err := vc.GetVenues(ctx, 38.95, -92.33, 8047); err == nil {
        t.Fatal("expected aggregate upsert error")
    }
    if len(writer.upserted) != 2 {
        t.Fatalf("expected the other 2 upserts to proceed, got %d", len(writer.upserted))
    }
    // A failed population is not cached: the next call retries the
    // provider.
    writer.failFor = ""
    if _, err := vc.GetVenues(ctx, 38.95, -92.33, 8047); err != nil {
        t.Fatal(err)
    }
    if n := atomic.LoadInt32(&client.calls); n != 2 {
        t.Fatalf("expected retry after failed population, got %d calls", n)
    }
}

// TestGetVenuesProviderErrorPropagates checks that a fatal provider
// status reaches the caller and nothing is persisted.
func TestGetVenuesProviderErrorPropagates(t *testing.T) {
    boom := errors.New("provider returned status REQUEST_DENIED")
    client := &fakeSearchClient{err: boom}
    writer := &fakeVenueWriter{}
    vc := NewVenueCache(cache.New(cache.NewMemoryStore()), client, writer, time.Hour, "t")

    if _, err := vc.GetVenues(context.Background(), 0, 0, 100); !errors.Is(err, boom) {
        t.Fatalf("expected provider error, got %v", err)
    }
    if len(writer.upserted) != 0 {
        t.Fatalf("nothing must be persisted on provider failure, got %d upserts", len(writer.upserted))
    }
}
