// Package places implements the client for the external directory
// provider. It issues a synchronous nearby search, then enriches each
// result with a concurrent detail lookup, and normalizes everything
// into the internal venue shape.
package places

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net/http"
    "net/url"
    "strconv"
    "sync"
    "time"

    "github.com/okanse/tablemates/internal/model"
)

// ErrMissingAPIKey is returned by NewClient when no provider
// credential is configured. Nothing can be fetched without one, so
// construction fails rather than every later call.
var ErrMissingAPIKey = errors.New("places: missing API key")

// ProviderError reports a non-success status from the provider's
// nearby search. It is fatal for the query that triggered it; no
// partial result is returned and no automatic retry is performed.
type ProviderError struct {
    Status string
}

func (e *ProviderError) Error() string {
    return fmt.Sprintf("places: provider returned status %s", e.Status)
}

// Client talks to the directory provider over HTTP. All calls carry
// the configured per-request timeout; a timeout surfaces as a normal
// request error rather than a hang.
type Client struct {
    httpClient        *http.Client
    baseURL           string
    apiKey            string
    detailConcurrency int
}

// NewClient constructs a Client. baseURL is the provider root without
// a trailing slash (e.g. https://maps.googleapis.com/maps/api/place);
// tests point it at a local server. detailConcurrency caps the
// per-batch fan-out of detail lookups.
func NewClient(apiKey, baseURL string, timeout time.Duration, detailConcurrency int) (*Client, error) {
    if apiKey == "" {
        return nil, ErrMissingAPIKey
    }
    if detailConcurrency < 1 {
        detailConcurrency = 1
    }
    return &Client{
        httpClient:        &http.Client{Timeout: timeout},
        baseURL:           baseURL,
        apiKey:            apiKey,
        detailConcurrency: detailConcurrency,
    }, nil
}

// SearchNearby fetches restaurant venues around the given point and
// radius. The search itself is sequential; detail lookups for the
// returned batch run concurrently. A failed detail lookup degrades
// that one venue to its base fields and logs a warning, it never
// fails the batch.
func (c *Client) SearchNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]model.Venue, error) {
    params := url.Values{}
    params.Set("location", fmt.Sprintf("%v,%v", lat, lng))
    params.Set("radius", strconv.Itoa(int(radiusMeters)))
    params.Set("type", "restaurant")
    params.Set("key", c.apiKey)

    var search searchResponse
    if err := c.getJSON(ctx, c.baseURL+"/nearbysearch/json?"+params.Encode(), &search); err != nil {
        return nil, err
    }
    switch search.Status {
    case statusOK:
    case statusZeroResults:
        return []model.Venue{}, nil
    default:
        return nil, &ProviderError{Status: search.Status}
    }

    venues := make([]model.Venue, len(search.Results))
    for i, res := range search.Results {
        venues[i] = model.Venue{
            PlaceID:    res.PlaceID,
            Name:       res.Name,
            PriceLevel: res.PriceLevel,
            Rating:     res.Rating,
            Latitude:   res.Geometry.Location.Lat,
            Longitude:  res.Geometry.Location.Lng,
        }
    }

    // Fan out detail lookups, bounded by the concurrency cap. Each
    // goroutine writes only to its own slice slot.
    sem := make(chan struct{}, c.detailConcurrency)
    var wg sync.WaitGroup
    for i := range venues {
        wg.Add(1)
        sem <- struct{}{}
        go func(i int) {
            defer wg.Done()
            defer func() { <-sem }()
            photoRef, mapURL, err := c.fetchDetail(ctx, venues[i].PlaceID)
            if err != nil {
                log.Printf("places: detail lookup failed for %s: %v", venues[i].PlaceID, err)
                return
            }
            venues[i].PhotoRef = photoRef
            venues[i].MapURL = mapURL
        }(i)
    }
    wg.Wait()
    return venues, nil
}

// fetchDetail retrieves the photo reference and canonical map URL for
// one place. Either value may be absent.
func (c *Client) fetchDetail(ctx context.Context, placeID string) (photoRef, mapURL *string, err error) {
    params := url.Values{}
    params.Set("place_id", placeID)
    params.Set("fields", "photos,url")
    params.Set("key", c.apiKey)

    var detail detailResponse
    if err := c.getJSON(ctx, c.baseURL+"/details/json?"+params.Encode(), &detail); err != nil {
        return nil, nil, err
    }
    if detail.Status != statusOK {
        return nil, nil, &ProviderError{Status: detail.Status}
    }
    if len(detail.Result.Photos) > 0 && detail.Result.Photos[0].PhotoReference != "" {
        ref := detail.Result.Photos[0].PhotoReference
        photoRef = &ref
    }
    if detail.Result.URL != "" {
        u := detail.Result.URL
        mapURL = &u
    }
    return photoRef, mapURL, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
    if err != nil {
        return err
    }
    resp, err := c.httpClient.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        return fmt.Errorf("places: unexpected HTTP status %d", resp.StatusCode)
    }
    return json.NewDecoder(resp.Body).Decode(out)
}
